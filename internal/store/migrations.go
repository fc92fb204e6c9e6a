package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Golden standards table - stores the reference templates built
		// from expert training videos. The data column holds the full
		// serialized standard (per-angle stats + frame sequence).
		`CREATE TABLE IF NOT EXISTS golden_standards (
			id TEXT PRIMARY KEY,
			pose_name TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			total_frames INTEGER NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Evaluations table - stores scored candidate performances.
		// The data column holds the full serialized evaluation result.
		`CREATE TABLE IF NOT EXISTS evaluations (
			id TEXT PRIMARY KEY,
			pose_name TEXT NOT NULL,
			standard_id TEXT NOT NULL REFERENCES golden_standards(id) ON DELETE CASCADE,
			source TEXT NOT NULL DEFAULT '',
			overall_score INTEGER NOT NULL,
			passed INTEGER NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_golden_standards_pose_name ON golden_standards(pose_name)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_pose_name ON evaluations(pose_name)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_standard_id ON evaluations(standard_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
