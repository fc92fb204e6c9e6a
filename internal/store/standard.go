package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Standard represents a stored golden standard. Data is the serialized
// template consumed by the testing path; it is written once and never
// updated afterwards.
type Standard struct {
	ID          string          `json:"id"`
	PoseName    string          `json:"pose_name"`
	Source      string          `json:"source"`
	TotalFrames int             `json:"total_frames"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StandardRepository provides persistence for golden standards.
type StandardRepository struct {
	db *sql.DB
}

// Standards returns the golden standard repository for this store.
func (s *Store) Standards() *StandardRepository {
	return &StandardRepository{db: s.db}
}

// Create inserts a new golden standard into the database.
func (r *StandardRepository) Create(st *Standard) error {
	st.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO golden_standards (id, pose_name, source, total_frames, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		st.ID, st.PoseName, st.Source, st.TotalFrames, string(st.Data), st.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a golden standard by its ID.
func (r *StandardRepository) GetByID(id string) (*Standard, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, pose_name, source, total_frames, data, created_at
		 FROM golden_standards WHERE id = ?`,
		id,
	))
}

// LatestByPose retrieves the most recently created golden standard for a pose.
func (r *StandardRepository) LatestByPose(poseName string) (*Standard, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, pose_name, source, total_frames, data, created_at
		 FROM golden_standards WHERE pose_name = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		poseName,
	))
}

// List retrieves all golden standards, optionally filtered by pose name.
func (r *StandardRepository) List(poseName string) ([]*Standard, error) {
	query := `SELECT id, pose_name, source, total_frames, data, created_at
	          FROM golden_standards ORDER BY created_at DESC`
	args := []any{}
	if poseName != "" {
		query = `SELECT id, pose_name, source, total_frames, data, created_at
		         FROM golden_standards WHERE pose_name = ? ORDER BY created_at DESC`
		args = append(args, poseName)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standards []*Standard
	for rows.Next() {
		st := &Standard{}
		var data string
		if err := rows.Scan(&st.ID, &st.PoseName, &st.Source, &st.TotalFrames, &data, &st.CreatedAt); err != nil {
			return nil, err
		}
		st.Data = json.RawMessage(data)
		standards = append(standards, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return standards, nil
}

// Delete removes a golden standard (and its evaluations, via cascade).
func (r *StandardRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM golden_standards WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *StandardRepository) scanOne(row *sql.Row) (*Standard, error) {
	st := &Standard{}
	var data string

	err := row.Scan(&st.ID, &st.PoseName, &st.Source, &st.TotalFrames, &data, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	st.Data = json.RawMessage(data)
	return st, nil
}
