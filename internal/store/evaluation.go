package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Evaluation represents a stored evaluation result. Data is the full
// serialized result including per-angle breakdown and feedback.
type Evaluation struct {
	ID           string          `json:"id"`
	PoseName     string          `json:"pose_name"`
	StandardID   string          `json:"standard_id"`
	Source       string          `json:"source"`
	OverallScore int             `json:"overall_score"`
	Passed       bool            `json:"passed"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    time.Time       `json:"created_at"`
}

// EvaluationRepository provides persistence for evaluation results.
type EvaluationRepository struct {
	db *sql.DB
}

// Evaluations returns the evaluation repository for this store.
func (s *Store) Evaluations() *EvaluationRepository {
	return &EvaluationRepository{db: s.db}
}

// Create inserts a new evaluation into the database.
func (r *EvaluationRepository) Create(e *Evaluation) error {
	e.CreatedAt = time.Now()

	passed := 0
	if e.Passed {
		passed = 1
	}

	_, err := r.db.Exec(
		`INSERT INTO evaluations (id, pose_name, standard_id, source, overall_score, passed, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.PoseName, e.StandardID, e.Source, e.OverallScore, passed, string(e.Data), e.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves an evaluation by its ID.
func (r *EvaluationRepository) GetByID(id string) (*Evaluation, error) {
	e := &Evaluation{}
	var data string
	var passed int

	err := r.db.QueryRow(
		`SELECT id, pose_name, standard_id, source, overall_score, passed, data, created_at
		 FROM evaluations WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.PoseName, &e.StandardID, &e.Source, &e.OverallScore, &passed, &data, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	e.Passed = passed != 0
	e.Data = json.RawMessage(data)
	return e, nil
}

// List retrieves all evaluations, optionally filtered by pose name.
func (r *EvaluationRepository) List(poseName string) ([]*Evaluation, error) {
	query := `SELECT id, pose_name, standard_id, source, overall_score, passed, data, created_at
	          FROM evaluations ORDER BY created_at DESC`
	args := []any{}
	if poseName != "" {
		query = `SELECT id, pose_name, standard_id, source, overall_score, passed, data, created_at
		         FROM evaluations WHERE pose_name = ? ORDER BY created_at DESC`
		args = append(args, poseName)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []*Evaluation
	for rows.Next() {
		e := &Evaluation{}
		var data string
		var passed int
		if err := rows.Scan(&e.ID, &e.PoseName, &e.StandardID, &e.Source, &e.OverallScore, &passed, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Passed = passed != 0
		e.Data = json.RawMessage(data)
		evaluations = append(evaluations, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return evaluations, nil
}

// Delete removes an evaluation by its ID.
func (r *EvaluationRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM evaluations WHERE id = ?`, id)
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
