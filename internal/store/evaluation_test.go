package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func newTestEvaluation(poseName, standardID string, score int) *Evaluation {
	return &Evaluation{
		ID:           uuid.New().String(),
		PoseName:     poseName,
		StandardID:   standardID,
		Source:       "attempt.mp4",
		OverallScore: score,
		Passed:       score >= 70,
		Data:         fmt.Appendf(nil, `{"overall_score":%d}`, score),
	}
}

func createStandardFor(t *testing.T, s *Store, poseName string) *Standard {
	t.Helper()
	st := newTestStandard(poseName)
	if err := s.Standards().Create(st); err != nil {
		t.Fatalf("failed to create standard: %v", err)
	}
	return st
}

func TestEvaluationRepository_CreateAndGet(t *testing.T) {
	s := testStore(t)
	st := createStandardFor(t, s, "tree-pose")

	e := newTestEvaluation("tree-pose", st.ID, 86)
	if err := s.Evaluations().Create(e); err != nil {
		t.Fatalf("failed to create evaluation: %v", err)
	}

	got, err := s.Evaluations().GetByID(e.ID)
	if err != nil {
		t.Fatalf("failed to get evaluation: %v", err)
	}

	if got.OverallScore != 86 {
		t.Errorf("expected score 86, got %d", got.OverallScore)
	}
	if !got.Passed {
		t.Error("expected passed to round-trip as true")
	}
	if got.StandardID != st.ID {
		t.Errorf("expected standard id %s, got %s", st.ID, got.StandardID)
	}
}

func TestEvaluationRepository_GetMissing(t *testing.T) {
	s := testStore(t)

	_, err := s.Evaluations().GetByID("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEvaluationRepository_ListFiltersByPose(t *testing.T) {
	s := testStore(t)
	tree := createStandardFor(t, s, "tree-pose")
	warrior := createStandardFor(t, s, "warrior-1")

	if err := s.Evaluations().Create(newTestEvaluation("tree-pose", tree.ID, 86)); err != nil {
		t.Fatalf("failed to create evaluation: %v", err)
	}
	if err := s.Evaluations().Create(newTestEvaluation("warrior-1", warrior.ID, 55)); err != nil {
		t.Fatalf("failed to create evaluation: %v", err)
	}

	all, err := s.Evaluations().List("")
	if err != nil {
		t.Fatalf("failed to list evaluations: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 evaluations, got %d", len(all))
	}

	filtered, err := s.Evaluations().List("warrior-1")
	if err != nil {
		t.Fatalf("failed to list evaluations: %v", err)
	}
	if len(filtered) != 1 || filtered[0].PoseName != "warrior-1" {
		t.Errorf("expected only the warrior-1 evaluation, got %d entries", len(filtered))
	}
}

func TestEvaluationRepository_DeleteCascadesFromStandard(t *testing.T) {
	s := testStore(t)
	st := createStandardFor(t, s, "tree-pose")

	e := newTestEvaluation("tree-pose", st.ID, 86)
	if err := s.Evaluations().Create(e); err != nil {
		t.Fatalf("failed to create evaluation: %v", err)
	}

	// Deleting the standard removes its evaluations via the foreign key
	if err := s.Standards().Delete(st.ID); err != nil {
		t.Fatalf("failed to delete standard: %v", err)
	}

	if _, err := s.Evaluations().GetByID(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected evaluation to be cascade-deleted, got %v", err)
	}
}

func TestEvaluationRepository_Delete(t *testing.T) {
	s := testStore(t)
	st := createStandardFor(t, s, "tree-pose")

	e := newTestEvaluation("tree-pose", st.ID, 40)
	if err := s.Evaluations().Create(e); err != nil {
		t.Fatalf("failed to create evaluation: %v", err)
	}

	if err := s.Evaluations().Delete(e.ID); err != nil {
		t.Fatalf("failed to delete evaluation: %v", err)
	}
	if err := s.Evaluations().Delete(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound when deleting twice, got %v", err)
	}
}
