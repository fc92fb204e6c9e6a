package eval

import (
	"math"
	"strings"
	"testing"

	"github.com/ayusman/asana/internal/pose"
)

// scoreSinglePair scores one ref/cand frame pair against the one-angle
// test pose.
func scoreSinglePair(t *testing.T, refValue, candValue float64) *EvaluationResult {
	t.Helper()
	path := []PathPair{{Ref: 0, Cand: 0}}
	ref := []AngleVector{{"bend": refValue}}
	cand := []AngleVector{{"bend": candValue}}
	return Score(path, ref, cand, singleAngleDef(), DefaultScorePolicy())
}

func TestScore_WithinTolerance(t *testing.T) {
	// Tolerance is 10: a deviation of exactly 10 still scores full marks
	result := scoreSinglePair(t, 100, 110)

	if result.OverallScore != 100 {
		t.Errorf("expected score 100 at the tolerance boundary, got %d", result.OverallScore)
	}
	if !result.Passed {
		t.Error("expected a perfect score to pass")
	}
	if result.Grade != "A" {
		t.Errorf("expected grade A, got %q", result.Grade)
	}
	if len(result.Feedback) != 0 {
		t.Errorf("expected no feedback, got %d entries", len(result.Feedback))
	}
}

func TestScore_LinearFalloff(t *testing.T) {
	// Halfway between tolerance and 2x tolerance scores 50
	result := scoreSinglePair(t, 100, 115)
	if result.OverallScore != 50 {
		t.Errorf("expected score 50 at 1.5x tolerance, got %d", result.OverallScore)
	}

	// At 2x tolerance the score bottoms out
	result = scoreSinglePair(t, 100, 120)
	if result.OverallScore != 0 {
		t.Errorf("expected score 0 at 2x tolerance, got %d", result.OverallScore)
	}

	// Beyond 2x tolerance it stays at 0
	result = scoreSinglePair(t, 100, 160)
	if result.OverallScore != 0 {
		t.Errorf("expected score 0 beyond the falloff, got %d", result.OverallScore)
	}
}

func TestScore_UnmeasuredAngleIsNeutral(t *testing.T) {
	def := &pose.PoseDefinition{
		Name: "two-angles",
		Angles: []pose.AngleDefinition{
			{Name: "present", A: 0, Vertex: 1, C: 2, Tolerance: 10, VisibilityThreshold: 0.3},
			{Name: "absent", A: 3, Vertex: 4, C: 5, Tolerance: 10, VisibilityThreshold: 0.3},
		},
	}

	path := []PathPair{{Ref: 0, Cand: 0}}
	ref := []AngleVector{{"present": 90, "absent": 45}}
	cand := []AngleVector{{"present": 90}}

	result := Score(path, ref, cand, def, DefaultScorePolicy())

	// The absent angle must not drag the overall score down
	if result.OverallScore != 100 {
		t.Errorf("expected score 100, got %d", result.OverallScore)
	}

	var absent *AngleBreakdown
	for i := range result.Angles {
		if result.Angles[i].Name == "absent" {
			absent = &result.Angles[i]
		}
	}
	if absent == nil {
		t.Fatal("expected a breakdown entry for the absent angle")
	}
	if absent.Measured {
		t.Error("never-measured angle should be reported as unmeasured")
	}
}

func TestScore_MeanDeviationKeepsSign(t *testing.T) {
	result := scoreSinglePair(t, 100, 85)

	if math.Abs(result.Angles[0].MeanDeviation+15) > 1e-9 {
		t.Errorf("expected mean deviation -15, got %f", result.Angles[0].MeanDeviation)
	}
}

func TestScore_FeedbackDirectionLabels(t *testing.T) {
	// Candidate below the reference uses the low label
	result := scoreSinglePair(t, 100, 84)
	if len(result.Feedback) != 1 {
		t.Fatalf("expected 1 feedback entry, got %d", len(result.Feedback))
	}
	if !strings.Contains(result.Feedback[0].Message, "too closed") {
		t.Errorf("expected low label in message, got %q", result.Feedback[0].Message)
	}
	if !strings.Contains(result.Feedback[0].Message, "below") {
		t.Errorf("expected direction below in message, got %q", result.Feedback[0].Message)
	}

	// Candidate above the reference uses the high label
	result = scoreSinglePair(t, 100, 116)
	if len(result.Feedback) != 1 {
		t.Fatalf("expected 1 feedback entry, got %d", len(result.Feedback))
	}
	if !strings.Contains(result.Feedback[0].Message, "too open") {
		t.Errorf("expected high label in message, got %q", result.Feedback[0].Message)
	}
	if !strings.Contains(result.Feedback[0].Message, "above") {
		t.Errorf("expected direction above in message, got %q", result.Feedback[0].Message)
	}
}

func TestScore_FeedbackRankedWorstFirst(t *testing.T) {
	def := &pose.PoseDefinition{
		Name: "two-angles",
		Angles: []pose.AngleDefinition{
			{Name: "bad", A: 0, Vertex: 1, C: 2, Tolerance: 10, VisibilityThreshold: 0.3, HighLabel: "bad high", LowLabel: "bad low"},
			{Name: "worse", A: 3, Vertex: 4, C: 5, Tolerance: 10, VisibilityThreshold: 0.3, HighLabel: "worse high", LowLabel: "worse low"},
		},
	}

	path := []PathPair{{Ref: 0, Cand: 0}}
	ref := []AngleVector{{"bad": 100, "worse": 100}}
	cand := []AngleVector{{"bad": 116, "worse": 119}}

	result := Score(path, ref, cand, def, DefaultScorePolicy())

	if len(result.Feedback) != 2 {
		t.Fatalf("expected 2 feedback entries, got %d", len(result.Feedback))
	}
	if result.Feedback[0].Angle != "worse" || result.Feedback[0].Severity != 1 {
		t.Errorf("expected worse angle ranked first with severity 1, got %+v", result.Feedback[0])
	}
	if result.Feedback[1].Angle != "bad" || result.Feedback[1].Severity != 2 {
		t.Errorf("expected bad angle ranked second with severity 2, got %+v", result.Feedback[1])
	}
}

func TestScore_MultiPairAveraging(t *testing.T) {
	// Two pairs: one perfect, one at 1.5x tolerance (50). Average is 75.
	path := []PathPair{{Ref: 0, Cand: 0}, {Ref: 1, Cand: 1}}
	ref := []AngleVector{{"bend": 100}, {"bend": 100}}
	cand := []AngleVector{{"bend": 100}, {"bend": 115}}

	result := Score(path, ref, cand, singleAngleDef(), DefaultScorePolicy())

	if result.OverallScore != 75 {
		t.Errorf("expected score 75, got %d", result.OverallScore)
	}
	if result.AlignedPairs != 2 {
		t.Errorf("expected 2 aligned pairs, got %d", result.AlignedPairs)
	}
}

func TestGrade_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "A"}, {90, "A"}, {89, "B"}, {80, "B"},
		{79, "C"}, {70, "C"}, {69, "D"}, {60, "D"}, {59, "F"}, {0, "F"},
	}

	for _, c := range cases {
		if got := grade(c.score); got != c.want {
			t.Errorf("grade(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}
