package eval

import (
	"fmt"
	"math"
	"sort"

	"github.com/ayusman/asana/internal/pose"
)

// ScorePolicy controls how deviations map to scores and when feedback is
// emitted. The score curve is a policy, not a constant: 100 up to the
// tolerance, then linear down to 0 at FalloffMultiple times the tolerance.
type ScorePolicy struct {
	// PassThreshold is the minimum overall (and per-angle) score considered
	// acceptable. Angles scoring below it get a feedback entry.
	PassThreshold float64

	// FalloffMultiple is the multiple of the tolerance at which the
	// per-pair score reaches 0. Must be greater than 1.
	FalloffMultiple float64
}

// DefaultScorePolicy returns the default scoring policy.
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		PassThreshold:   70,
		FalloffMultiple: 2.0,
	}
}

// AngleBreakdown is the per-angle portion of an evaluation result.
// Measured is false when the angle was never present in any aligned pair;
// such angles carry no score and do not affect the overall score.
type AngleBreakdown struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	Measured      bool    `json:"measured"`
	MeanDeviation float64 `json:"mean_deviation"`
	Tolerance     float64 `json:"tolerance"`
}

// Feedback is one severity-ranked correction. Severity 1 is the worst angle.
type Feedback struct {
	Angle    string `json:"angle"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
}

// EvaluationResult is the outcome of scoring a candidate performance
// against a golden standard.
type EvaluationResult struct {
	PoseName     string           `json:"pose_name"`
	OverallScore int              `json:"overall_score"`
	Grade        string           `json:"grade"`
	Passed       bool             `json:"passed"`
	AlignedPairs int              `json:"aligned_pairs"`
	Angles       []AngleBreakdown `json:"angles"`
	Feedback     []Feedback       `json:"feedback"`
}

// Score converts an alignment path into per-angle scores, an overall score
// and ranked feedback. For every aligned pair, each angle measured on both
// sides is scored by its absolute deviation; angles missing from a pair are
// excluded from that pair's average rather than scored as zero.
func Score(path []PathPair, ref, cand []AngleVector, def *pose.PoseDefinition, policy ScorePolicy) *EvaluationResult {
	type accumulator struct {
		scoreSum  float64
		signedSum float64
		pairs     int
	}
	acc := make(map[string]*accumulator, len(def.Angles))
	for _, a := range def.Angles {
		acc[a.Name] = &accumulator{}
	}

	for _, pair := range path {
		r := ref[pair.Ref]
		c := cand[pair.Cand]

		for _, a := range def.Angles {
			rv, okR := r[a.Name]
			cv, okC := c[a.Name]
			if !okR || !okC {
				continue
			}

			deviation := math.Abs(rv - cv)
			entry := acc[a.Name]
			entry.scoreSum += pairScore(deviation, a.Tolerance, policy.FalloffMultiple)
			entry.signedSum += cv - rv
			entry.pairs++
		}
	}

	breakdown := make([]AngleBreakdown, 0, len(def.Angles))
	measuredSum := 0.0
	measuredCount := 0

	for _, a := range def.Angles {
		entry := acc[a.Name]
		b := AngleBreakdown{
			Name:      a.Name,
			Tolerance: a.Tolerance,
		}
		if entry.pairs > 0 {
			b.Measured = true
			b.Score = entry.scoreSum / float64(entry.pairs)
			b.MeanDeviation = entry.signedSum / float64(entry.pairs)
			measuredSum += b.Score
			measuredCount++
		}
		breakdown = append(breakdown, b)
	}

	overall := 0
	if measuredCount > 0 {
		overall = int(math.Round(measuredSum / float64(measuredCount)))
	}
	if overall < 0 {
		overall = 0
	} else if overall > 100 {
		overall = 100
	}

	return &EvaluationResult{
		PoseName:     def.Name,
		OverallScore: overall,
		Grade:        grade(overall),
		Passed:       float64(overall) >= policy.PassThreshold,
		AlignedPairs: len(path),
		Angles:       breakdown,
		Feedback:     buildFeedback(breakdown, def, policy),
	}
}

// pairScore maps an absolute deviation to a 0-100 score: full marks up to
// the tolerance, then a continuous linear drop reaching 0 at
// falloff x tolerance.
func pairScore(deviation, tolerance, falloff float64) float64 {
	if deviation <= tolerance {
		return 100
	}

	span := tolerance * (falloff - 1)
	if span <= 0 {
		return 0
	}

	score := 100 * (1 - (deviation-tolerance)/span)
	if score < 0 {
		return 0
	}
	return score
}

// buildFeedback emits one entry per measured angle scoring below the pass
// threshold, phrased with the angle's direction labels and ordered worst
// first.
func buildFeedback(breakdown []AngleBreakdown, def *pose.PoseDefinition, policy ScorePolicy) []Feedback {
	var failing []AngleBreakdown
	for _, b := range breakdown {
		if b.Measured && b.Score < policy.PassThreshold {
			failing = append(failing, b)
		}
	}

	sort.Slice(failing, func(i, j int) bool {
		if failing[i].Score != failing[j].Score {
			return failing[i].Score < failing[j].Score
		}
		return failing[i].Name < failing[j].Name
	})

	feedback := make([]Feedback, 0, len(failing))
	for rank, b := range failing {
		a := def.AngleByName(b.Name)
		if a == nil {
			continue
		}

		label := a.LowLabel
		direction := "below"
		if b.MeanDeviation >= 0 {
			label = a.HighLabel
			direction = "above"
		}

		feedback = append(feedback, Feedback{
			Angle:    b.Name,
			Message:  fmt.Sprintf("%s: averaging %.1f° %s the reference", label, math.Abs(b.MeanDeviation), direction),
			Severity: rank + 1,
		})
	}

	return feedback
}

// grade maps an overall score to a letter grade for display.
func grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
