package eval

import (
	"fmt"

	"github.com/ayusman/asana/internal/pose"
)

// Evaluator runs the testing path: align a candidate angle sequence against
// a golden standard and score the result. An Evaluator holds no mutable
// state and is safe for concurrent use; each evaluation works on its own
// sequences and a read-only golden standard.
type Evaluator struct {
	align  AlignConfig
	policy ScorePolicy
}

// NewEvaluator creates an Evaluator with the given alignment and scoring
// configuration.
func NewEvaluator(align AlignConfig, policy ScorePolicy) *Evaluator {
	return &Evaluator{align: align, policy: policy}
}

// Evaluate scores a candidate sequence against the golden standard.
// Unusable candidate frames are dropped before alignment; every other
// failure is fatal and yields no result. The golden standard is never
// modified.
func (e *Evaluator) Evaluate(golden *GoldenStandard, cand []AngleVector, def *pose.PoseDefinition) (*EvaluationResult, error) {
	if golden.PoseName != def.Name {
		return nil, fmt.Errorf("%w: standard is for %q, evaluating %q", ErrPoseMismatch, golden.PoseName, def.Name)
	}

	usable := make([]AngleVector, 0, len(cand))
	for _, frame := range cand {
		if frame.Usable() {
			usable = append(usable, frame)
		}
	}

	alignment, err := Align(golden.Sequence, usable, def, e.align)
	if err != nil {
		return nil, err
	}

	result := Score(alignment.Path, golden.Sequence, usable, def, e.policy)
	return result, nil
}
