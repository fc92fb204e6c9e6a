package eval

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Fatal conditions never come with
// a partial result; callers distinguish them with errors.Is / errors.As.
var (
	// ErrFrameUnusable marks a frame in which no angle could be measured.
	// Recoverable: callers drop the frame during sequence assembly.
	ErrFrameUnusable = errors.New("frame unusable: no measurable angles")

	// ErrInsufficientTrainingData means too few usable frames survived
	// filtering to build a trustworthy golden standard.
	ErrInsufficientTrainingData = errors.New("insufficient training data")

	// ErrAlignmentInputTooShort means one of the sequences to align is empty.
	ErrAlignmentInputTooShort = errors.New("alignment input too short")

	// ErrAlignmentDegenerate means the two sequences share essentially no
	// comparable frames, e.g. the wrong pose was submitted.
	ErrAlignmentDegenerate = errors.New("sequences are not comparable")

	// ErrBandTooNarrow means the configured alignment band cannot reach the
	// grid endpoints. This is a configuration error, not a data error.
	ErrBandTooNarrow = errors.New("alignment band narrower than sequence length difference")

	// ErrPoseMismatch means the golden standard was trained for a different
	// pose than the one being evaluated.
	ErrPoseMismatch = errors.New("golden standard is for a different pose")
)

// AngleUnreliableError reports an angle that was missing in too large a
// fraction of training frames for the golden standard to be trusted.
type AngleUnreliableError struct {
	Angle   string
	Missing int
	Total   int
}

func (e *AngleUnreliableError) Error() string {
	return fmt.Sprintf("angle %q unreliable: missing in %d of %d usable frames", e.Angle, e.Missing, e.Total)
}
