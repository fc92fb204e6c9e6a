package eval

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/asana/internal/pose"
)

// AngleStat is the per-angle aggregate stored in a golden standard.
// Confidence is the fraction of usable frames in which the angle was
// measured.
type AngleStat struct {
	Name       string  `json:"name"`
	Tolerance  float64 `json:"tolerance"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// GoldenStandard is the reference template built from an expert performance.
// It is immutable after creation: the testing path only ever reads it.
// The field set is the stored contract; changing it breaks every persisted
// golden standard.
type GoldenStandard struct {
	PoseName    string        `json:"pose_name"`
	Source      string        `json:"video_source,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	TotalFrames int           `json:"total_frames"`
	Angles      []AngleStat   `json:"angles"`
	Sequence    []AngleVector `json:"angle_sequence"`
}

// StatByName returns the aggregate for the named angle, or nil.
func (g *GoldenStandard) StatByName(name string) *AngleStat {
	for i := range g.Angles {
		if g.Angles[i].Name == name {
			return &g.Angles[i]
		}
	}
	return nil
}

// BuildConfig controls golden-standard construction thresholds.
type BuildConfig struct {
	// MinFrames is the minimum number of usable frames required.
	MinFrames int

	// MaxMissingFraction is the largest fraction of usable frames an angle
	// may be missing from before the standard is rejected as unreliable.
	MaxMissingFraction float64
}

// DefaultBuildConfig returns the default construction thresholds.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		MinFrames:          10,
		MaxMissingFraction: 0.5,
	}
}

// Builder turns training angle sequences into golden standards.
type Builder struct {
	config BuildConfig
}

// NewBuilder creates a Builder with the given configuration.
func NewBuilder(config BuildConfig) *Builder {
	return &Builder{config: config}
}

// Build aggregates a training sequence into a golden standard.
// Unusable frames (empty vectors) are dropped first; the surviving sequence
// must satisfy the configured minimum frame count, and every angle of the
// pose must be measured in enough frames to be trusted. Build is pure:
// the same input always produces the same standard (modulo CreatedAt).
func (b *Builder) Build(def *pose.PoseDefinition, frames []AngleVector, source string) (*GoldenStandard, error) {
	usable := make([]AngleVector, 0, len(frames))
	for _, frame := range frames {
		if frame.Usable() {
			usable = append(usable, frame.Clone())
		}
	}

	if len(usable) < b.config.MinFrames {
		return nil, fmt.Errorf("%w: %d usable frames of %d recorded, need at least %d",
			ErrInsufficientTrainingData, len(usable), len(frames), b.config.MinFrames)
	}

	stats := make([]AngleStat, 0, len(def.Angles))
	for _, a := range def.Angles {
		var values []float64
		for _, frame := range usable {
			if value, ok := frame[a.Name]; ok {
				values = append(values, value)
			}
		}

		missing := len(usable) - len(values)
		if float64(missing) > b.config.MaxMissingFraction*float64(len(usable)) {
			return nil, &AngleUnreliableError{
				Angle:   a.Name,
				Missing: missing,
				Total:   len(usable),
			}
		}

		stdDev := 0.0
		if len(values) > 1 {
			stdDev = stat.StdDev(values, nil)
		}

		stats = append(stats, AngleStat{
			Name:       a.Name,
			Tolerance:  a.Tolerance,
			Mean:       stat.Mean(values, nil),
			StdDev:     stdDev,
			Count:      len(values),
			Confidence: float64(len(values)) / float64(len(usable)),
		})
	}

	return &GoldenStandard{
		PoseName:    def.Name,
		Source:      source,
		CreatedAt:   time.Now().UTC(),
		TotalFrames: len(usable),
		Angles:      stats,
		Sequence:    usable,
	}, nil
}
