package eval

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/asana/internal/pose"
)

func constantVectors(count int, angles AngleVector) []AngleVector {
	vectors := make([]AngleVector, count)
	for i := range vectors {
		vectors[i] = angles.Clone()
	}
	return vectors
}

func TestBuilder_TooFewFrames(t *testing.T) {
	builder := NewBuilder(DefaultBuildConfig())

	frames := constantVectors(3, AngleVector{"bend": 170})
	_, err := builder.Build(singleAngleDef(), frames, "clip.mp4")

	if !errors.Is(err, ErrInsufficientTrainingData) {
		t.Fatalf("expected ErrInsufficientTrainingData, got %v", err)
	}
}

func TestBuilder_UnusableFramesDoNotCount(t *testing.T) {
	builder := NewBuilder(BuildConfig{MinFrames: 5, MaxMissingFraction: 0.5})

	// 4 usable frames padded with empty vectors still fails the minimum
	frames := constantVectors(4, AngleVector{"bend": 170})
	frames = append(frames, AngleVector{}, AngleVector{}, AngleVector{})

	_, err := builder.Build(singleAngleDef(), frames, "")
	if !errors.Is(err, ErrInsufficientTrainingData) {
		t.Fatalf("expected ErrInsufficientTrainingData, got %v", err)
	}
}

func TestBuilder_UnreliableAngle(t *testing.T) {
	def := &pose.PoseDefinition{
		Name: "two-angles",
		Angles: []pose.AngleDefinition{
			{Name: "steady", A: 0, Vertex: 1, C: 2, Tolerance: 10, VisibilityThreshold: 0.3},
			{Name: "flaky", A: 3, Vertex: 4, C: 5, Tolerance: 10, VisibilityThreshold: 0.3},
		},
	}

	// The flaky angle is measured in only 3 of 10 frames
	frames := make([]AngleVector, 10)
	for i := range frames {
		frames[i] = AngleVector{"steady": 90}
		if i < 3 {
			frames[i]["flaky"] = 45
		}
	}

	builder := NewBuilder(DefaultBuildConfig())
	_, err := builder.Build(def, frames, "")

	var unreliable *AngleUnreliableError
	if !errors.As(err, &unreliable) {
		t.Fatalf("expected AngleUnreliableError, got %v", err)
	}
	if unreliable.Angle != "flaky" {
		t.Errorf("expected angle %q, got %q", "flaky", unreliable.Angle)
	}
	if unreliable.Missing != 7 || unreliable.Total != 10 {
		t.Errorf("expected 7 of 10 missing, got %d of %d", unreliable.Missing, unreliable.Total)
	}
}

func TestBuilder_Aggregates(t *testing.T) {
	builder := NewBuilder(DefaultBuildConfig())

	frames := make([]AngleVector, 10)
	for i := range frames {
		// Alternate 160 and 180 so the mean is 170 with spread
		value := 160.0
		if i%2 == 1 {
			value = 180.0
		}
		frames[i] = AngleVector{"bend": value}
	}

	golden, err := builder.Build(singleAngleDef(), frames, "expert.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if golden.PoseName != "test-pose" {
		t.Errorf("expected pose name %q, got %q", "test-pose", golden.PoseName)
	}
	if golden.Source != "expert.mp4" {
		t.Errorf("expected source %q, got %q", "expert.mp4", golden.Source)
	}
	if golden.TotalFrames != 10 {
		t.Errorf("expected 10 total frames, got %d", golden.TotalFrames)
	}
	if len(golden.Sequence) != 10 {
		t.Errorf("expected 10 sequence frames, got %d", len(golden.Sequence))
	}

	stat := golden.StatByName("bend")
	if stat == nil {
		t.Fatal("expected aggregate for bend")
	}
	if math.Abs(stat.Mean-170) > 1e-9 {
		t.Errorf("expected mean 170, got %f", stat.Mean)
	}
	if stat.StdDev <= 0 {
		t.Errorf("expected positive std dev, got %f", stat.StdDev)
	}
	if stat.Count != 10 {
		t.Errorf("expected count 10, got %d", stat.Count)
	}
	if stat.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", stat.Confidence)
	}
	if stat.Tolerance != 10 {
		t.Errorf("expected tolerance 10, got %f", stat.Tolerance)
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	builder := NewBuilder(DefaultBuildConfig())
	frames := constantVectors(12, AngleVector{"bend": 170})

	first, err := builder.Build(singleAngleDef(), frames, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := builder.Build(singleAngleDef(), frames, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.TotalFrames != second.TotalFrames {
		t.Error("total frames differ between identical builds")
	}
	if first.Angles[0] != second.Angles[0] {
		t.Errorf("aggregates differ between identical builds: %+v vs %+v", first.Angles[0], second.Angles[0])
	}
}
