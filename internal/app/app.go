// Package app orchestrates the training and testing paths: video sampling,
// landmark detection, angle extraction, golden-standard construction and
// candidate evaluation.
package app

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/eval"
	"github.com/ayusman/asana/internal/pose"
	"github.com/ayusman/asana/internal/store"
	"github.com/ayusman/asana/internal/video"
)

// Event is a progress notification emitted while processing a video.
type Event struct {
	Stage   string `json:"stage"`
	Frame   int    `json:"frame"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Registry *pose.Registry
	Detector detector.Detector

	Build  eval.BuildConfig
	Align  eval.AlignConfig
	Policy eval.ScorePolicy

	// Stride is the video sampling stride; 0 uses video.DefaultStride.
	Stride int

	// Progress receives per-stage events when set.
	Progress func(Event)
}

// App wires the engine components together for the training and testing paths.
type App struct {
	config    Config
	builder   *eval.Builder
	evaluator *eval.Evaluator
}

// New creates a new App instance, filling unset engine config fields with
// defaults. Fields the caller did set are kept as given; a zero Band means
// unbounded alignment and is left alone.
func New(config Config) *App {
	buildDefaults := eval.DefaultBuildConfig()
	if config.Build.MinFrames == 0 {
		config.Build.MinFrames = buildDefaults.MinFrames
	}
	if config.Build.MaxMissingFraction == 0 {
		config.Build.MaxMissingFraction = buildDefaults.MaxMissingFraction
	}

	alignDefaults := eval.DefaultAlignConfig()
	if config.Align.SentinelCost == 0 {
		config.Align.SentinelCost = alignDefaults.SentinelCost
	}
	if config.Align.DegenerateCost == 0 {
		config.Align.DegenerateCost = alignDefaults.DegenerateCost
	}

	policyDefaults := eval.DefaultScorePolicy()
	if config.Policy.PassThreshold == 0 {
		config.Policy.PassThreshold = policyDefaults.PassThreshold
	}
	if config.Policy.FalloffMultiple == 0 {
		config.Policy.FalloffMultiple = policyDefaults.FalloffMultiple
	}

	return &App{
		config:    config,
		builder:   eval.NewBuilder(config.Build),
		evaluator: eval.NewEvaluator(config.Align, config.Policy),
	}
}

// Registry returns the pose definition registry.
func (a *App) Registry() *pose.Registry {
	return a.config.Registry
}

// Train builds a golden standard for the pose from a landmark frame
// sequence and persists it. Returns the stored record and the standard.
func (a *App) Train(poseName, source string, frames []detector.Frame) (*store.Standard, *eval.GoldenStandard, error) {
	def, err := a.config.Registry.Lookup(poseName)
	if err != nil {
		return nil, nil, err
	}

	a.emit(Event{Stage: "extract", Total: len(frames)})
	vectors, dropped := eval.ExtractSequence(frames, def)
	if dropped > 0 {
		log.Printf("Training %s: dropped %d unusable frames of %d", poseName, dropped, len(frames))
	}

	a.emit(Event{Stage: "build", Frame: len(frames) - dropped, Total: len(frames)})
	golden, err := a.builder.Build(def, vectors, source)
	if err != nil {
		return nil, nil, err
	}

	data, err := json.Marshal(golden)
	if err != nil {
		return nil, nil, fmt.Errorf("serialize golden standard: %w", err)
	}

	record := &store.Standard{
		ID:          uuid.New().String(),
		PoseName:    golden.PoseName,
		Source:      source,
		TotalFrames: golden.TotalFrames,
		Data:        data,
	}

	if a.config.Store != nil {
		if err := a.config.Store.Standards().Create(record); err != nil {
			return nil, nil, fmt.Errorf("persist golden standard: %w", err)
		}
	}

	a.emit(Event{Stage: "complete", Frame: golden.TotalFrames, Total: len(frames),
		Message: fmt.Sprintf("golden standard for %s", poseName)})
	log.Printf("Built golden standard for %s: %d frames, %d angles", poseName, golden.TotalFrames, len(golden.Angles))
	return record, golden, nil
}

// Evaluate scores a candidate landmark frame sequence against a stored
// golden standard for the pose. An empty standardID selects the most
// recently trained standard. The result is persisted alongside the record.
func (a *App) Evaluate(poseName, standardID, source string, frames []detector.Frame) (*eval.EvaluationResult, *store.Evaluation, error) {
	def, err := a.config.Registry.Lookup(poseName)
	if err != nil {
		return nil, nil, err
	}

	record, golden, err := a.loadStandard(poseName, standardID)
	if err != nil {
		return nil, nil, err
	}

	a.emit(Event{Stage: "extract", Total: len(frames)})
	vectors, dropped := eval.ExtractSequence(frames, def)
	if dropped > 0 {
		log.Printf("Evaluating %s: dropped %d unusable frames of %d", poseName, dropped, len(frames))
	}

	a.emit(Event{Stage: "align", Frame: len(frames) - dropped, Total: golden.TotalFrames})
	result, err := a.evaluator.Evaluate(golden, vectors, def)
	if err != nil {
		return nil, nil, err
	}
	a.emit(Event{Stage: "score", Message: fmt.Sprintf("score %d (%s)", result.OverallScore, result.Grade)})

	data, err := json.Marshal(result)
	if err != nil {
		return nil, nil, fmt.Errorf("serialize evaluation: %w", err)
	}

	evaluation := &store.Evaluation{
		ID:           uuid.New().String(),
		PoseName:     poseName,
		StandardID:   record.ID,
		Source:       source,
		OverallScore: result.OverallScore,
		Passed:       result.Passed,
		Data:         data,
	}

	if a.config.Store != nil {
		if err := a.config.Store.Evaluations().Create(evaluation); err != nil {
			return nil, nil, fmt.Errorf("persist evaluation: %w", err)
		}
	}

	log.Printf("Evaluated %s against standard %s: score %d (%s)", poseName, record.ID, result.OverallScore, result.Grade)
	return result, evaluation, nil
}

// TrainVideo runs the full training path on a video file.
func (a *App) TrainVideo(poseName, path string) (*store.Standard, *eval.GoldenStandard, error) {
	frames, err := a.sampleVideo(path, "training")
	if err != nil {
		return nil, nil, err
	}
	return a.Train(poseName, filepath.Base(path), frames)
}

// EvaluateVideo runs the full testing path on a video file.
func (a *App) EvaluateVideo(poseName, standardID, path string) (*eval.EvaluationResult, *store.Evaluation, error) {
	frames, err := a.sampleVideo(path, "evaluating")
	if err != nil {
		return nil, nil, err
	}
	return a.Evaluate(poseName, standardID, filepath.Base(path), frames)
}

// loadStandard fetches a stored golden standard by ID, or the latest one
// for the pose, and deserializes it.
func (a *App) loadStandard(poseName, standardID string) (*store.Standard, *eval.GoldenStandard, error) {
	if a.config.Store == nil {
		return nil, nil, fmt.Errorf("no store configured")
	}

	var record *store.Standard
	var err error
	if standardID != "" {
		record, err = a.config.Store.Standards().GetByID(standardID)
	} else {
		record, err = a.config.Store.Standards().LatestByPose(poseName)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load golden standard for %s: %w", poseName, err)
	}

	golden := &eval.GoldenStandard{}
	if err := json.Unmarshal(record.Data, golden); err != nil {
		return nil, nil, fmt.Errorf("deserialize golden standard %s: %w", record.ID, err)
	}

	return record, golden, nil
}

// sampleVideo reads frames from a video file at the configured stride and
// runs landmark detection on each. Frames without a detected body are
// skipped; frame indices keep their position in the source video.
func (a *App) sampleVideo(path, stage string) ([]detector.Frame, error) {
	if a.config.Detector == nil {
		return nil, fmt.Errorf("no detector configured")
	}

	sampler := video.NewSampler(path, a.config.Stride)
	if err := sampler.Open(); err != nil {
		return nil, err
	}
	defer sampler.Close()

	fps := sampler.FPS()
	var frames []detector.Frame

	for {
		mat, index, err := sampler.ReadFrame()
		if err != nil {
			break
		}

		landmarks, err := a.config.Detector.Detect(mat)
		mat.Close()
		if err != nil {
			return nil, fmt.Errorf("detect landmarks in frame %d: %w", index, err)
		}

		if landmarks == nil {
			continue
		}

		frame := detector.Frame{
			Index:     index,
			Landmarks: *landmarks,
		}
		if fps > 0 {
			frame.TimestampMs = int64(float64(index) / fps * 1000)
		}
		frames = append(frames, frame)

		a.emit(Event{Stage: stage, Frame: index})
	}

	log.Printf("Sampled %d frames with a detected body from %s", len(frames), filepath.Base(path))
	return frames, nil
}

func (a *App) emit(event Event) {
	if a.config.Progress != nil {
		a.config.Progress(event)
	}
}
