package video

import (
	"errors"
	"testing"
)

func TestNewSampler_StrideFallback(t *testing.T) {
	s := NewSampler("clip.mp4", 0)
	if s.stride != DefaultStride {
		t.Errorf("expected default stride %d, got %d", DefaultStride, s.stride)
	}

	s = NewSampler("clip.mp4", 2)
	if s.stride != 2 {
		t.Errorf("expected stride 2, got %d", s.stride)
	}
}

func TestSampler_ReadBeforeOpen(t *testing.T) {
	s := NewSampler("clip.mp4", 1)

	_, _, err := s.ReadFrame()
	if !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
}

func TestSampler_FPSBeforeOpen(t *testing.T) {
	s := NewSampler("clip.mp4", 1)
	if fps := s.FPS(); fps != 0 {
		t.Errorf("expected 0 fps before open, got %f", fps)
	}
}

func TestSampler_CloseWithoutOpen(t *testing.T) {
	s := NewSampler("clip.mp4", 1)
	if err := s.Close(); err != nil {
		t.Errorf("expected closing an unopened sampler to be a no-op, got %v", err)
	}
}
