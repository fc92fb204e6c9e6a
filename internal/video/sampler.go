// Package video provides frame sampling from video files using GoCV (OpenCV).
package video

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// DefaultStride samples every 5th frame, which at 30fps keeps enough
// temporal resolution for alignment while bounding sequence length.
const DefaultStride = 5

// ErrNotOpen is returned when reading from a sampler that is not open.
var ErrNotOpen = errors.New("sampler is not open")

// Sampler reads frames from a video file at a fixed stride.
type Sampler struct {
	path    string
	stride  int
	mu      sync.Mutex
	capture *gocv.VideoCapture
	open    bool
	next    int
}

// NewSampler creates a Sampler for the given video file, returning every
// stride-th frame. A stride below 1 falls back to DefaultStride.
func NewSampler(path string, stride int) *Sampler {
	if stride < 1 {
		stride = DefaultStride
	}
	return &Sampler{
		path:   path,
		stride: stride,
	}
}

// Open opens the underlying video file.
func (s *Sampler) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(s.path)
	if err != nil {
		return fmt.Errorf("open video %s: %w", s.path, err)
	}

	s.capture = capture
	s.open = true
	s.next = 0

	return nil
}

// Close closes the video file and releases resources.
func (s *Sampler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.capture == nil {
		s.open = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.open = false

	return err
}

// FPS returns the frame rate reported by the video container.
func (s *Sampler) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.capture == nil {
		return 0
	}
	return s.capture.Get(gocv.VideoCaptureFPS)
}

// ReadFrame reads the next sampled frame and returns it with its index in
// the source video. Returns io.EOF when the video is exhausted.
// The caller is responsible for closing the returned Mat.
func (s *Sampler) ReadFrame() (*gocv.Mat, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.capture == nil {
		return nil, 0, ErrNotOpen
	}

	// Skip stride-1 frames between samples
	for s.next%s.stride != 0 {
		mat := gocv.NewMat()
		ok := s.capture.Read(&mat)
		mat.Close()
		if !ok {
			return nil, 0, io.EOF
		}
		s.next++
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, 0, io.EOF
	}

	if mat.Empty() {
		mat.Close()
		return nil, 0, io.EOF
	}

	index := s.next
	s.next++

	return &mat, index, nil
}
