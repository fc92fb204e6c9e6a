package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, returning queued
// landmark sets in order and repeating the last one when exhausted.
type MockDetector struct {
	queue []*[NumLandmarks]Landmark
	pos   int
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetLandmarks sets a single landmark set that will be returned by every Detect call.
func (m *MockDetector) SetLandmarks(landmarks *[NumLandmarks]Landmark) {
	m.queue = []*[NumLandmarks]Landmark{landmarks}
	m.pos = 0
}

// QueueLandmarks appends a landmark set to the detection queue.
// A nil entry simulates a frame with no detected body.
func (m *MockDetector) QueueLandmarks(landmarks *[NumLandmarks]Landmark) {
	m.queue = append(m.queue, landmarks)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured landmarks or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*[NumLandmarks]Landmark, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) == 0 {
		return nil, nil
	}
	result := m.queue[m.pos]
	if m.pos < len(m.queue)-1 {
		m.pos++
	}
	return result, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}
