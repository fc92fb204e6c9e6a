// Package detector provides body pose detection interfaces and types for pose evaluation.
package detector

import "strconv"

// Body landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
	NumLandmarks  = 33
)

// Landmark represents a detected body keypoint in normalized image
// coordinates with a detection confidence.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Frame is a single sampled video frame with its detected landmarks.
// Index is strictly increasing within a sequence.
type Frame struct {
	Index       int                    `json:"index"`
	TimestampMs int64                  `json:"timestamp_ms"`
	Landmarks   [NumLandmarks]Landmark `json:"landmarks"`
}

// landmarkNames maps the indices used by the pose registry to readable
// names for logs and error messages.
var landmarkNames = map[int]string{
	Nose:          "nose",
	LeftShoulder:  "left_shoulder",
	RightShoulder: "right_shoulder",
	LeftElbow:     "left_elbow",
	RightElbow:    "right_elbow",
	LeftWrist:     "left_wrist",
	RightWrist:    "right_wrist",
	LeftHip:       "left_hip",
	RightHip:      "right_hip",
	LeftKnee:      "left_knee",
	RightKnee:     "right_knee",
	LeftAnkle:     "left_ankle",
	RightAnkle:    "right_ankle",
}

// LandmarkName returns a readable name for a landmark index, or "landmark_N"
// for indices outside the named set.
func LandmarkName(index int) string {
	if name, ok := landmarkNames[index]; ok {
		return name
	}
	return "landmark_" + strconv.Itoa(index)
}
