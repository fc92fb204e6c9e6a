// Package testdata provides synthetic landmark fixtures for tests.
package testdata

import (
	"math"

	"github.com/ayusman/asana/internal/detector"
)

// bodyPoints holds a plausible upright body in normalized image
// coordinates. The left ankle is computed from the requested knee angle;
// everything else is fixed.
var bodyPoints = map[int][2]float64{
	detector.Nose:          {0.50, 0.10},
	detector.LeftShoulder:  {0.55, 0.25},
	detector.RightShoulder: {0.45, 0.25},
	detector.LeftElbow:     {0.60, 0.35},
	detector.RightElbow:    {0.40, 0.35},
	detector.LeftWrist:     {0.62, 0.45},
	detector.RightWrist:    {0.38, 0.45},
	detector.LeftHip:       {0.53, 0.50},
	detector.RightHip:      {0.47, 0.50},
	detector.LeftKnee:      {0.53, 0.65},
	detector.RightKnee:     {0.47, 0.65},
	detector.RightAnkle:    {0.47, 0.80},
}

const shinLength = 0.15

// Landmarks returns a full landmark set for a body whose left knee is bent
// to exactly leftKneeDeg degrees. All joints used by the built-in angle
// definitions carry visibility 0.9.
func Landmarks(leftKneeDeg float64) *[detector.NumLandmarks]detector.Landmark {
	var set [detector.NumLandmarks]detector.Landmark

	for index, point := range bodyPoints {
		set[index] = detector.Landmark{X: point[0], Y: point[1], Visibility: 0.9}
	}

	// The thigh points straight up from the knee, so rotating the shin by
	// the knee angle places the ankle directly.
	rad := leftKneeDeg * math.Pi / 180
	knee := bodyPoints[detector.LeftKnee]
	set[detector.LeftAnkle] = detector.Landmark{
		X:          knee[0] + shinLength*math.Sin(rad),
		Y:          knee[1] - shinLength*math.Cos(rad),
		Visibility: 0.9,
	}

	return &set
}

// BodyFrame returns a single detector frame with the given index and left
// knee angle. Timestamps advance at ~30fps.
func BodyFrame(index int, leftKneeDeg float64) detector.Frame {
	return detector.Frame{
		Index:       index,
		TimestampMs: int64(index) * 33,
		Landmarks:   *Landmarks(leftKneeDeg),
	}
}

// FrameSequence returns count frames all holding the same left knee angle.
func FrameSequence(count int, leftKneeDeg float64) []detector.Frame {
	frames := make([]detector.Frame, count)
	for i := range frames {
		frames[i] = BodyFrame(i, leftKneeDeg)
	}
	return frames
}
