package eval

import (
	"math"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/pose"
)

// minVectorNorm guards the angle computation against coincident landmarks.
const minVectorNorm = 1e-9

// ExtractAngles computes the pose's angle vector from a single frame.
// An angle is measured only when all three of its landmarks meet the
// definition's visibility threshold and the triplet is non-degenerate;
// otherwise it is left out of the vector. A frame in which no angle could
// be measured returns the empty vector together with ErrFrameUnusable.
func ExtractAngles(frame detector.Frame, def *pose.PoseDefinition) (AngleVector, error) {
	vector := make(AngleVector, len(def.Angles))

	for _, a := range def.Angles {
		pa := frame.Landmarks[a.A]
		pv := frame.Landmarks[a.Vertex]
		pc := frame.Landmarks[a.C]

		if pa.Visibility < a.VisibilityThreshold ||
			pv.Visibility < a.VisibilityThreshold ||
			pc.Visibility < a.VisibilityThreshold {
			continue
		}

		angle, ok := vertexAngle(pa, pv, pc)
		if !ok {
			continue
		}
		vector[a.Name] = angle
	}

	if !vector.Usable() {
		return vector, ErrFrameUnusable
	}
	return vector, nil
}

// ExtractSequence extracts angle vectors for every frame in order.
// Unusable frames are kept as empty vectors so callers can count them;
// the returned dropped count says how many there were.
func ExtractSequence(frames []detector.Frame, def *pose.PoseDefinition) ([]AngleVector, int) {
	vectors := make([]AngleVector, 0, len(frames))
	dropped := 0

	for _, frame := range frames {
		vector, err := ExtractAngles(frame, def)
		if err != nil {
			dropped++
		}
		vectors = append(vectors, vector)
	}

	return vectors, dropped
}

// vertexAngle computes the angle in degrees at pv between the vectors
// pa-pv and pc-pv, clamped to [0, 180]. Returns ok=false when either
// vector has near-zero magnitude.
func vertexAngle(pa, pv, pc detector.Landmark) (float64, bool) {
	ux := pa.X - pv.X
	uy := pa.Y - pv.Y
	uz := pa.Z - pv.Z

	wx := pc.X - pv.X
	wy := pc.Y - pv.Y
	wz := pc.Z - pv.Z

	normU := math.Sqrt(ux*ux + uy*uy + uz*uz)
	normW := math.Sqrt(wx*wx + wy*wy + wz*wz)

	if normU < minVectorNorm || normW < minVectorNorm {
		return 0, false
	}

	cos := (ux*wx + uy*wy + uz*wz) / (normU * normW)

	// Clamp against floating point drift before acos
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi, true
}
