// Package eval implements the pose comparison and scoring engine: angle
// extraction, golden-standard construction, DTW sequence alignment and
// tolerance-weighted scoring.
package eval

// AngleVector maps angle names to measured degree values for one frame.
// Angles that could not be measured (insufficient landmark visibility or a
// degenerate triplet) are absent from the map.
type AngleVector map[string]float64

// Has reports whether the angle was measured in this frame.
func (v AngleVector) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Usable reports whether at least one angle was measured.
func (v AngleVector) Usable() bool {
	return len(v) > 0
}

// Clone returns an independent copy of the vector.
func (v AngleVector) Clone() AngleVector {
	c := make(AngleVector, len(v))
	for name, value := range v {
		c[name] = value
	}
	return c
}
