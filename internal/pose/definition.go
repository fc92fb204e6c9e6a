// Package pose provides the static catalog of supported poses and their
// per-angle definitions and tolerances.
package pose

import (
	"errors"
	"fmt"

	"github.com/ayusman/asana/internal/detector"
)

// ErrUnknownPose is returned when a pose name is not present in the registry.
var ErrUnknownPose = errors.New("unknown pose")

// DefaultVisibilityThreshold is the minimum landmark visibility required
// for an angle to be considered measurable.
const DefaultVisibilityThreshold = 0.3

// AngleDefinition declares one named joint angle: the three landmarks that
// form it (the angle is measured at Vertex), the allowed deviation in
// degrees, and the direction labels used for feedback phrasing.
type AngleDefinition struct {
	Name                string  `json:"name"`
	A                   int     `json:"a"`
	Vertex              int     `json:"vertex"`
	C                   int     `json:"c"`
	Tolerance           float64 `json:"tolerance"`
	VisibilityThreshold float64 `json:"visibility_threshold"`

	// HighLabel describes a candidate angle above the reference,
	// LowLabel one below it.
	HighLabel string `json:"high_label"`
	LowLabel  string `json:"low_label"`
}

// PoseDefinition is the full angle configuration for one supported pose.
type PoseDefinition struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Angles      []AngleDefinition `json:"angles"`
}

// AngleByName returns the angle definition with the given name, or nil.
func (p *PoseDefinition) AngleByName(name string) *AngleDefinition {
	for i := range p.Angles {
		if p.Angles[i].Name == name {
			return &p.Angles[i]
		}
	}
	return nil
}

// Validate checks the structural invariants of a pose definition:
// at least one angle, unique angle names, valid landmark triplets and
// positive tolerances.
func (p *PoseDefinition) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("pose has no name")
	}
	if len(p.Angles) == 0 {
		return fmt.Errorf("pose %q has no angles", p.Name)
	}

	seen := make(map[string]bool, len(p.Angles))
	for _, a := range p.Angles {
		if a.Name == "" {
			return fmt.Errorf("pose %q has an unnamed angle", p.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("pose %q has duplicate angle %q", p.Name, a.Name)
		}
		seen[a.Name] = true

		for _, idx := range []int{a.A, a.Vertex, a.C} {
			if idx < 0 || idx >= detector.NumLandmarks {
				return fmt.Errorf("pose %q angle %q references invalid landmark index %d", p.Name, a.Name, idx)
			}
		}
		if a.A == a.Vertex || a.C == a.Vertex || a.A == a.C {
			return fmt.Errorf("pose %q angle %q has a degenerate landmark triplet", p.Name, a.Name)
		}
		if a.Tolerance <= 0 {
			return fmt.Errorf("pose %q angle %q has non-positive tolerance %.1f", p.Name, a.Name, a.Tolerance)
		}
		if a.VisibilityThreshold < 0 || a.VisibilityThreshold > 1 {
			return fmt.Errorf("pose %q angle %q has visibility threshold %.2f outside [0,1]", p.Name, a.Name, a.VisibilityThreshold)
		}
	}

	return nil
}

// Registry is a validated, read-only lookup from pose name to definition.
type Registry struct {
	poses map[string]*PoseDefinition
	order []string
}

// NewRegistry builds a registry from the given definitions, validating each.
func NewRegistry(defs []PoseDefinition) (*Registry, error) {
	r := &Registry{
		poses: make(map[string]*PoseDefinition, len(defs)),
	}

	for i := range defs {
		def := defs[i]
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid pose definition: %w", err)
		}
		if _, exists := r.poses[def.Name]; exists {
			return nil, fmt.Errorf("duplicate pose definition %q", def.Name)
		}
		r.poses[def.Name] = &def
		r.order = append(r.order, def.Name)
	}

	return r, nil
}

// Lookup returns the definition for the given pose name.
func (r *Registry) Lookup(name string) (*PoseDefinition, error) {
	def, ok := r.poses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPose, name)
	}
	return def, nil
}

// List returns all pose definitions in registration order.
func (r *Registry) List() []*PoseDefinition {
	defs := make([]*PoseDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.poses[name])
	}
	return defs
}
