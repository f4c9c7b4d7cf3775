// Package solver runs first-order linear-elastic analyses of plane frames
// with the direct stiffness method. Models use consistent kN and m units:
// member axial stiffness EA in kN, bending stiffness EI in kN·m², loads in
// kN and kN/m.
package solver

import (
	"errors"
	"fmt"
	"math"
)

// Node is a frame joint in the vertical XY plane.
type Node struct {
	X, Y  float64 // m
	Fixed bool    // all three DOFs restrained
}

// Member is a prismatic element between two node indices. The distributed
// load acts along the member's local transverse axis in kN/m; for a
// horizontal member that axis points up, so gravity loads carry a negative
// sign.
type Member struct {
	I, J int
	EA   float64 // kN
	EI   float64 // kN·m²
	UDL  float64 // kN/m
}

// NodalLoad is a point load applied at a joint in global coordinates.
type NodalLoad struct {
	Node   int
	FX, FY float64 // kN
}

// Model is the assembled analysis input.
type Model struct {
	Nodes   []Node
	Members []Member
	Loads   []NodalLoad
}

// Displacement holds the solved DOFs of one node.
type Displacement struct {
	UX, UY float64 // m
	RZ     float64 // rad
}

// MemberForces are the internal actions of one member derived from the
// solved end forces. Axial force is positive in tension. Moments follow the
// sagging-positive convention of a horizontal member read from I to J.
type MemberForces struct {
	Axial   float64 // kN
	ShearI  float64 // kN
	ShearJ  float64 // kN
	MomentI float64 // kN·m
	MomentJ float64 // kN·m

	// MomentMid is the extremum of the parabolic span moment when the
	// distributed load produces one between the ends, otherwise the value
	// at midspan.
	MomentMid float64 // kN·m

	// MidDeflection is the transverse displacement at midspan measured
	// from the chord between the displaced ends (m).
	MidDeflection float64

	MaxAbsMoment float64 // kN·m
	MaxAbsShear  float64 // kN
}

// Result pairs nodal displacements with member forces, both indexed in
// model order.
type Result struct {
	Displacements []Displacement
	Members       []MemberForces
}

func (m Model) validate() error {
	if len(m.Nodes) == 0 {
		return errors.New("model has no nodes")
	}
	if len(m.Members) == 0 {
		return errors.New("model has no members")
	}

	supported := false
	for _, n := range m.Nodes {
		if n.Fixed {
			supported = true
			break
		}
	}
	if !supported {
		return errors.New("model has no supports")
	}

	for i, mb := range m.Members {
		if mb.I < 0 || mb.I >= len(m.Nodes) || mb.J < 0 || mb.J >= len(m.Nodes) {
			return fmt.Errorf("member %d references an unknown node", i)
		}
		if mb.I == mb.J {
			return fmt.Errorf("member %d connects a node to itself", i)
		}
		if mb.EA <= 0 || mb.EI <= 0 {
			return fmt.Errorf("member %d has non-positive stiffness", i)
		}
		if length(m, mb) < 1e-9 {
			return fmt.Errorf("member %d has zero length", i)
		}
	}

	for i, l := range m.Loads {
		if l.Node < 0 || l.Node >= len(m.Nodes) {
			return fmt.Errorf("load %d references an unknown node", i)
		}
	}
	return nil
}

func length(m Model, mb Member) float64 {
	dx := m.Nodes[mb.J].X - m.Nodes[mb.I].X
	dy := m.Nodes[mb.J].Y - m.Nodes[mb.I].Y
	return math.Hypot(dx, dy)
}
