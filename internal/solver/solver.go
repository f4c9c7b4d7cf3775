package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular reports a stiffness matrix that cannot be factorized. The
// model is then a mechanism or contains a node detached from every member.
var ErrSingular = errors.New("singular stiffness matrix")

// DirectStiffness is the stock implementation behind the frame analysis.
// The zero value is ready to use.
type DirectStiffness struct{}

// Solve implements the frame solver contract.
func (DirectStiffness) Solve(m Model) (*Result, error) { return Solve(m) }

// Solve assembles the global stiffness matrix, eliminates the restrained
// DOFs and solves K·d = F, then recovers member end forces.
func Solve(m Model) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	ndof := 3 * len(m.Nodes)
	kg := mat.NewDense(ndof, ndof, nil)
	fg := make([]float64, ndof)

	for _, mb := range m.Members {
		l := length(m, mb)
		t := transform(m, mb, l)
		kl := localStiffness(mb.EA, mb.EI, l)
		km := congruent(t, kl)

		dofs := memberDOFs(mb)
		for a := 0; a < 6; a++ {
			for b := 0; b < 6; b++ {
				kg.Set(dofs[a], dofs[b], kg.At(dofs[a], dofs[b])+km[a][b])
			}
		}

		feq := equivalentLoad(mb.UDL, l)
		for a := 0; a < 6; a++ {
			// Tᵀ carries the local equivalent loads into global axes.
			var v float64
			for b := 0; b < 6; b++ {
				v += t[b][a] * feq[b]
			}
			fg[dofs[a]] += v
		}
	}

	for _, l := range m.Loads {
		fg[3*l.Node] += l.FX
		fg[3*l.Node+1] += l.FY
	}

	var free []int
	for i, n := range m.Nodes {
		if n.Fixed {
			continue
		}
		free = append(free, 3*i, 3*i+1, 3*i+2)
	}

	disp := make([]float64, ndof)
	if len(free) > 0 {
		kr := mat.NewDense(len(free), len(free), nil)
		fr := mat.NewVecDense(len(free), nil)
		for a, ga := range free {
			fr.SetVec(a, fg[ga])
			for b, gb := range free {
				kr.Set(a, b, kg.At(ga, gb))
			}
		}

		var d mat.VecDense
		if err := d.SolveVec(kr, fr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		for a, ga := range free {
			disp[ga] = d.AtVec(a)
		}
	}

	res := &Result{
		Displacements: make([]Displacement, len(m.Nodes)),
		Members:       make([]MemberForces, len(m.Members)),
	}
	for i := range m.Nodes {
		res.Displacements[i] = Displacement{
			UX: disp[3*i],
			UY: disp[3*i+1],
			RZ: disp[3*i+2],
		}
	}
	for i, mb := range m.Members {
		res.Members[i] = memberForces(m, mb, disp)
	}
	return res, nil
}

func memberDOFs(mb Member) [6]int {
	return [6]int{
		3 * mb.I, 3*mb.I + 1, 3*mb.I + 2,
		3 * mb.J, 3*mb.J + 1, 3*mb.J + 2,
	}
}

// transform maps global displacements into the member's local axes.
func transform(m Model, mb Member, l float64) [6][6]float64 {
	c := (m.Nodes[mb.J].X - m.Nodes[mb.I].X) / l
	s := (m.Nodes[mb.J].Y - m.Nodes[mb.I].Y) / l

	var t [6][6]float64
	for _, o := range []int{0, 3} {
		t[o][o], t[o][o+1] = c, s
		t[o+1][o], t[o+1][o+1] = -s, c
		t[o+2][o+2] = 1
	}
	return t
}

func localStiffness(ea, ei, l float64) [6][6]float64 {
	ax := ea / l
	b := 12 * ei / (l * l * l)
	c := 6 * ei / (l * l)
	d := 4 * ei / l
	e := 2 * ei / l
	return [6][6]float64{
		{ax, 0, 0, -ax, 0, 0},
		{0, b, c, 0, -b, c},
		{0, c, d, 0, -c, e},
		{-ax, 0, 0, ax, 0, 0},
		{0, -b, -c, 0, b, -c},
		{0, c, e, 0, -c, d},
	}
}

// congruent returns Tᵀ·k·T.
func congruent(t, k [6][6]float64) [6][6]float64 {
	var kt [6][6]float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			var v float64
			for n := 0; n < 6; n++ {
				v += k[i][n] * t[n][j]
			}
			kt[i][j] = v
		}
	}
	var out [6][6]float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			var v float64
			for n := 0; n < 6; n++ {
				v += t[n][i] * kt[n][j]
			}
			out[i][j] = v
		}
	}
	return out
}

// equivalentLoad is the consistent nodal load vector of a uniform
// transverse load w over span l, in local axes.
func equivalentLoad(w, l float64) [6]float64 {
	return [6]float64{0, w * l / 2, w * l * l / 12, 0, w * l / 2, -w * l * l / 12}
}

func memberForces(m Model, mb Member, disp []float64) MemberForces {
	l := length(m, mb)
	t := transform(m, mb, l)
	kl := localStiffness(mb.EA, mb.EI, l)
	dofs := memberDOFs(mb)

	var ug, ul, fl [6]float64
	for a, g := range dofs {
		ug[a] = disp[g]
	}
	for a := 0; a < 6; a++ {
		for b := 0; b < 6; b++ {
			ul[a] += t[a][b] * ug[b]
		}
	}
	feq := equivalentLoad(mb.UDL, l)
	for a := 0; a < 6; a++ {
		for b := 0; b < 6; b++ {
			fl[a] += kl[a][b] * ul[b]
		}
		fl[a] -= feq[a]
	}

	w := mb.UDL
	v1 := fl[1]
	v2 := v1 + w*l
	m1 := -fl[2]
	m2 := fl[5]

	mid := spanMoment(m1, v1, w, l/2)
	if w != 0 {
		// Shear crosses zero at the parabola's vertex.
		if x := -v1 / w; x > 0 && x < l {
			mid = spanMoment(m1, v1, w, x)
		}
	}

	// Hermite interpolation at midspan plus the clamped-span particular
	// solution, measured from the chord between the displaced ends.
	defl := (ul[2]-ul[5])*l/8 + w*l*l*l*l/(384*mb.EI)

	return MemberForces{
		Axial:         fl[3],
		ShearI:        v1,
		ShearJ:        v2,
		MomentI:       m1,
		MomentJ:       m2,
		MomentMid:     mid,
		MidDeflection: defl,
		MaxAbsMoment:  max(math.Abs(m1), math.Abs(m2), math.Abs(mid)),
		MaxAbsShear:   max(math.Abs(v1), math.Abs(v2)),
	}
}

func spanMoment(m1, v1, w, x float64) float64 {
	return m1 + v1*x + w*x*x/2
}
