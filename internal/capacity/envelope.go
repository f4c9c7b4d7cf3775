package capacity

import (
	"math"
	"sort"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

// P-M interaction envelope for rectangular columns.
//
// Sign convention: P is positive in compression, negative in tension; M is
// reported as an absolute value. Moments are taken about the geometric
// mid-height h/2 for every control point, the one axis that keeps the walk
// a valid capacity boundary.

// PMPoint is one control point of the envelope.
type PMPoint struct {
	P float64 // kN, compression positive
	M float64 // kN·m, absolute
}

// Envelope is the capacity boundary of one section under one material model,
// ordered from pure compression (max P) to pure tension (min P).
type Envelope struct {
	Section catalog.Section
	AsTotal float64 // mm², split half per face
	Points  []PMPoint
}

// DefaultSegmentPoints is the control-point density per walk segment.
const DefaultSegmentPoints = 15

// Boundary tolerance applied by Contains: demand up to 5% beyond the
// interpolated polyline still counts as inside, absorbing the
// discretization of the walk.
const containsTolerance = 1.05

// ComputeEnvelope walks the neutral axis from pure compression to pure
// tension at the default density.
func ComputeEnvelope(sec catalog.Section, mat gb.Material, asTotal float64) Envelope {
	return ComputeEnvelopeN(sec, mat, asTotal, DefaultSegmentPoints)
}

// ComputeEnvelopeN computes the envelope with segPoints control points per
// walk segment. The walk covers, in order: the pure-compression anchor, two
// transition depths above h, segPoints depths from h down to the balanced
// depth xb (quadratically clustered toward xb where curvature is highest),
// segPoints-1 depths from xb toward zero, and the pure-tension anchor.
func ComputeEnvelopeN(sec catalog.Section, mat gb.Material, asTotal float64, segPoints int) Envelope {
	if segPoints < 2 {
		segPoints = 2
	}

	b := sec.WidthMM
	h := sec.HeightMM
	h0 := gb.EffectiveDepth(h)
	xb := mat.XiB() * h0

	points := make([]PMPoint, 0, 2*segPoints+4)

	// Pure compression: full section plus all steel at fy'.
	points = append(points, PMPoint{
		P: (gb.Alpha1*mat.Fc*b*h + mat.FyPrime*asTotal) / 1000,
		M: 0,
	})

	xSteps := make([]float64, 0, 2*segPoints+1)
	xSteps = append(xSteps, 1.5*h, 1.1*h)

	for i := 0; i < segPoints; i++ {
		t := float64(i) / float64(segPoints-1)
		xSteps = append(xSteps, xb+(h-xb)*(1-t)*(1-t))
	}
	for i := 1; i < segPoints; i++ {
		t := float64(i) / float64(segPoints)
		xSteps = append(xSteps, xb*(1-t))
	}

	for _, x := range xSteps {
		points = append(points, computeNM(b, h, h0, mat, asTotal, x))
	}

	// Pure tension: all steel at fy.
	points = append(points, PMPoint{P: -mat.Fy * asTotal / 1000, M: 0})

	sort.Slice(points, func(i, j int) bool {
		if points[i].P != points[j].P {
			return points[i].P > points[j].P
		}
		return points[i].M > points[j].M
	})

	// Drop exact duplicates so repeated walks stay bit-identical.
	deduped := points[:1]
	for _, p := range points[1:] {
		last := deduped[len(deduped)-1]
		if p.P != last.P || p.M != last.M {
			deduped = append(deduped, p)
		}
	}

	return Envelope{Section: sec, AsTotal: asTotal, Points: deduped}
}

// computeNM solves force and moment equilibrium for neutral-axis depth x.
// Depths at or below 1e-5 collapse to the pure-tension resultant, the
// documented tie-break that keeps the walk free of division by zero.
func computeNM(b, h, h0 float64, mat gb.Material, asTotal, x float64) PMPoint {
	if x <= 1e-5 {
		return PMPoint{P: -mat.Fy * asTotal / 1000, M: 0}
	}

	as := asTotal / 2
	asPrime := asTotal / 2
	aPrime := gb.SteelCentroid()

	// Concrete stress block, capped at the full depth.
	hEff := math.Min(h, gb.Beta1*x)
	cc := gb.Alpha1 * mat.Fc * b * hEff
	mc := cc * (h/2 - hEff/2)

	// Compression-face steel from the linear strain profile.
	epsPrime := gb.EpsilonCU * (x - aPrime) / x
	sigPrime := clampStress(gb.Es*epsPrime, mat)
	fPrime := sigPrime * asPrime
	mPrime := fPrime * (h/2 - aPrime)

	// Tension-face steel.
	epsS := gb.EpsilonCU * (x - h0) / x
	sigS := clampStress(gb.Es*epsS, mat)
	fs := sigS * as
	ms := fs * (h/2 - h0)

	return PMPoint{
		P: (cc + fPrime + fs) / 1000,
		M: math.Abs(mc+mPrime+ms) / 1e6,
	}
}

func clampStress(sigma float64, mat gb.Material) float64 {
	if sigma > mat.FyPrime {
		return mat.FyPrime
	}
	if sigma < -mat.Fy {
		return -mat.Fy
	}
	return sigma
}

// Contains reports whether the demand point (p kN, m kN·m) lies inside the
// envelope. Demands beyond the axial range are outside; otherwise the
// capacity moment is interpolated at p and compared against |m| with the
// boundary tolerance.
func (e Envelope) Contains(p, m float64) bool {
	if len(e.Points) < 2 {
		return false
	}

	mAbs := math.Abs(m)

	if p > e.Points[0].P || p < e.Points[len(e.Points)-1].P {
		return false
	}

	for i := 0; i < len(e.Points)-1; i++ {
		p1, m1 := e.Points[i].P, e.Points[i].M
		p2, m2 := e.Points[i+1].P, e.Points[i+1].M

		if p2 <= p && p <= p1 {
			var mCap float64
			if math.Abs(p1-p2) < 1e-4 {
				mCap = math.Max(m1, m2)
			} else {
				ratio := (p - p2) / (p1 - p2)
				mCap = m2 + ratio*(m1-m2)
			}
			return mAbs <= mCap*containsTolerance
		}
	}

	return false
}

// CapacityAt returns the interpolated capacity moment at axial force p.
// Outside the axial range it returns the largest moment on the boundary.
func (e Envelope) CapacityAt(p float64) float64 {
	for i := 0; i < len(e.Points)-1; i++ {
		p1, m1 := e.Points[i].P, e.Points[i].M
		p2, m2 := e.Points[i+1].P, e.Points[i+1].M

		if math.Min(p1, p2) <= p && p <= math.Max(p1, p2) {
			if math.Abs(p2-p1) < 1e-6 {
				return math.Max(math.Abs(m1), math.Abs(m2))
			}
			t := (p - p1) / (p2 - p1)
			return math.Abs(m1 + t*(m2-m1))
		}
	}

	var max float64
	for _, pt := range e.Points {
		if m := math.Abs(pt.M); m > max {
			max = m
		}
	}
	return max
}

// PureCompression returns the maximum-axial-force anchor.
func (e Envelope) PureCompression() PMPoint {
	return e.Points[0]
}

// PureTension returns the minimum-axial-force anchor.
func (e Envelope) PureTension() PMPoint {
	return e.Points[len(e.Points)-1]
}

// PureFlexureMoment returns the capacity at zero axial force.
func (e Envelope) PureFlexureMoment() float64 {
	return e.CapacityAt(0)
}

// BalancedPoint returns the control point with the largest moment, the
// balanced-failure peak of the boundary.
func (e Envelope) BalancedPoint() PMPoint {
	best := e.Points[0]
	for _, pt := range e.Points[1:] {
		if pt.M > best.M {
			best = pt
		}
	}
	return best
}
