package capacity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

func section(t *testing.T, w, h float64) catalog.Section {
	t.Helper()
	c := catalog.Default()
	idx := c.IndexOf(w, h)
	require.GreaterOrEqual(t, idx, 0, "section %vx%v not in catalog", w, h)
	return c.ByIndex(idx)
}

func TestNominalMomentSingly(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 300, 600)

	// x = 360*942/(14.3*300) = 79.05 mm, Mn = fc*b*x*(h0-x/2)
	mn := NominalMoment(sec, mat, DefaultBeamAsMM2, 0)
	assert.InDelta(t, 172.1, mn, 0.2)
	assert.InDelta(t, 0.9*mn, DesignMoment(sec, mat, DefaultBeamAsMM2, 0), 1e-9)
}

func TestNominalMomentCompressionSteelBranch(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 400, 400)

	// Symmetric steel drives the balanced x to zero, forcing the
	// elastic-compression-steel branch.
	mn := NominalMoment(sec, mat, DefaultColumnAsMM2/2, DefaultColumnAsMM2/2)
	assert.InDelta(t, 88.3, mn, 1.0)
}

func TestNominalShear(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 300, 600)

	// Vc = 0.7*1.43*300*547, Vs = 360*100.5*547/150
	vn := NominalShear(sec, mat, DefaultStirrup())
	assert.InDelta(t, 296.2, vn, 0.5)
	assert.InDelta(t, 0.75*vn, DesignShear(sec, mat, DefaultStirrup()), 1e-9)
}

func TestCapacitiesMonotoneInDepth(t *testing.T) {
	mat := gb.C30HRB400()
	cat := catalog.Default()
	st := DefaultStirrup()

	for w := 200.0; w <= 500; w += 50 {
		prevM, prevV := 0.0, 0.0
		for h := 300.0; h <= 800; h += 50 {
			sec := cat.ByIndex(cat.IndexOf(w, h))

			mn := NominalMoment(sec, mat, DefaultBeamAsMM2, 0)
			vn := NominalShear(sec, mat, st)

			assert.Greater(t, mn, prevM, "moment must grow with depth at b=%v h=%v", w, h)
			assert.Greater(t, vn, prevV, "shear must grow with depth at b=%v h=%v", w, h)
			prevM, prevV = mn, vn
		}
	}
}

func TestEnvelopeAnchors(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 400, 400)

	env := ComputeEnvelope(sec, mat, DefaultColumnAsMM2)

	// Pure compression: (fc*b*h + fy*As_total)/1000
	pc := env.PureCompression()
	assert.InDelta(t, 2835.2, pc.P, 0.1)
	assert.Zero(t, pc.M)

	// Pure tension: -fy*As_total/1000
	pt := env.PureTension()
	assert.InDelta(t, -547.2, pt.P, 0.1)
	assert.Zero(t, pt.M)
}

func TestEnvelopeBalancedShape(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 400, 400)

	env := ComputeEnvelope(sec, mat, DefaultColumnAsMM2)
	bal := env.BalancedPoint()

	// Rising then falling moment as axial force grows from tension to
	// compression: the peak sits strictly inside the axial range.
	assert.Greater(t, bal.M, env.PureFlexureMoment())
	assert.Greater(t, bal.P, 0.0)
	assert.Less(t, bal.P, env.PureCompression().P)

	// Ordered from max compression to max tension, no gaps or NaNs.
	for i, p := range env.Points {
		assert.False(t, math.IsNaN(p.P) || math.IsNaN(p.M), "point %d is NaN", i)
		assert.GreaterOrEqual(t, p.M, 0.0)
		if i > 0 {
			assert.LessOrEqual(t, p.P, env.Points[i-1].P)
		}
	}
}

func TestEnvelopeMirroredNotIdentical(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 400, 400)

	env := ComputeEnvelope(sec, mat, DefaultColumnAsMM2)

	// The concrete contributes only in compression, so the two anchors are
	// mirrored in sign but never equal in magnitude.
	assert.NotEqual(t, env.PureCompression().P, -env.PureTension().P)
	assert.Greater(t, env.PureCompression().P, -env.PureTension().P)

	// Capacity at +P and -P differs for the same |P|.
	p := -env.PureTension().P / 2
	assert.NotEqual(t, env.CapacityAt(p), env.CapacityAt(-p))
}

func TestEnvelopePureFlexureMatchesMomentCapacity(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 400, 400)

	env := ComputeEnvelope(sec, mat, DefaultColumnAsMM2)
	fromWalk := env.PureFlexureMoment()
	fromFormula := NominalMoment(sec, mat, DefaultColumnAsMM2/2, DefaultColumnAsMM2/2)

	assert.InEpsilon(t, fromFormula, fromWalk, 0.03,
		"envelope at P=0 must agree with the flexure formula")
}

func TestEnvelopeContains(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 400, 400)
	env := ComputeEnvelope(sec, mat, DefaultColumnAsMM2)

	bal := env.BalancedPoint()

	tests := []struct {
		name   string
		p, m   float64
		inside bool
	}{
		{"origin", 0, 0, true},
		{"moderate compression", bal.P, bal.M * 0.8, true},
		{"beyond balanced moment", bal.P, bal.M * 1.2, false},
		{"axial overload", env.PureCompression().P + 100, 10, false},
		{"tension overload", env.PureTension().P - 100, 10, false},
		{"pure flexure safe", 0, env.PureFlexureMoment() * 0.9, true},
		{"pure flexure overloaded", 0, env.PureFlexureMoment() * 1.5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.inside, env.Contains(tc.p, tc.m))
		})
	}
}

func TestEnvelopeDeterministic(t *testing.T) {
	mat := gb.C30HRB400()
	sec := section(t, 350, 550)

	a := ComputeEnvelope(sec, mat, DefaultColumnAsMM2)
	b := ComputeEnvelope(sec, mat, DefaultColumnAsMM2)
	require.Equal(t, a.Points, b.Points, "same inputs must give bit-identical envelopes")
}

func TestCacheComputesOnce(t *testing.T) {
	mat := gb.C30HRB400()
	cache := NewCache(mat, DefaultColumnAsMM2)
	sec := section(t, 400, 500)

	first := cache.GetOrCompute(sec)
	second := cache.GetOrCompute(sec)

	assert.Equal(t, 1, cache.Computations(), "second lookup must hit the cache")
	require.Equal(t, first.Points, second.Points)
}

func TestCachePrewarm(t *testing.T) {
	mat := gb.C30HRB400()
	cat := catalog.Default()
	cache := NewCache(mat, DefaultColumnAsMM2)

	cache.Prewarm(cat)
	assert.Equal(t, cat.Len(), cache.Len())
	assert.Equal(t, cat.Len(), cache.Computations())

	// Every later lookup is a hit.
	for i := 0; i < cat.Len(); i++ {
		cache.GetOrCompute(cat.ByIndex(i))
	}
	assert.Equal(t, cat.Len(), cache.Computations())
}

func TestRebarAreas(t *testing.T) {
	assert.Equal(t, DefaultBeamAsMM2, RebarAreas[DefaultBeamRebar])
	assert.Equal(t, DefaultColumnAsMM2, RebarAreas[DefaultColumnRebar])
}
