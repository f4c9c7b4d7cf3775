package capacity

import (
	"math"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

// Flexural capacity of rectangular sections, GB 50010-2010 Section 6.2.
// All moments are returned in kN·m.

// NominalMoment calculates the nominal flexural capacity Mn for a singly or
// doubly reinforced rectangular section.
//
// The stress-block depth follows from force balance,
//
//	x = (fy·As - fy'·As') / (alpha1·fc·b)
//
// clamped at the balanced limit xi_b·h0. When x falls below 2a's with
// compression steel present, the compression steel has not yielded and the
// force balance is re-solved as a quadratic in the neutral-axis depth with
// the steel stress taken from the linear strain profile (Section 6.2.17).
func NominalMoment(sec catalog.Section, mat gb.Material, as, asPrime float64) float64 {
	b := sec.WidthMM
	h0 := gb.EffectiveDepth(sec.HeightMM)
	aPrime := gb.SteelCentroid()
	xiB := mat.XiB()

	x := (mat.Fy*as - mat.FyPrime*asPrime) / (gb.Alpha1 * mat.Fc * b)
	if x > xiB*h0 {
		x = xiB * h0
	}

	if x < 2*aPrime && asPrime > 0 {
		return momentElasticCompSteel(sec, mat, as, asPrime)
	}

	mn := gb.Alpha1*mat.Fc*b*x*(h0-x/2) + mat.FyPrime*asPrime*(h0-aPrime)
	return mn / 1e6
}

// momentElasticCompSteel solves the x < 2a's branch: the neutral axis c
// satisfies
//
//	alpha1·fc·b·beta1·c² + (As'·Es·eps_cu - fy·As)·c - As'·Es·eps_cu·a's = 0
//
// and the compression-steel stress follows from the strain at its level.
func momentElasticCompSteel(sec catalog.Section, mat gb.Material, as, asPrime float64) float64 {
	b := sec.WidthMM
	h0 := gb.EffectiveDepth(sec.HeightMM)
	aPrime := gb.SteelCentroid()

	esEps := gb.Es * gb.EpsilonCU

	qa := gb.Alpha1 * mat.Fc * b * gb.Beta1
	qb := asPrime*esEps - mat.Fy*as
	qc := -asPrime * esEps * aPrime

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		disc = 0
	}
	c := (-qb + math.Sqrt(disc)) / (2 * qa)

	sigmaPrime := esEps * (c - aPrime) / c
	if sigmaPrime > mat.FyPrime {
		sigmaPrime = mat.FyPrime
	}
	if sigmaPrime < -mat.Fy {
		sigmaPrime = -mat.Fy
	}

	x := gb.Beta1 * c
	mn := gb.Alpha1*mat.Fc*b*x*(h0-x/2) + sigmaPrime*asPrime*(h0-aPrime)
	return mn / 1e6
}

// DesignMoment applies the flexural strength reduction factor to Mn.
func DesignMoment(sec catalog.Section, mat gb.Material, as, asPrime float64) float64 {
	return gb.PhiFlexure * NominalMoment(sec, mat, as, asPrime)
}
