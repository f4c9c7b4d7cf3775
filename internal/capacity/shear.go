package capacity

import (
	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

// Shear capacity of rectangular sections, GB 50010-2010 Section 6.3.
// All forces are returned in kN.

// NominalShear calculates Vn = Vc + Vs:
//
//	Vc = 0.7·ft·b·h0
//	Vs = fy·Asv·h0 / s
func NominalShear(sec catalog.Section, mat gb.Material, st Stirrup) float64 {
	h0 := gb.EffectiveDepth(sec.HeightMM)

	vc := 0.7 * mat.Ft * sec.WidthMM * h0
	vs := mat.Fy * st.AreaMM2 * h0 / st.SpacingMM

	return (vc + vs) / 1000
}

// DesignShear applies the shear strength reduction factor to Vn.
func DesignShear(sec catalog.Section, mat gb.Material, st Stirrup) float64 {
	return gb.PhiShear * NominalShear(sec, mat, st)
}
