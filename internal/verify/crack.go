package verify

import (
	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

// Exposure is the GB 50010 table 3.5.2 environment category that sets the
// crack-width limit.
type Exposure string

const (
	ExposureI   Exposure = "I"    // indoor, dry
	ExposureIIa Exposure = "II-a" // indoor humid, outdoor sheltered
	ExposureIIb Exposure = "II-b" // outdoor exposed, wet alternation
)

// CrackLimitMM returns the allowed maximum crack width (GB 50010 3.4.5).
func (e Exposure) CrackLimitMM() float64 {
	switch e {
	case ExposureIIa:
		return 0.3
	case ExposureIIb:
		return 0.2
	default:
		return 0.4
	}
}

// crackWidthMM evaluates the GB 50010 7.1.2 maximum crack width of a beam
// under the quasi-permanent moment mq (kN·m). αcr = 1.9 for flexural
// members; ρte is floored at 0.01 and ψ clamped to [0.2, 1.0] as the code
// requires.
func crackWidthMM(sec catalog.Section, mat gb.Material, asMM2, deqMM, mqKNM float64) float64 {
	if mqKNM <= 0 || asMM2 <= 0 {
		return 0
	}

	h0 := gb.EffectiveDepth(sec.HeightMM)
	sigma := mqKNM * 1e6 / (0.87 * h0 * asMM2)

	rhoTE := asMM2 / (0.5 * sec.WidthMM * sec.HeightMM)
	if rhoTE < 0.01 {
		rhoTE = 0.01
	}

	psi := 1.1 - 0.65*mat.Ft/(rhoTE*sigma)
	psi = min(1.0, max(0.2, psi))

	return 1.9 * psi * sigma / gb.Es * (1.9*gb.Cover + 0.08*deqMM/rhoTE)
}
