package gb

// Limit states a combination belongs to.
const (
	LimitULS         = "ULS"
	LimitSLSStandard = "SLS_STD"
	LimitSLSQuasi    = "SLS_QUASI"
)

// LoadCombination represents a GB load combination
// Based on GB 50009-2012 Section 5.3 and GB 55001-2021 Section 3.1.13
type LoadCombination struct {
	Name       string
	LimitState string
	// Load factors for each load type
	Dead float64 // G - permanent load
	Live float64 // Q - floor live load
	Wind float64 // W - wind load
	Snow float64 // S - snow load
}

// Combination factors (GB 50009-2012 Table 5.1.1)
const (
	PsiCLive = 0.7 // combination factor, floor live load
	PsiCWind = 0.6 // combination factor, wind load
	PsiCSnow = 0.7 // combination factor, snow load
	PsiQLive = 0.4 // quasi-permanent factor, floor live load
	PsiQSnow = 0.2 // quasi-permanent factor, snow load
)

// ULSCombinations returns the ultimate-limit-state combinations.
// The 1.3G+1.5L set follows GB 55001-2021 Section 3.1.13; the remaining
// gravity and wind sets follow GB 50009-2012 Section 5.3.1.
func ULSCombinations(hasWind, hasSnow bool) []LoadCombination {
	combos := []LoadCombination{
		{Name: "1.3G+1.5L", LimitState: LimitULS, Dead: 1.3, Live: 1.5},
		{Name: "1.2G+1.4Q", LimitState: LimitULS, Dead: 1.2, Live: 1.4},
		{Name: "1.35G+0.98Q", LimitState: LimitULS, Dead: 1.35, Live: PsiCLive * 1.4},
	}

	if hasWind {
		combos = append(combos,
			LoadCombination{Name: "1.2G+1.4W", LimitState: LimitULS, Dead: 1.2, Wind: 1.4},
			LoadCombination{Name: "1.2G+0.98Q+1.4W", LimitState: LimitULS, Dead: 1.2, Live: PsiCLive * 1.4, Wind: 1.4},
			LoadCombination{Name: "1.2G+1.4Q+0.84W", LimitState: LimitULS, Dead: 1.2, Live: 1.4, Wind: PsiCWind * 1.4},
		)
	}

	if hasSnow {
		combos = append(combos,
			LoadCombination{Name: "1.2G+1.4S", LimitState: LimitULS, Dead: 1.2, Snow: 1.4},
			LoadCombination{Name: "1.2G+0.98Q+1.4S", LimitState: LimitULS, Dead: 1.2, Live: PsiCLive * 1.4, Snow: 1.4},
			LoadCombination{Name: "1.2G+1.4Q+0.98S", LimitState: LimitULS, Dead: 1.2, Live: 1.4, Snow: PsiCSnow * 1.4},
		)
	}

	if hasWind && hasSnow {
		combos = append(combos, LoadCombination{
			Name:       "1.2G+0.98Q+1.4W+0.98S",
			LimitState: LimitULS,
			Dead:       1.2,
			Live:       PsiCLive * 1.4,
			Wind:       1.4,
			Snow:       PsiCSnow * 1.4,
		})
	}

	return combos
}

// SLSCombinations returns the serviceability combinations.
// GB 50009-2012 Section 5.3.2: the standard combination governs deflection,
// the quasi-permanent combination governs crack width.
func SLSCombinations() []LoadCombination {
	return []LoadCombination{
		{Name: "G+Q", LimitState: LimitSLSStandard, Dead: 1.0, Live: 1.0},
		{Name: "G+0.4Q", LimitState: LimitSLSQuasi, Dead: 1.0, Live: PsiQLive},
	}
}

// AllCombinations returns ULS followed by SLS combinations.
func AllCombinations(hasWind, hasSnow bool) []LoadCombination {
	return append(ULSCombinations(hasWind, hasSnow), SLSCombinations()...)
}

// LoadEffects holds unfactored effects (moment, force, ...) per load type.
type LoadEffects struct {
	Dead float64
	Live float64
	Wind float64
	Snow float64
}

// Factored combines the effects under this combination's factors.
func (lc LoadCombination) Factored(e LoadEffects) float64 {
	return lc.Dead*e.Dead + lc.Live*e.Live + lc.Wind*e.Wind + lc.Snow*e.Snow
}

// GoverningEffect finds the maximum factored effect across the combinations.
func GoverningEffect(e LoadEffects, combinations []LoadCombination) (float64, LoadCombination) {
	var maxEffect float64
	var governing LoadCombination

	for _, combo := range combinations {
		effect := combo.Factored(e)
		if effect > maxEffect {
			maxEffect = effect
			governing = combo
		}
	}

	return maxEffect, governing
}
