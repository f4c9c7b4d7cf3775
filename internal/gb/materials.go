package gb

// GB 50010-2010 Material Constants

const (
	// Strain limit
	// Section 6.2.1: ultimate compressive strain for flexural members
	EpsilonCU = 0.0033

	// Equivalent rectangular stress block factors
	// Section 6.2.6: alpha1 = 1.0 and beta1 = 0.8 for concrete up to C50
	Alpha1 = 1.0
	Beta1  = 0.8

	// Strength reduction factors applied to nominal capacities
	PhiFlexure = 0.90 // flexure
	PhiShear   = 0.75 // shear

	// Modulus of elasticity for reinforcement (Section 4.2.5)
	Es = 200000.0 // MPa

	// Detailing assumptions used for the effective depth
	Cover      = 35.0 // mm - concrete cover
	StirrupDia = 8.0  // mm - stirrup diameter
	HalfBarDia = 10.0 // mm - half of a 20 mm longitudinal bar
)

// Material bundles the concrete/steel design strengths for one run.
// The default pairing is C30 concrete with HRB400 reinforcement, the
// values every capacity formula in this module was calibrated against.
type Material struct {
	// Concrete (MPa)
	Fc float64 // axial compressive design strength
	Ft float64 // axial tensile design strength
	Ec float64 // modulus of elasticity

	// Reinforcement (MPa)
	Fy      float64 // tensile design strength
	FyPrime float64 // compressive design strength
}

// C30HRB400 returns the default material model.
// GB 50010-2010 Tables 4.1.4-1 and 4.2.3-1.
func C30HRB400() Material {
	return Material{
		Fc:      14.3,
		Ft:      1.43,
		Ec:      30000,
		Fy:      360,
		FyPrime: 360,
	}
}

// EffectiveDepth returns h0 = h - as for the detailing assumptions above.
func EffectiveDepth(h float64) float64 {
	return h - (Cover + StirrupDia + HalfBarDia)
}

// SteelCentroid returns the distance from the section face to the centroid
// of the nearest reinforcement layer (as = a's under symmetric detailing).
func SteelCentroid() float64 {
	return Cover + StirrupDia + HalfBarDia
}

// XiB returns the relative limit depth of the compression zone.
// Section 6.2.7: xi_b = beta1 / (1 + fy / (Es * epsilon_cu)).
func (m Material) XiB() float64 {
	return Beta1 / (1 + m.Fy/(Es*EpsilonCU))
}

// YieldStrain returns the reinforcement yield strain fy/Es.
func (m Material) YieldStrain() float64 {
	return m.Fy / Es
}
