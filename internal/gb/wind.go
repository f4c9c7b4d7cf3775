package gb

// Wind load parameters per GB 50009-2012 Chapter 8.

// TerrainCategory is the ground roughness class of Table 8.2.1.
type TerrainCategory string

const (
	TerrainA TerrainCategory = "A" // open sea, islands
	TerrainB TerrainCategory = "B" // open country, default
	TerrainC TerrainCategory = "C" // suburbs
	TerrainD TerrainCategory = "D" // dense urban
)

// WindParams describes the site wind environment.
type WindParams struct {
	W0      float64         // basic wind pressure (kN/m²), 50-year return, floor 0.3
	MuS     float64         // shape factor, 1.3 for rectangular plans
	Terrain TerrainCategory // ground roughness category
}

// DefaultWind returns the parameters used when only w0 is supplied.
func DefaultWind(w0 float64) WindParams {
	if w0 < 0.3 {
		w0 = 0.3
	}
	return WindParams{W0: w0, MuS: 1.3, Terrain: TerrainB}
}

// muZ height steps per terrain category (GB 50009-2012 Table 8.2.1).
type muZStep struct {
	maxZ float64 // m
	muZ  float64
}

var muZTables = map[TerrainCategory][]muZStep{
	TerrainA: {
		{10, 1.28}, {15, 1.42}, {20, 1.52}, {30, 1.67}, {40, 1.79},
	},
	TerrainB: {
		{10, 1.00}, {15, 1.14}, {20, 1.25}, {30, 1.42}, {40, 1.56},
		{50, 1.67}, {60, 1.77}, {70, 1.86}, {80, 1.95}, {90, 2.02},
	},
	TerrainC: {
		{10, 0.74}, {15, 0.84}, {20, 0.92}, {30, 1.06}, {40, 1.18}, {50, 1.28},
	},
	TerrainD: {
		{10, 0.62}, {15, 0.62}, {20, 0.70}, {30, 0.84}, {40, 0.95}, {50, 1.05},
	},
}

// table ceilings when z exceeds the last step
var muZCeilings = map[TerrainCategory]float64{
	TerrainA: 1.89,
	TerrainB: 2.09,
	TerrainC: 1.37,
	TerrainD: 1.14,
}

// MuZ returns the exposure factor at height z (m) above ground.
// GB 50009-2012 Table 8.2.1.
func (w WindParams) MuZ(z float64) float64 {
	steps, ok := muZTables[w.Terrain]
	if !ok {
		steps = muZTables[TerrainB]
	}
	for _, s := range steps {
		if z <= s.maxZ {
			return s.muZ
		}
	}
	if c, ok := muZCeilings[w.Terrain]; ok {
		return c
	}
	return muZCeilings[TerrainB]
}

// PressureAt returns the characteristic wind pressure wk at height z (m).
// GB 50009-2012 Section 8.1.1, gust factor taken as 1.0 for low frames:
// wk = mu_s * mu_z * w0.
func (w WindParams) PressureAt(z float64) float64 {
	return w.MuS * w.MuZ(z) * w.W0
}
