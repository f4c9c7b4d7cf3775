package capacity

// RebarAreas maps common bar arrangements to their total area (mm²).
var RebarAreas = map[string]float64{
	"2φ16": 402,
	"2φ18": 509,
	"2φ20": 628,
	"3φ20": 942,
	"4φ20": 1257,
	"2φ22": 760,
	"3φ22": 1140,
	"4φ22": 1520,
	"2φ25": 982,
	"3φ25": 1473,
	"4φ25": 1964,
}

// Default arrangements assumed by the optimizer: beams carry 3φ20 tension
// steel, columns carry 4φ22 split half per face.
const (
	DefaultBeamRebar   = "3φ20"
	DefaultColumnRebar = "4φ22"

	DefaultBeamAsMM2   = 942.0
	DefaultColumnAsMM2 = 1520.0

	// Bar diameter used by the crack-width formula.
	DefaultBarDiaMM = 20.0
)

// Stirrup describes the transverse reinforcement for shear.
type Stirrup struct {
	AreaMM2   float64 // Asv - total area of legs in one plane
	SpacingMM float64 // s
}

// DefaultStirrup returns two-leg φ8 at 150 mm.
func DefaultStirrup() Stirrup {
	return Stirrup{AreaMM2: 100.5, SpacingMM: 150}
}
