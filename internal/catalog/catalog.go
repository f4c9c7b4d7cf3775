package catalog

import (
	"fmt"
	"math"
)

// Unit prices, 2024 market reference built up from the national bill-of-
// quantities standard (GB 50500). Each figure is a composite of material,
// labour, plant, overhead and profit per unit of finished work.
const (
	ConcretePricePerM3 = 600.0 // yuan/m³ - C30 ready-mix, pumped, placed, cured
	SteelPricePerKG    = 6.0   // yuan/kg - HRB400 supplied, cut, bent, fixed
	FormworkPricePerM2 = 100.0 // yuan/m² - amortised panels, erect and strike
	IndirectFactor     = 1.4   // overheads, fees, profit, tax

	// Cost-model reinforcement assumption: the catalog prices sections at a
	// fixed average ratio, it does not derive steel from the verifier.
	SteelRatio   = 0.015  // 1.5% of the gross section
	SteelDensity = 7850.0 // kg/m³
)

// Role selects the stiffness reduction applied to the gross inertia.
type Role int

const (
	RoleBeam   Role = iota // cracked beams: 0.35 Ig
	RoleColumn             // cracked columns: 0.70 Ig
)

// Section is an immutable rectangular cross-section record. Identity is the
// (width, height) pair; every derived attribute is precomputed at catalog
// construction so evaluations never repeat the arithmetic.
type Section struct {
	WidthMM  float64 // b
	HeightMM float64 // h

	AreaMM2           float64 // A = b*h
	GrossInertiaMM4   float64 // Ig = b*h³/12
	SectionModulusMM3 float64 // W = b*h²/6

	CostPerMeter float64 // yuan/m, composite rate
}

// Name returns the conventional "b×h" label.
func (s Section) Name() string {
	return fmt.Sprintf("%.0f×%.0f", s.WidthMM, s.HeightMM)
}

// EffectiveInertia returns the cracked-stiffness inertia for the role.
// Policy constants (beam 0.35 Ig, column 0.70 Ig), not derived from the
// actual reinforcement.
func (s Section) EffectiveInertia(role Role) float64 {
	if role == RoleColumn {
		return 0.70 * s.GrossInertiaMM4
	}
	return 0.35 * s.GrossInertiaMM4
}

// Catalog is a finite, ordered set of sections on a fixed dimension grid.
// It is constructed once per run and injected wherever sections are needed;
// the search space it spans is discrete and non-negotiable.
type Catalog struct {
	sections []Section
}

// New enumerates the sections for widths minW..maxW and heights minH..maxH
// on the given step (all mm), ordered by (width, height).
func New(minW, maxW, minH, maxH, step float64) (*Catalog, error) {
	if step <= 0 {
		return nil, fmt.Errorf("invalid catalog step: %.2f", step)
	}
	if minW <= 0 || minH <= 0 {
		return nil, fmt.Errorf("invalid catalog dimensions: minW=%.2f, minH=%.2f", minW, minH)
	}
	if maxW < minW || maxH < minH {
		return nil, fmt.Errorf("invalid catalog range: %.0f..%.0f × %.0f..%.0f", minW, maxW, minH, maxH)
	}

	var sections []Section
	for b := minW; b <= maxW+1e-9; b += step {
		for h := minH; h <= maxH+1e-9; h += step {
			sections = append(sections, makeSection(b, h))
		}
	}

	return &Catalog{sections: sections}, nil
}

// Default returns the standard library: 200×300 up to 500×800 on a 50 mm
// grid, 77 sections.
func Default() *Catalog {
	c, err := New(200, 500, 300, 800, 50)
	if err != nil {
		panic(err) // static bounds cannot fail
	}
	return c
}

// NewSection builds a standalone section record outside any catalog, for
// one-off capacity queries.
func NewSection(widthMM, heightMM float64) (Section, error) {
	if widthMM <= 0 || heightMM <= 0 {
		return Section{}, fmt.Errorf("invalid section dimensions: %.0f×%.0f", widthMM, heightMM)
	}
	return makeSection(widthMM, heightMM), nil
}

func makeSection(b, h float64) Section {
	return Section{
		WidthMM:           b,
		HeightMM:          h,
		AreaMM2:           b * h,
		GrossInertiaMM4:   b * h * h * h / 12,
		SectionModulusMM3: b * h * h / 6,
		CostPerMeter:      costPerMeter(b, h),
	}
}

// costPerMeter prices one metre of member: concrete volume, steel weight at
// the fixed ratio, three-sided formwork, then the indirect factor.
func costPerMeter(b, h float64) float64 {
	vConcrete := (b / 1000) * (h / 1000) // m³/m

	asMM2 := SteelRatio * b * h
	wSteel := asMM2 * 1000 * SteelDensity / 1e9 // kg/m

	aFormwork := (b + 2*h) / 1000 // m²/m

	direct := vConcrete*ConcretePricePerM3 +
		wSteel*SteelPricePerKG +
		aFormwork*FormworkPricePerM2

	return math.Round(direct*IndirectFactor*100) / 100
}

// Len returns the number of sections.
func (c *Catalog) Len() int {
	return len(c.sections)
}

// ByIndex returns the section at idx, wrapping out-of-range indices so that
// any integer gene decodes to a valid section.
func (c *Catalog) ByIndex(idx int) Section {
	n := len(c.sections)
	idx %= n
	if idx < 0 {
		idx += n
	}
	return c.sections[idx]
}

// Sections returns a copy of the ordered section list.
func (c *Catalog) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Cost returns the composite cost of length metres of the section.
func (c *Catalog) Cost(s Section, lengthM float64) float64 {
	return s.CostPerMeter * lengthM
}

// IndexOf returns the catalog index of the section with the given
// dimensions, or -1 when no such section exists.
func (c *Catalog) IndexOf(widthMM, heightMM float64) int {
	for i, s := range c.sections {
		if s.WidthMM == widthMM && s.HeightMM == heightMM {
			return i
		}
	}
	return -1
}
