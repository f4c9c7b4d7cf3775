// Package verify checks enveloped member demands against section capacities
// and the frame topology rules, and condenses the outcome into a single
// violation magnitude for the optimizer to penalize.
package verify

import (
	"math"

	"github.com/alexiusacademia/gorcf/internal/capacity"
	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/frame"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

// Violation weights and limits. Strength overages count at full weight,
// stability-critical column checks double, serviceability at half.
const (
	pmWeight   = 2.0
	pmFallback = 1.0 // axial demand beyond the envelope's reach

	axialRatioLimit = 0.9
	axialWeight     = 2.0

	storyAreaRatioMin = 0.8
	storyAreaWeight   = 2.0
	continuityWeight  = 1.5

	deflectionWeight = 0.5
	crackWeight      = 0.5

	beamRhoMax   = 0.025
	columnRhoMin = 0.006
	columnRhoMax = 0.05
	rhoMinWeight = 0.3
	rhoMaxWeight = 0.5
)

// Params carry the fixed verification inputs of a run. Zero fields fall
// back to the library defaults.
type Params struct {
	Material    gb.Material
	BeamAsMM2   float64 // tension steel assumed in every beam
	ColumnAsMM2 float64 // total steel assumed in every column
	BarDiaMM    float64 // equivalent bar diameter for crack width
	Stirrup     capacity.Stirrup
	Exposure    Exposure
	Cache       *capacity.Cache // shared envelope cache, built fresh when nil
}

// Verifier runs the member and story checks for one set of params.
type Verifier struct {
	p Params
}

// New fills defaults and returns a ready Verifier.
func New(p Params) *Verifier {
	if p.BeamAsMM2 == 0 {
		p.BeamAsMM2 = capacity.DefaultBeamAsMM2
	}
	if p.ColumnAsMM2 == 0 {
		p.ColumnAsMM2 = capacity.DefaultColumnAsMM2
	}
	if p.BarDiaMM == 0 {
		p.BarDiaMM = capacity.DefaultBarDiaMM
	}
	if p.Stirrup == (capacity.Stirrup{}) {
		p.Stirrup = capacity.DefaultStirrup()
	}
	if p.Exposure == "" {
		p.Exposure = ExposureI
	}
	if p.Cache == nil {
		p.Cache = capacity.NewCache(p.Material, p.ColumnAsMM2)
	}
	return &Verifier{p: p}
}

// Cache exposes the envelope cache the verifier resolves columns against.
func (v *Verifier) Cache() *capacity.Cache { return v.p.Cache }

// Verify checks every member demand and the story-level topology rules.
// The report's ViolationSum is zero exactly when the assignment is feasible.
func (v *Verifier) Verify(top *frame.Topology, asn frame.Assignment, demands *frame.Demands) *Report {
	rep := &Report{}

	for i := range demands.Members {
		d := &demands.Members[i]
		sec := asn.SectionFor(d.Info.Group)
		if d.Info.Kind == frame.Beam {
			v.checkBeam(rep, top.Grid(), d, sec)
		} else {
			v.checkColumn(rep, d, sec)
		}
	}

	v.checkStoryAreas(rep, top, asn)
	v.checkColumnContinuity(rep, top, asn)
	return rep
}

func (v *Verifier) checkBeam(rep *Report, grid frame.Grid, d *frame.MemberForces, sec catalog.Section) {
	mat := v.p.Material
	label := d.Info.Label()
	story := d.Info.Story

	mcap := capacity.DesignMoment(sec, mat, v.p.BeamAsMM2, 0)
	rep.add(strengthRecord(CheckFlexure, label, story, d.MomentMax, mcap, 1.0))

	vcap := capacity.DesignShear(sec, mat, v.p.Stirrup)
	rep.add(strengthRecord(CheckShear, label, story, d.ShearMax, vcap, 1.0))

	// Deflection: simply-supported estimate under the standard SLS line
	// load, conservative for a continuous frame beam. q in kN/m equals
	// N/mm, so the estimate comes out in mm directly.
	q := grid.DeadLoadKNM + grid.LiveLoadKNM
	if d.Info.Group == frame.RoofBeam {
		q += gb.PsiCSnow * grid.SnowLoadKNM2 * grid.FrameSpacingM
	}
	spanMM := d.Info.LengthM * 1000
	defl := 5 * q * math.Pow(spanMM, 4) / (384 * mat.Ec * sec.EffectiveInertia(catalog.RoleBeam))
	limit := spanMM / 200
	if spanMM > 7000 {
		limit = spanMM / 250
	}
	rep.add(Record{
		Check: CheckDeflection, Member: label, Story: story,
		Demand: defl, Capacity: limit, Ratio: defl / limit,
		Violation: overage(defl/limit) * deflectionWeight,
	})

	width := crackWidthMM(sec, mat, v.p.BeamAsMM2, v.p.BarDiaMM, d.MomentQuasiMax)
	wLimit := v.p.Exposure.CrackLimitMM()
	rep.add(Record{
		Check: CheckCrackWidth, Member: label, Story: story,
		Demand: width, Capacity: wLimit, Ratio: width / wLimit,
		Violation: overage(width/wLimit) * crackWeight,
	})

	rho := v.p.BeamAsMM2 / (sec.WidthMM * gb.EffectiveDepth(sec.HeightMM))
	rhoMin := math.Max(0.002, 0.45*mat.Ft/mat.Fy)
	rep.add(steelRatioRecord(label, story, rho, rhoMin, beamRhoMax))
}

func (v *Verifier) checkColumn(rep *Report, d *frame.MemberForces, sec catalog.Section) {
	mat := v.p.Material
	label := d.Info.Label()
	story := d.Info.Story
	env := v.p.Cache.GetOrCompute(sec)

	// The enveloped moment is checked against both axial extremes; the
	// worse case governs.
	comp := pmRecord(env, label, story, -d.AxialMin, d.MomentMax)
	tens := pmRecord(env, label, story, -d.AxialMax, d.MomentMax)
	governing := comp
	if tens.Violation > governing.Violation ||
		(tens.Violation == governing.Violation && tens.Ratio > governing.Ratio) {
		governing = tens
	}
	rep.add(governing)

	n := -d.AxialMin // kN, compression positive here
	ratio := n * 1000 / (mat.Fc * sec.AreaMM2)
	rep.add(Record{
		Check: CheckAxialRatio, Member: label, Story: story,
		Demand: ratio, Capacity: axialRatioLimit, Ratio: ratio / axialRatioLimit,
		Violation: math.Max(0, ratio-axialRatioLimit) * axialWeight,
	})

	rho := v.p.ColumnAsMM2 / sec.AreaMM2
	rep.add(steelRatioRecord(label, story, rho, columnRhoMin, columnRhoMax))
}

// pmRecord scores one (P, M) demand pair against the column envelope.
func pmRecord(env capacity.Envelope, label string, story int, p, m float64) Record {
	rec := Record{Check: CheckPMEnvelope, Member: label, Story: story, Demand: m}

	if p > env.PureCompression().P || p < env.PureTension().P {
		rec.Ratio = math.Inf(1)
		rec.Violation = pmFallback
		return rec
	}

	mcap := env.CapacityAt(p)
	rec.Capacity = mcap
	if mcap <= 0 {
		if m > 0 {
			rec.Ratio = math.Inf(1)
			rec.Violation = pmFallback
		}
		return rec
	}

	rec.Ratio = m / mcap
	rec.Violation = overage(rec.Ratio) * pmWeight
	return rec
}

// checkStoryAreas enforces the strong-column rule: per story, aggregate
// column area at least 0.8 times aggregate beam area.
func (v *Verifier) checkStoryAreas(rep *Report, top *frame.Topology, asn frame.Assignment) {
	for s := 1; s <= top.Grid().Stories(); s++ {
		var beamA, colA float64
		for _, m := range top.Members() {
			if m.Story != s {
				continue
			}
			a := asn.SectionFor(m.Group).AreaMM2
			if m.Kind == frame.Beam {
				beamA += a
			} else {
				colA += a
			}
		}
		if beamA == 0 {
			continue
		}
		ratio := colA / beamA
		rep.add(Record{
			Check: CheckStoryArea, Story: s,
			Demand: ratio, Capacity: storyAreaRatioMin, Ratio: ratio / storyAreaRatioMin,
			Violation: math.Max(0, storyAreaRatioMin-ratio) * storyAreaWeight,
		})
	}
}

// checkColumnContinuity flags columns that out-size the column directly
// below them. Columns are column-major in the member layout, so the member
// one index back is the story below on the same line.
func (v *Verifier) checkColumnContinuity(rep *Report, top *frame.Topology, asn frame.Assignment) {
	members := top.Members()
	for i := top.BeamCount(); i < len(members); i++ {
		m := members[i]
		if m.Story == 1 {
			continue
		}
		upper := asn.SectionFor(m.Group).AreaMM2
		lower := asn.SectionFor(members[i-1].Group).AreaMM2
		ratio := upper / lower
		rep.add(Record{
			Check: CheckColumnContinuity, Member: m.Label(), Story: m.Story,
			Demand: ratio, Capacity: 1.0, Ratio: ratio,
			Violation: overage(ratio) * continuityWeight,
		})
	}
}

func strengthRecord(check Check, label string, story int, demand, allowed, weight float64) Record {
	var ratio float64
	if allowed > 0 {
		ratio = demand / allowed
	} else if demand > 0 {
		ratio = math.Inf(1)
	}
	return Record{
		Check: check, Member: label, Story: story,
		Demand: demand, Capacity: allowed, Ratio: ratio,
		Violation: overage(ratio) * weight,
	}
}

func steelRatioRecord(label string, story int, rho, rhoMin, rhoMax float64) Record {
	rec := Record{
		Check: CheckSteelRatio, Member: label, Story: story,
		Demand: rho, Capacity: rhoMax, Ratio: rho / rhoMax,
	}
	switch {
	case rho < rhoMin:
		rec.Capacity = rhoMin
		rec.Ratio = rho / rhoMin
		rec.Violation = (rhoMin - rho) / rhoMin * rhoMinWeight
	case rho > rhoMax:
		rec.Violation = (rho - rhoMax) / rhoMax * rhoMaxWeight
	}
	return rec
}

func overage(ratio float64) float64 {
	return math.Max(0, ratio-1)
}
