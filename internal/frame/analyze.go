package frame

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/gb"
	"github.com/alexiusacademia/gorcf/internal/solver"
)

// Solver runs the linear-elastic analysis. solver.DirectStiffness is the
// stock implementation; anything honoring the contract can stand in.
type Solver interface {
	Solve(solver.Model) (*solver.Result, error)
}

// Assignment maps each gene group to its decoded catalog section.
type Assignment [GroupCount]catalog.Section

// DecodeGenes resolves one catalog index per gene group into an Assignment.
// Indices outside the catalog wrap around, so every integer genotype decodes
// to a valid assignment.
func DecodeGenes(cat *catalog.Catalog, genes []int) (Assignment, error) {
	var a Assignment
	if len(genes) != GroupCount {
		return a, fmt.Errorf("genotype must carry %d genes, got %d", GroupCount, len(genes))
	}
	for i, g := range genes {
		a[i] = cat.ByIndex(g)
	}
	return a, nil
}

// SectionFor returns the section assigned to a group.
func (a Assignment) SectionFor(g Group) catalog.Section { return a[g] }

func (a Assignment) String() string {
	var b strings.Builder
	for i, g := range Groups() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", g, a[g].Name())
	}
	return b.String()
}

// AnalysisError marks a genotype whose synthesized model could not be
// analyzed. The optimizer scores such genotypes with worst-case fitness
// instead of aborting the run.
type AnalysisError struct {
	Assignment Assignment
	Combo      string
	Err        error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed under %s for %s: %v", e.Combo, e.Assignment, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// MemberForces is the demand envelope of one member across the governing
// combinations. Compression is negative.
type MemberForces struct {
	Info MemberInfo

	// Ultimate limit state.
	MomentMax float64 // kN·m, largest absolute moment
	ShearMax  float64 // kN, largest absolute shear
	AxialMin  float64 // kN, most compressive
	AxialMax  float64 // kN, most tensile

	// Serviceability.
	DeflectionM    float64 // m, midspan deflection, standard combination
	MomentQuasiMax float64 // kN·m, largest absolute moment, quasi-permanent
}

// Demands holds the member envelopes in model order.
type Demands struct {
	Members []MemberForces
}

// Analyze runs every governing combination through the solver and envelopes
// the member forces. Deterministic given identical inputs.
func Analyze(top *Topology, asn Assignment, mat gb.Material, sv Solver) (*Demands, error) {
	if sv == nil {
		sv = solver.DirectStiffness{}
	}

	grid := top.Grid()
	combos := gb.AllCombinations(grid.Wind != nil, grid.SnowLoadKNM2 > 0)

	demands := make([]MemberForces, len(top.members))
	for i, m := range top.members {
		demands[i] = MemberForces{
			Info:     m,
			AxialMin: math.Inf(1),
			AxialMax: math.Inf(-1),
		}
	}

	for _, combo := range combos {
		model := top.buildModel(asn, mat, combo)
		res, err := sv.Solve(model)
		if err != nil {
			return nil, &AnalysisError{Assignment: asn, Combo: combo.Name, Err: err}
		}
		envelopeInto(demands, res, combo)
	}

	return &Demands{Members: demands}, nil
}

// buildModel assigns stiffness from the decoded sections and factors the
// loads for one combination.
func (t *Topology) buildModel(asn Assignment, mat gb.Material, combo gb.LoadCombination) solver.Model {
	grid := t.grid
	snowKNM := combo.Snow * grid.SnowLoadKNM2 * grid.FrameSpacingM

	members := make([]solver.Member, len(t.members))
	for i, m := range t.members {
		sec := asn.SectionFor(m.Group)
		ni, nj := t.endNodes(m)

		role := catalog.RoleColumn
		var udl float64
		if m.Kind == Beam {
			role = catalog.RoleBeam
			udl = -(combo.Dead*grid.DeadLoadKNM + combo.Live*grid.LiveLoadKNM)
			if m.Group == RoofBeam {
				udl -= snowKNM
			}
		}

		members[i] = solver.Member{
			I:   ni,
			J:   nj,
			EA:  mat.Ec * sec.AreaMM2 / 1e3,
			EI:  mat.Ec * sec.EffectiveInertia(role) / 1e9,
			UDL: udl,
		}
	}

	var loads []solver.NodalLoad
	if grid.Wind != nil && combo.Wind != 0 {
		loads = t.windLoads(combo.Wind)
	}

	return solver.Model{Nodes: t.nodes, Members: members, Loads: loads}
}

// windLoads lumps the façade pressure into one point load per floor at the
// windward column line, each floor taking half the story above and below.
func (t *Topology) windLoads(factor float64) []solver.NodalLoad {
	grid := t.grid
	loads := make([]solver.NodalLoad, 0, grid.Stories())

	for level := 1; level <= grid.Stories(); level++ {
		trib := grid.StoryHeightsM[level-1] / 2
		if level < grid.Stories() {
			trib += grid.StoryHeightsM[level] / 2
		}
		wk := grid.Wind.PressureAt(grid.ElevationM(level))
		loads = append(loads, solver.NodalLoad{
			Node: t.nodeIndex(level, 0),
			FX:   factor * wk * grid.FrameSpacingM * trib,
		})
	}
	return loads
}

func envelopeInto(demands []MemberForces, res *solver.Result, combo gb.LoadCombination) {
	for i := range demands {
		mf := res.Members[i]
		d := &demands[i]

		switch combo.LimitState {
		case gb.LimitULS:
			d.MomentMax = max(d.MomentMax, mf.MaxAbsMoment)
			d.ShearMax = max(d.ShearMax, mf.MaxAbsShear)
			d.AxialMin = min(d.AxialMin, mf.Axial)
			d.AxialMax = max(d.AxialMax, mf.Axial)
		case gb.LimitSLSStandard:
			if math.Abs(mf.MidDeflection) > math.Abs(d.DeflectionM) {
				d.DeflectionM = mf.MidDeflection
			}
		case gb.LimitSLSQuasi:
			d.MomentQuasiMax = max(d.MomentQuasiMax, mf.MaxAbsMoment)
		}
	}
}
