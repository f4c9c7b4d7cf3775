package optimize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/frame"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

func portalProblem(t *testing.T, spans, stories int) Problem {
	t.Helper()
	grid := frame.Grid{
		SpansM:        repeatF(6, spans),
		StoryHeightsM: repeatF(3, stories),
		DeadLoadKNM:   20,
		LiveLoadKNM:   10,
	}
	top, err := frame.NewTopology(grid)
	require.NoError(t, err)
	return Problem{
		Catalog:  catalog.Default(),
		Topology: top,
		Material: gb.C30HRB400(),
	}
}

func repeatF(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// evalMix fabricates a population score sheet with the given feasible and
// violated counts, all at the same cost.
func evalMix(feasible, violated int) []Evaluation {
	evals := make([]Evaluation, 0, feasible+violated)
	for i := 0; i < feasible; i++ {
		evals = append(evals, Evaluation{Cost: 1000})
	}
	for i := 0; i < violated; i++ {
		evals = append(evals, Evaluation{Cost: 1000, Penalty: 2})
	}
	return evals
}

// midFits has a fitness coefficient of variation near 0.08, inside the band
// where the mutation rate only drifts back to its base.
var midFits = []float64{1.0, 1.1, 0.9, 1.05, 0.95}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.setDefaults()

	assert.Equal(t, 50, c.PopulationSize)
	assert.Equal(t, 100, c.Generations)
	assert.Equal(t, 0.8, c.CrossoverRate)
	assert.Equal(t, 0.35, c.MutationRate)
	assert.Equal(t, 1.0, c.PenaltyCoeff)
	assert.Equal(t, 2.0, c.PenaltyExp)
	assert.Equal(t, 2, c.Elites)
	assert.Equal(t, 30, c.MinGenerations)
	assert.Equal(t, 20, c.StallWindow)
	assert.Equal(t, 0.001, c.StallTolerance)
	assert.False(t, c.DisableEarlyStop)
}

func TestNewValidation(t *testing.T) {
	p := portalProblem(t, 1, 1)

	tests := []struct {
		name string
		prob Problem
		cfg  Config
		want string
	}{
		{"tiny population", p, Config{PopulationSize: 1}, "population size"},
		{"negative generations", p, Config{Generations: -1}, "generation budget"},
		{"crossover out of range", p, Config{CrossoverRate: 1.5}, "crossover rate"},
		{"negative mutation", p, Config{MutationRate: -0.1}, "mutation rate"},
		{"bad penalty exponent", p, Config{PenaltyExp: -2}, "penalty"},
		{"too many elites", p, Config{PopulationSize: 4, Elites: 5}, "elite count"},
		{"missing catalog", Problem{Topology: p.Topology}, Config{}, "catalog"},
		{"missing topology", Problem{Catalog: p.Catalog}, Config{}, "topology"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.prob, tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	o, err := New(p, Config{Seed: 1}, WithLogger(nil), WithParallelism(0))
	require.NoError(t, err)
	assert.NotNil(t, o.log)
	assert.Equal(t, 1, o.parallel)
}

func TestFitnessOrdering(t *testing.T) {
	clean := Evaluation{Cost: 1000}
	dearer := Evaluation{Cost: 2000}
	dirty := Evaluation{Cost: 1000, Penalty: 0.5}
	failed := Evaluation{Failed: true}

	assert.InEpsilon(t, 1.0/1000, clean.fitness(1, 2), 1e-9)
	assert.InEpsilon(t, 1.0/2250, dirty.fitness(1, 2), 1e-9)

	assert.Greater(t, clean.fitness(1, 2), dearer.fitness(1, 2))
	assert.Greater(t, clean.fitness(1, 2), dirty.fitness(1, 2))

	// A harsher coefficient or exponent punishes the same violation more.
	assert.Less(t, dirty.fitness(2, 2), dirty.fitness(1, 2))
	assert.Less(t, dirty.fitness(1, 3), dirty.fitness(1, 2))

	assert.Equal(t, worstFitness, failed.fitness(1, 2))
	assert.Less(t, failed.fitness(1, 2), dirty.fitness(2, 2))
}

func TestAdaptPenaltyCoefficient(t *testing.T) {
	base := SearchState{Generation: 3, PenaltyCoeff: 1.0, MutationRate: 0.35}

	t.Run("relaxes when mostly feasible", func(t *testing.T) {
		next := base.adapt(evalMix(8, 2), midFits, 0.35)
		assert.InDelta(t, 0.9, next.PenaltyCoeff, 1e-9)
	})
	t.Run("tightens when mostly violated", func(t *testing.T) {
		next := base.adapt(evalMix(1, 9), midFits, 0.35)
		assert.InDelta(t, 1.1, next.PenaltyCoeff, 1e-9)
	})
	t.Run("holds in the middle band", func(t *testing.T) {
		next := base.adapt(evalMix(5, 5), midFits, 0.35)
		assert.InDelta(t, 1.0, next.PenaltyCoeff, 1e-9)
	})
	t.Run("clamps at the floor", func(t *testing.T) {
		s := base
		s.PenaltyCoeff = 0.52
		next := s.adapt(evalMix(10, 0), midFits, 0.35)
		assert.InDelta(t, penaltyMin, next.PenaltyCoeff, 1e-9)
	})
	t.Run("clamps at the ceiling", func(t *testing.T) {
		s := base
		s.PenaltyCoeff = 2.9
		next := s.adapt(evalMix(0, 10), midFits, 0.35)
		assert.InDelta(t, penaltyMax, next.PenaltyCoeff, 1e-9)
	})
	t.Run("failed analyses count as violated", func(t *testing.T) {
		evals := evalMix(1, 0)
		for i := 0; i < 5; i++ {
			evals = append(evals, Evaluation{Failed: true})
		}
		next := base.adapt(evals, midFits, 0.35)
		assert.InDelta(t, 1.1, next.PenaltyCoeff, 1e-9)
	})
}

func TestAdaptMutationRate(t *testing.T) {
	flat := []float64{2, 2, 2, 2, 2}
	spread := []float64{1, 2, 3, 4, 5}
	balanced := evalMix(5, 5)

	base := SearchState{Generation: 3, PenaltyCoeff: 1.0, MutationRate: 0.35}

	t.Run("rises when diversity collapses", func(t *testing.T) {
		next := base.adapt(balanced, flat, 0.35)
		assert.InDelta(t, 0.42, next.MutationRate, 1e-9)
	})
	t.Run("caps at the ceiling", func(t *testing.T) {
		s := base
		s.MutationRate = 0.45
		next := s.adapt(balanced, flat, 0.35)
		assert.InDelta(t, mutationCap, next.MutationRate, 1e-9)
	})
	t.Run("falls when diversity is high", func(t *testing.T) {
		next := base.adapt(balanced, spread, 0.35)
		assert.InDelta(t, 0.2975, next.MutationRate, 1e-9)
	})
	t.Run("floors at the minimum", func(t *testing.T) {
		s := base
		s.MutationRate = 0.11
		next := s.adapt(balanced, spread, 0.35)
		assert.InDelta(t, mutationFloor, next.MutationRate, 1e-9)
	})
	t.Run("drifts back to base once diversity recovers", func(t *testing.T) {
		s := base
		s.MutationRate = 0.5
		next := s.adapt(balanced, midFits, 0.35)
		assert.InDelta(t, 0.425, next.MutationRate, 1e-9)
	})
}

func TestAdaptSkipsOffInterval(t *testing.T) {
	for _, gen := range []int{1, 2, 4, 7} {
		s := SearchState{Generation: gen, PenaltyCoeff: 1.0, MutationRate: 0.35}
		next := s.adapt(evalMix(0, 10), []float64{2, 2, 2}, 0.35)
		assert.Equal(t, s, next, "generation %d must not adapt", gen)
	}
}

func TestRouletteFavorsFitter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	wheel := newRoulette([]float64{worstFitness, worstFitness, 1.0})

	counts := make(map[int]int)
	for i := 0; i < 200; i++ {
		idx := wheel.pick(rng)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 3)
		counts[idx]++
	}
	assert.GreaterOrEqual(t, counts[2], 198, "fitness mass sits almost entirely on index 2")

	// A dead wheel falls back to a uniform draw.
	dead := newRoulette(make([]float64, 3))
	for i := 0; i < 30; i++ {
		idx := dead.pick(rng)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 3)
	}
}

func TestTopIndices(t *testing.T) {
	fits := []float64{0.1, 5, 3, 4}

	assert.Equal(t, []int{1}, topIndices(fits, 1))
	assert.ElementsMatch(t, []int{1, 3}, topIndices(fits, 2))
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, topIndices(fits, 9))
}

func TestCrossoverMixesGenes(t *testing.T) {
	a := Genotype{0, 1, 2, 3, 4, 5}
	b := Genotype{10, 11, 12, 13, 14, 15}

	always := &Optimizer{cfg: Config{CrossoverRate: 1}, rng: rand.New(rand.NewSource(11))}
	c1, c2 := always.crossover(a, b)
	for i := range c1 {
		assert.Contains(t, []int{a[i], b[i]}, c1[i])
		assert.Equal(t, a[i]+b[i], c1[i]+c2[i], "gene %d must conserve the pair", i)
	}
	assert.Equal(t, Genotype{0, 1, 2, 3, 4, 5}, a, "parents stay untouched")
	assert.Equal(t, Genotype{10, 11, 12, 13, 14, 15}, b)

	never := &Optimizer{cfg: Config{CrossoverRate: 0}, rng: rand.New(rand.NewSource(11))}
	c3, c4 := never.crossover(a, b)
	assert.Equal(t, a, c3)
	assert.Equal(t, b, c4)
}

func TestMutationBounds(t *testing.T) {
	cat := catalog.Default()
	o := &Optimizer{cat: cat, rng: rand.New(rand.NewSource(2))}

	g := Genotype{1, 2, 3, 4, 5, 6}
	o.mutate(g, 0)
	assert.Equal(t, Genotype{1, 2, 3, 4, 5, 6}, g)

	o.mutate(g, 1)
	for i, gene := range g {
		assert.GreaterOrEqual(t, gene, 0, "gene %d", i)
		assert.Less(t, gene, cat.Len(), "gene %d", i)
	}
}

func TestAssignmentCost(t *testing.T) {
	p := portalProblem(t, 1, 1)
	o, err := New(p, Config{Seed: 1})
	require.NoError(t, err)

	idx := p.Catalog.IndexOf(300, 600)
	require.GreaterOrEqual(t, idx, 0)
	genes := make(Genotype, frame.GroupCount)
	for i := range genes {
		genes[i] = idx
	}
	asn, err := frame.DecodeGenes(p.Catalog, genes)
	require.NoError(t, err)

	sec := p.Catalog.ByIndex(idx)
	want := p.Catalog.Cost(sec, 6) + 2*p.Catalog.Cost(sec, 3)
	assert.InDelta(t, want, o.assignmentCost(asn), 1e-9)
}

func TestRunFindsFeasiblePortal(t *testing.T) {
	p := portalProblem(t, 1, 1)

	var snaps []Snapshot
	o, err := New(p, Config{PopulationSize: 60, Generations: 80, Seed: 3},
		WithProgress(func(s Snapshot) { snaps = append(snaps, s) }))
	require.NoError(t, err)

	res := o.Run()
	require.NotNil(t, res)

	assert.True(t, res.Feasible, "a one-bay portal must verify clean within the budget")
	require.NotNil(t, res.Report)
	assert.True(t, res.Report.Feasible())
	assert.Zero(t, res.Report.ViolationSum)
	require.NotNil(t, res.Demands)

	assert.Positive(t, res.BestCost)
	assert.Len(t, res.BestGenes, frame.GroupCount)
	assert.NotEmpty(t, res.RunID)
	assert.EqualValues(t, 3, res.Seed)
	assert.Positive(t, res.Assignment.SectionFor(frame.RoofBeam).AreaMM2)
	assert.Positive(t, res.Assignment.SectionFor(frame.BottomColumn).AreaMM2)

	assert.LessOrEqual(t, res.Generations, 80)
	assert.Len(t, snaps, res.Generations)
	assert.Len(t, res.CostHistory, res.Generations)
	assert.Len(t, res.FitnessHistory, res.Generations)
	for i := 1; i < len(res.CostHistory); i++ {
		assert.LessOrEqual(t, res.CostHistory[i], res.CostHistory[i-1], "best cost never regresses")
	}
	assert.Positive(t, res.Elapsed)
}

func TestRunConvergesTwoSpanThreeStory(t *testing.T) {
	if testing.Short() {
		t.Skip("full-budget search")
	}

	p := portalProblem(t, 2, 3)
	cfg := Config{
		PopulationSize:   120,
		Generations:      160,
		Seed:             7,
		DisableEarlyStop: true,
	}

	o, err := New(p, cfg)
	require.NoError(t, err)
	res := o.Run()

	require.True(t, res.Feasible, "the default catalog holds feasible designs for this grid")
	require.NotNil(t, res.Report)
	assert.Zero(t, res.Report.ViolationSum)
	assert.Empty(t, res.Report.Failures())
	assert.Positive(t, res.BestCost)
	assert.Len(t, res.BestGenes, frame.GroupCount)
	assert.Equal(t, 160, res.Generations)
	for i := 1; i < len(res.CostHistory); i++ {
		assert.LessOrEqual(t, res.CostHistory[i], res.CostHistory[i-1])
	}

	// Same seed, same search, worker count notwithstanding.
	again, err := New(p, cfg, WithParallelism(6))
	require.NoError(t, err)
	res2 := again.Run()
	assert.Equal(t, res.BestGenes, res2.BestGenes)
	assert.Equal(t, res.BestCost, res2.BestCost)
	require.NotNil(t, res2.Report)
	assert.Zero(t, res2.Report.ViolationSum)
}

func TestRunHonorsGenerationBudget(t *testing.T) {
	// Nothing in a 250-deep catalog survives a 6 m frame: the run must end
	// infeasible after exactly the configured generations, with the penalty
	// coefficient tightened at every third generation.
	small, err := catalog.New(200, 250, 300, 350, 50)
	require.NoError(t, err)

	p := portalProblem(t, 1, 1)
	p.Catalog = small

	o, err := New(p, Config{PopulationSize: 10, Generations: 12, Seed: 5})
	require.NoError(t, err)

	res := o.Run()
	assert.False(t, res.Feasible)
	require.NotNil(t, res.Report)
	assert.False(t, res.Report.Feasible())
	assert.Positive(t, res.Report.ViolationSum)

	assert.Equal(t, 12, res.Generations)
	assert.False(t, res.Converged)
	assert.Len(t, res.CostHistory, 12)
	assert.Len(t, res.FitnessHistory, 12)
	assert.Positive(t, res.BestCost)
	for i := 1; i < len(res.CostHistory); i++ {
		assert.LessOrEqual(t, res.CostHistory[i], res.CostHistory[i-1])
	}

	// Four adaptation ticks at zero feasibility: 1.1^4.
	assert.InDelta(t, 1.4641, res.State.PenaltyCoeff, 1e-9)
}

func TestRunDeterministicAcrossParallelism(t *testing.T) {
	p := portalProblem(t, 1, 1)
	cfg := Config{PopulationSize: 12, Generations: 8, Seed: 9}

	serial, err := New(p, cfg)
	require.NoError(t, err)
	parallel, err := New(p, cfg, WithParallelism(4))
	require.NoError(t, err)

	a := serial.Run()
	b := parallel.Run()

	assert.Equal(t, a.BestGenes, b.BestGenes)
	assert.Equal(t, a.BestCost, b.BestCost)
	assert.Equal(t, a.Feasible, b.Feasible)
	assert.Equal(t, a.CostHistory, b.CostHistory)
	assert.Equal(t, a.FitnessHistory, b.FitnessHistory)
	assert.NotEqual(t, a.RunID, b.RunID, "each run gets its own id")
}

func TestEarlyStopOnStall(t *testing.T) {
	// A one-section catalog pins every genotype to the same cost, so the
	// stall rule must fire at the earliest generation it is allowed to.
	single, err := catalog.New(300, 300, 600, 600, 50)
	require.NoError(t, err)
	require.Equal(t, 1, single.Len())

	p := portalProblem(t, 1, 1)
	p.Catalog = single

	o, err := New(p, Config{
		PopulationSize: 6,
		Generations:    40,
		Seed:           2,
		MinGenerations: 6,
		StallWindow:    4,
	})
	require.NoError(t, err)

	res := o.Run()
	assert.True(t, res.Converged)
	assert.Equal(t, 6, res.Generations)
	assert.Equal(t, res.CostHistory[0], res.CostHistory[len(res.CostHistory)-1])
}
