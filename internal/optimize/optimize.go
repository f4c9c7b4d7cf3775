// Package optimize runs the genetic search over the section catalog: decode
// genes, analyze the frame, verify, penalize, breed. The adaptive penalty
// and mutation knobs travel in an explicit SearchState value rather than in
// hidden globals.
package optimize

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/frame"
	"github.com/alexiusacademia/gorcf/internal/gb"
	"github.com/alexiusacademia/gorcf/internal/verify"
)

// Config are the GA hyperparameters of one run. Zero fields take the
// defaults below.
type Config struct {
	PopulationSize int     // default 50
	Generations    int     // default 100
	CrossoverRate  float64 // default 0.8, uniform per-gene swap
	MutationRate   float64 // default 0.35, base per-gene resample rate
	PenaltyCoeff   float64 // default 1.0, initial adaptive coefficient
	PenaltyExp     float64 // default 2.0, fixed exponent alpha
	Elites         int     // default 2

	Seed int64 // 0 draws from the clock; the drawn seed lands in Result

	// Early convergence: stop once the best cost improved by less than
	// StallTolerance (relative) over the last StallWindow generations,
	// after at least MinGenerations.
	DisableEarlyStop bool
	MinGenerations   int     // default 30
	StallWindow      int     // default 20
	StallTolerance   float64 // default 0.001
}

func (c *Config) setDefaults() {
	if c.PopulationSize == 0 {
		c.PopulationSize = 50
	}
	if c.Generations == 0 {
		c.Generations = 100
	}
	if c.CrossoverRate == 0 {
		c.CrossoverRate = 0.8
	}
	if c.MutationRate == 0 {
		c.MutationRate = 0.35
	}
	if c.PenaltyCoeff == 0 {
		c.PenaltyCoeff = 1.0
	}
	if c.PenaltyExp == 0 {
		c.PenaltyExp = 2.0
	}
	if c.Elites == 0 {
		c.Elites = 2
	}
	if c.MinGenerations == 0 {
		c.MinGenerations = 30
	}
	if c.StallWindow == 0 {
		c.StallWindow = 20
	}
	if c.StallTolerance == 0 {
		c.StallTolerance = 0.001
	}
}

func (c Config) validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be at least 2, got %d", c.PopulationSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("generation budget must be positive, got %d", c.Generations)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("crossover rate must be in [0,1], got %.3f", c.CrossoverRate)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0,1], got %.3f", c.MutationRate)
	}
	if c.PenaltyCoeff <= 0 || c.PenaltyExp <= 0 {
		return errors.New("penalty coefficient and exponent must be positive")
	}
	if c.Elites < 0 || c.Elites >= c.PopulationSize {
		return fmt.Errorf("elite count must be in [0, population), got %d", c.Elites)
	}
	return nil
}

// Problem bundles the fixed inputs of one optimization run.
type Problem struct {
	Catalog  *catalog.Catalog
	Topology *frame.Topology
	Material gb.Material
	Verifier *verify.Verifier // built from Material when nil
}

// ProgressFunc receives one Snapshot per generation. It runs on the search
// goroutine; keep it cheap.
type ProgressFunc func(Snapshot)

// Option tweaks optional collaborators of the Optimizer.
type Option func(*Optimizer)

// WithLogger injects the run logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSolver swaps the analysis backend.
func WithSolver(sv frame.Solver) Option {
	return func(o *Optimizer) { o.solver = sv }
}

// WithProgress registers the per-generation callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Optimizer) { o.progress = fn }
}

// WithParallelism evaluates each generation on up to n goroutines. The
// envelope cache is pre-warmed first so evaluation stays read-only; results
// do not depend on n.
func WithParallelism(n int) Option {
	return func(o *Optimizer) {
		if n > 1 {
			o.parallel = n
		}
	}
}

// Optimizer is a configured genetic search. Create with New, run once with
// Run; the zero value is not usable.
type Optimizer struct {
	cfg      Config
	cat      *catalog.Catalog
	top      *frame.Topology
	mat      gb.Material
	verifier *verify.Verifier
	solver   frame.Solver
	log      *slog.Logger
	progress ProgressFunc
	parallel int
	rng      *rand.Rand
	seed     int64
}

// New validates the problem and hyperparameters and wires defaults.
func New(p Problem, cfg Config, opts ...Option) (*Optimizer, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if p.Catalog == nil || p.Catalog.Len() == 0 {
		return nil, errors.New("optimizer needs a non-empty catalog")
	}
	if p.Topology == nil {
		return nil, errors.New("optimizer needs a frame topology")
	}
	if p.Verifier == nil {
		p.Verifier = verify.New(verify.Params{Material: p.Material})
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	o := &Optimizer{
		cfg:      cfg,
		cat:      p.Catalog,
		top:      p.Topology,
		mat:      p.Material,
		verifier: p.Verifier,
		log:      slog.Default(),
		parallel: 1,
		rng:      rand.New(rand.NewSource(seed)),
		seed:     seed,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes the generation loop and returns the immutable result.
// Analysis failures cost a genotype its fitness, never the run.
func (o *Optimizer) Run() *Result {
	start := time.Now()
	runID := uuid.NewString()

	o.log.Info("optimization started",
		"run_id", runID,
		"population", o.cfg.PopulationSize,
		"generations", o.cfg.Generations,
		"catalog", o.cat.Len(),
		"members", o.top.MemberCount(),
		"seed", o.seed,
		"parallel", o.parallel,
	)

	if o.parallel > 1 {
		o.verifier.Cache().Prewarm(o.cat)
	}

	state := SearchState{
		PenaltyCoeff: o.cfg.PenaltyCoeff,
		MutationRate: o.cfg.MutationRate,
		BestCost:     math.Inf(1),
	}

	pop := o.seedPopulation()
	evals := o.evaluate(pop)

	var costHistory, fitnessHistory []float64
	converged := false
	generations := 0

	for gen := 1; gen <= o.cfg.Generations; gen++ {
		generations = gen
		state.Generation = gen

		fits := fitnesses(evals, state, o.cfg.PenaltyExp)
		best := argmax(fits)

		if evals[best].Cost < state.BestCost && !evals[best].Failed {
			state.BestCost = evals[best].Cost
			state.Stagnation = 0
		} else {
			state.Stagnation++
		}
		costHistory = append(costHistory, state.BestCost)
		fitnessHistory = append(fitnessHistory, fits[best])

		state = state.adapt(evals, fits, o.cfg.MutationRate)

		snap := Snapshot{
			Generation:   gen,
			BestCost:     state.BestCost,
			BestFitness:  fits[best],
			Feasible:     !evals[best].Failed && evals[best].Penalty == 0,
			FeasibleFrac: feasibleFraction(evals),
			PenaltyCoeff: state.PenaltyCoeff,
			MutationRate: state.MutationRate,
		}
		if o.progress != nil {
			o.progress(snap)
		}
		o.log.Debug("generation done",
			"gen", gen,
			"best_cost", snap.BestCost,
			"feasible_frac", snap.FeasibleFrac,
			"penalty_coeff", snap.PenaltyCoeff,
			"mutation_rate", snap.MutationRate,
		)

		if !o.cfg.DisableEarlyStop && o.convergedAt(costHistory) {
			converged = true
			break
		}
		if gen == o.cfg.Generations {
			break
		}

		pop = o.nextGeneration(pop, fits, state)
		evals = o.evaluate(pop)
	}

	res := o.buildResult(runID, pop, evals, state, costHistory, fitnessHistory)
	res.Generations = generations
	res.Converged = converged
	res.Elapsed = time.Since(start)

	o.log.Info("optimization finished",
		"run_id", runID,
		"best_cost", res.BestCost,
		"feasible", res.Feasible,
		"generations", res.Generations,
		"converged", res.Converged,
		"elapsed", res.Elapsed,
	)
	return res
}

// convergedAt applies the early-stop rule to the monotone cost history.
func (o *Optimizer) convergedAt(hist []float64) bool {
	n := len(hist)
	if n < o.cfg.MinGenerations || n <= o.cfg.StallWindow {
		return false
	}
	prev := hist[n-1-o.cfg.StallWindow]
	last := hist[n-1]
	if math.IsInf(prev, 1) || prev <= 0 {
		return false
	}
	return (prev-last)/prev < o.cfg.StallTolerance
}

func (o *Optimizer) buildResult(runID string, pop []Genotype, evals []Evaluation, state SearchState, costs, fits []float64) *Result {
	finalFits := fitnesses(evals, state, o.cfg.PenaltyExp)
	best := argmax(finalFits)

	res := &Result{
		RunID:          runID,
		Seed:           o.seed,
		BestGenes:      pop[best].Clone(),
		BestCost:       evals[best].Cost,
		Feasible:       !evals[best].Failed && evals[best].Penalty == 0,
		CostHistory:    costs,
		FitnessHistory: fits,
		State:          state,
	}

	asn, err := frame.DecodeGenes(o.cat, res.BestGenes)
	if err != nil {
		return res
	}
	res.Assignment = asn

	demands, err := frame.Analyze(o.top, asn, o.mat, o.solver)
	if err != nil {
		o.log.Warn("best genotype failed re-analysis", "err", err)
		return res
	}
	res.Demands = demands
	res.Report = o.verifier.Verify(o.top, asn, demands)
	return res
}
