package optimize

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/gorcf/internal/frame"
)

const (
	// worstFitness is scored when analysis fails, keeping the genotype
	// selectable in principle but practically never chosen.
	worstFitness = 1e-12
	fitnessEps   = 1e-9
)

// Evaluation is the state-independent score of one genotype. Fitness is
// derived later from whatever penalty coefficient the generation carries.
type Evaluation struct {
	Cost    float64 // total frame cost, yuan
	Penalty float64 // verification violation sum
	Failed  bool    // analysis did not produce demands
}

func (e Evaluation) fitness(coeff, exp float64) float64 {
	if e.Failed {
		return worstFitness
	}
	return 1 / (e.Cost*math.Pow(1+coeff*e.Penalty, exp) + fitnessEps)
}

// evaluate scores the whole population, on one goroutine or o.parallel.
// Evaluation is pure per genotype, so the result is independent of the
// worker count.
func (o *Optimizer) evaluate(pop []Genotype) []Evaluation {
	evals := make([]Evaluation, len(pop))
	if o.parallel <= 1 {
		for i, g := range pop {
			evals[i] = o.evaluateOne(g)
		}
		return evals
	}

	var grp errgroup.Group
	grp.SetLimit(o.parallel)
	for i := range pop {
		i := i // per-iteration copy; required under go <1.22 loopvar semantics
		grp.Go(func() error {
			evals[i] = o.evaluateOne(pop[i])
			return nil
		})
	}
	// Workers never return errors; failures are scored, not propagated.
	_ = grp.Wait()
	return evals
}

func (o *Optimizer) evaluateOne(genes Genotype) Evaluation {
	asn, err := frame.DecodeGenes(o.cat, genes)
	if err != nil {
		return Evaluation{Failed: true}
	}
	demands, err := frame.Analyze(o.top, asn, o.mat, o.solver)
	if err != nil {
		o.log.Debug("analysis failed", "assignment", asn.String(), "err", err)
		return Evaluation{Failed: true}
	}
	rep := o.verifier.Verify(o.top, asn, demands)
	return Evaluation{
		Cost:    o.assignmentCost(asn),
		Penalty: rep.ViolationSum,
	}
}

// assignmentCost prices every member at its group section over its length.
func (o *Optimizer) assignmentCost(asn frame.Assignment) float64 {
	total := 0.0
	for _, m := range o.top.Members() {
		total += o.cat.Cost(asn.SectionFor(m.Group), m.LengthM)
	}
	return total
}

func fitnesses(evals []Evaluation, state SearchState, exp float64) []float64 {
	fits := make([]float64, len(evals))
	for i, e := range evals {
		fits[i] = e.fitness(state.PenaltyCoeff, exp)
	}
	return fits
}

func argmax(fits []float64) int {
	best := 0
	for i, f := range fits {
		if f > fits[best] {
			best = i
		}
	}
	return best
}
