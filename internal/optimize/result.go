package optimize

import (
	"time"

	"github.com/alexiusacademia/gorcf/internal/frame"
	"github.com/alexiusacademia/gorcf/internal/verify"
)

// Snapshot is the per-generation progress view handed to ProgressFunc.
type Snapshot struct {
	Generation   int
	BestCost     float64
	BestFitness  float64
	Feasible     bool
	FeasibleFrac float64
	PenaltyCoeff float64
	MutationRate float64
}

// Result is the immutable outcome of one run. Feasible reports whether the
// best genotype verified clean; an infeasible run is still a result, not an
// error.
type Result struct {
	RunID string
	Seed  int64

	BestGenes  Genotype
	Assignment frame.Assignment
	BestCost   float64
	Feasible   bool

	// Demands and Report come from re-checking the best genotype; nil when
	// even the best genotype failed analysis.
	Demands *frame.Demands
	Report  *verify.Report

	Generations int
	Converged   bool
	Elapsed     time.Duration
	State       SearchState

	// CostHistory is the running-minimum best cost per generation, so it
	// never increases. FitnessHistory is the raw per-generation best.
	CostHistory    []float64
	FitnessHistory []float64
}
