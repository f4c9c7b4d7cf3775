package optimize

import "gonum.org/v1/gonum/stat"

// Adaptation runs every adaptInterval generations. The penalty coefficient
// tracks the feasible share of the population; the mutation rate tracks
// fitness diversity and drifts back to its base once diversity recovers.
const (
	adaptInterval = 3

	feasibleHigh = 0.7
	feasibleLow  = 0.2
	penaltyMin   = 0.5
	penaltyMax   = 3.0

	diversityLow  = 0.05
	diversityHigh = 0.3
	mutationCap   = 0.5
	mutationFloor = 0.10
)

// SearchState carries the self-tuning knobs between generations. It is a
// value: each generation derives the next state, nothing mutates in place.
type SearchState struct {
	Generation   int
	PenaltyCoeff float64
	MutationRate float64
	Stagnation   int     // generations since the best cost last improved
	BestCost     float64 // running minimum over all generations
}

// adapt returns the state for the next generation. baseMutation is the
// configured rate the mutation knob relaxes toward.
func (s SearchState) adapt(evals []Evaluation, fits []float64, baseMutation float64) SearchState {
	if s.Generation%adaptInterval != 0 {
		return s
	}

	switch frac := feasibleFraction(evals); {
	case frac > feasibleHigh:
		s.PenaltyCoeff *= 0.9
	case frac < feasibleLow:
		s.PenaltyCoeff *= 1.1
	}
	s.PenaltyCoeff = clamp(s.PenaltyCoeff, penaltyMin, penaltyMax)

	switch div := diversity(fits); {
	case div < diversityLow:
		s.MutationRate = min(s.MutationRate*1.2, mutationCap)
	case div > diversityHigh:
		s.MutationRate = max(s.MutationRate*0.85, mutationFloor)
	default:
		s.MutationRate += (baseMutation - s.MutationRate) * 0.5
	}
	return s
}

// diversity is the coefficient of variation of population fitness.
func diversity(fits []float64) float64 {
	mean := stat.Mean(fits, nil)
	if mean <= 0 {
		return 0
	}
	return stat.StdDev(fits, nil) / mean
}

func feasibleFraction(evals []Evaluation) float64 {
	if len(evals) == 0 {
		return 0
	}
	n := 0
	for _, e := range evals {
		if !e.Failed && e.Penalty == 0 {
			n++
		}
	}
	return float64(n) / float64(len(evals))
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
