package optimize

import (
	"math/rand"
	"sort"

	"github.com/alexiusacademia/gorcf/internal/frame"
)

// Genotype holds one catalog index per gene group, in frame.Group order.
type Genotype []int

// Clone returns an independent copy.
func (g Genotype) Clone() Genotype {
	out := make(Genotype, len(g))
	copy(out, g)
	return out
}

// seedPopulation draws the initial population uniformly over the catalog.
func (o *Optimizer) seedPopulation() []Genotype {
	pop := make([]Genotype, o.cfg.PopulationSize)
	for i := range pop {
		genes := make(Genotype, frame.GroupCount)
		for j := range genes {
			genes[j] = o.rng.Intn(o.cat.Len())
		}
		pop[i] = genes
	}
	return pop
}

// nextGeneration breeds a full replacement population: elites copied
// verbatim, the rest from roulette parents through crossover and mutation.
func (o *Optimizer) nextGeneration(pop []Genotype, fits []float64, state SearchState) []Genotype {
	next := make([]Genotype, 0, len(pop))

	for _, i := range topIndices(fits, o.cfg.Elites) {
		next = append(next, pop[i].Clone())
	}

	wheel := newRoulette(fits)
	for len(next) < len(pop) {
		a := pop[wheel.pick(o.rng)]
		b := pop[wheel.pick(o.rng)]
		c1, c2 := o.crossover(a, b)
		o.mutate(c1, state.MutationRate)
		o.mutate(c2, state.MutationRate)
		next = append(next, c1)
		if len(next) < len(pop) {
			next = append(next, c2)
		}
	}
	return next
}

// crossover clones both parents and, at the configured rate, swaps each gene
// with probability one half.
func (o *Optimizer) crossover(a, b Genotype) (Genotype, Genotype) {
	c1, c2 := a.Clone(), b.Clone()
	if o.rng.Float64() >= o.cfg.CrossoverRate {
		return c1, c2
	}
	for i := range c1 {
		if o.rng.Float64() < 0.5 {
			c1[i], c2[i] = c2[i], c1[i]
		}
	}
	return c1, c2
}

// mutate resamples each gene from the whole catalog at the current rate.
func (o *Optimizer) mutate(g Genotype, rate float64) {
	for i := range g {
		if o.rng.Float64() < rate {
			g[i] = o.rng.Intn(o.cat.Len())
		}
	}
}

// topIndices returns the indices of the n largest fitness values.
func topIndices(fits []float64, n int) []int {
	order := make([]int, len(fits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return fits[order[a]] > fits[order[b]] })
	if n > len(order) {
		n = len(order)
	}
	return order[:n]
}

// roulette is a cumulative fitness wheel.
type roulette struct {
	cum   []float64
	total float64
}

func newRoulette(fits []float64) roulette {
	cum := make([]float64, len(fits))
	total := 0.0
	for i, f := range fits {
		total += f
		cum[i] = total
	}
	return roulette{cum: cum, total: total}
}

func (r roulette) pick(rng *rand.Rand) int {
	if r.total <= 0 {
		return rng.Intn(len(r.cum))
	}
	x := rng.Float64() * r.total
	idx := sort.SearchFloat64s(r.cum, x)
	if idx >= len(r.cum) {
		idx = len(r.cum) - 1
	}
	return idx
}
