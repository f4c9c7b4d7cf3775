package capacity

import (
	"sync"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

// Cache memoizes P-M envelopes per section identity. The search re-evaluates
// the same small catalog tens of thousands of times, so each distinct
// section is computed at most once per run. The material model and rebar
// assumption are fixed at construction; a different material means a new
// cache, never a mutated one.
//
// Access is guarded single-writer/many-reader so evaluations may also run
// from worker goroutines after (or without) a Prewarm.
type Cache struct {
	mat     gb.Material
	asTotal float64

	mu       sync.RWMutex
	entries  map[sectionKey]Envelope
	computes int
}

type sectionKey struct {
	w, h float64
}

// NewCache creates an empty envelope cache for one material model and one
// total column reinforcement.
func NewCache(mat gb.Material, asTotal float64) *Cache {
	return &Cache{
		mat:     mat,
		asTotal: asTotal,
		entries: make(map[sectionKey]Envelope),
	}
}

// GetOrCompute returns the envelope for the section, computing it on first
// access and the stored value afterwards.
func (c *Cache) GetOrCompute(sec catalog.Section) Envelope {
	key := sectionKey{w: sec.WidthMM, h: sec.HeightMM}

	c.mu.RLock()
	env, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return env
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if env, ok := c.entries[key]; ok {
		return env
	}

	env = ComputeEnvelope(sec, c.mat, c.asTotal)
	c.entries[key] = env
	c.computes++
	return env
}

// Prewarm fills the cache for every section in the catalog. Call before
// dispatching parallel evaluations so the fill path never runs concurrently.
func (c *Cache) Prewarm(cat *catalog.Catalog) {
	for i := 0; i < cat.Len(); i++ {
		c.GetOrCompute(cat.ByIndex(i))
	}
}

// Computations reports how many envelopes were actually computed.
func (c *Cache) Computations() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.computes
}

// Len reports the number of cached envelopes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
