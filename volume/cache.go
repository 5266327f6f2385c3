package volume

import (
	"sync"

	"github.com/weisi/sharpsmt/polytope"
)

// Cache is spec.md §4.7's vol_map: a memo table keyed by a polytope's
// canonical form, plus the call/reuse counters the original keeps as
// solve-wide statistics. The solve loop is single-threaded (spec.md §5) but
// a mutex costs nothing and matches the teacher's habit of guarding shared
// maps even in code paths that happen to run single-threaded today.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Result
	Calls   int
	Reuses  int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Result)}
}

// Lookup returns a cached volume for p, incrementing Reuses on a hit.
func (c *Cache) Lookup(p *polytope.Polytope) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[p.Key()]
	if ok {
		c.Reuses++
	}
	return r, ok
}

// Store records p's computed volume and increments Calls, the statistic for
// a freshly computed result (a back-end invocation, or a volume the solver
// computed directly) as opposed to a cache hit.
func (c *Cache) Store(p *polytope.Polytope, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.Key()] = r
	c.Calls++
}
