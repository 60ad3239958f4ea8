package calendar

import (
	"sync"

	"github.com/warp/course-planner/generic"
)

// Cache memoizes resolved sets per selector and year window. It is the one
// piece of process-wide state; callers must Invalidate it whenever the
// underlying local holiday data changes.
type Cache struct {
	resolver *Resolver

	mu      sync.RWMutex
	entries map[cacheKey]ExcludedSet
	// generation is bumped by Invalidate; a resolve that started under an
	// older generation does not store its result.
	generation uint64
}

type cacheKey struct {
	sel   Selector
	years generic.YearRange
}

func NewCache(resolver *Resolver) *Cache {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	return &Cache{resolver: resolver, entries: make(map[cacheKey]ExcludedSet)}
}

// Resolver exposes the underlying resolver for uncached queries.
func (c *Cache) Resolver() *Resolver { return c.resolver }

// Resolve returns the cached set, resolving it on first use. Errors are not cached.
func (c *Cache) Resolve(sel Selector, years generic.YearRange) (ExcludedSet, error) {
	key := cacheKey{sel: sel.Normalize(), years: years}

	c.mu.RLock()
	set, ok := c.entries[key]
	gen := c.generation
	c.mu.RUnlock()
	if ok {
		return set, nil
	}

	set, err := c.resolver.Resolve(key.sel, years)
	if err != nil {
		return ExcludedSet{}, err
	}

	c.mu.Lock()
	if c.generation == gen {
		c.entries[key] = set
	}
	c.mu.Unlock()
	return set, nil
}

// Invalidate drops every cached set, including results still being resolved.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]ExcludedSet)
	c.generation++
	c.mu.Unlock()
}

// Len is the number of cached sets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
