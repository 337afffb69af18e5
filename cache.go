package canopy

import (
	"errors"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of sub-graphs a Cache keeps when no size is
// given.
const DefaultCacheSize = 128

// Cache memoizes materialized sub-graphs by source identifier.
//
// The first request for a source builds it and keeps the result as a
// detached master tree, together with the diagnostics its build reported.
// Every request, including the first, returns a deep clone of the master and
// those diagnostics, so a cached node is never attached under two parents
// and every caller learns which subtrees are missing. Least recently used
// masters are evicted past the size limit; evicted and purged masters are
// disposed.
type Cache struct {
	mu     sync.Mutex
	nodes  *lru.Cache[string, *cacheEntry]
	hits   int
	misses int
}

type cacheEntry struct {
	root  *Node
	diags []Diagnostic // paths are prefixed with the source, e.g. "hud.json:$"
}

// CacheStats counts lookups since the cache was created.
type CacheStats struct {
	Hits, Misses, Len int
}

// NewCache creates a cache holding up to size sub-graphs. size <= 0 selects
// DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	nodes, err := lru.NewWithEvict(size, func(_ string, e *cacheEntry) {
		e.root.Dispose()
	})
	if err != nil {
		// Only returned for a non-positive size, excluded above.
		panic(err)
	}
	return &Cache{nodes: nodes}
}

// BuildFunc materializes one sub-graph and returns the diagnostics its build
// reported.
type BuildFunc func() (*Node, []Diagnostic, error)

// GetOrBuild returns a clone of the sub-graph cached under sourceID and the
// diagnostics recorded when it was built, calling build to create it on a
// miss. A failed build is not cached. Neither is a build that hit a
// reference cycle: its shape depends on which document was loaded first.
// build runs without the cache lock held, so it may itself request other
// sub-graphs.
func (c *Cache) GetOrBuild(sourceID string, build BuildFunc) (*Node, []Diagnostic, error) {
	c.mu.Lock()
	if e, ok := c.nodes.Get(sourceID); ok {
		c.hits++
		clone := e.root.Clone()
		c.mu.Unlock()
		return clone, slices.Clone(e.diags), nil
	}
	c.misses++
	c.mu.Unlock()

	built, diags, err := build()
	if err != nil {
		return nil, diags, err
	}
	built.RemoveFromParent()
	if slices.ContainsFunc(diags, isCycle) {
		return built, diags, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.nodes.Get(sourceID); ok {
		// Another build won the race; keep its master.
		built.Dispose()
		return e.root.Clone(), slices.Clone(e.diags), nil
	}
	c.nodes.Add(sourceID, &cacheEntry{root: built, diags: slices.Clone(diags)})
	return built.Clone(), diags, nil
}

func isCycle(d Diagnostic) bool {
	return errors.Is(d.Err, ErrReferenceCycle)
}

// Contains reports whether sourceID is cached, without touching recency.
func (c *Cache) Contains(sourceID string) bool {
	return c.nodes.Contains(sourceID)
}

// Remove drops and disposes the entry for sourceID.
func (c *Cache) Remove(sourceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes.Remove(sourceID)
}

// Keys returns the cached source identifiers, oldest first.
func (c *Cache) Keys() []string {
	return c.nodes.Keys()
}

// Len returns the number of cached sub-graphs.
func (c *Cache) Len() int {
	return c.nodes.Len()
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Len: c.nodes.Len()}
}

// Purge drops and disposes every entry. Nodes previously returned by
// GetOrBuild are clones and stay valid.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes.Purge()
}
