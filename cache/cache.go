// Package cache provides memoization for compilations.
// Caching pays off when the same source is compiled repeatedly, such as
// a generation loop re-reading an unchanged constraint file.
package cache

import (
	"crypto/sha256"
	"sync"

	"github.com/cdl-lang/go-cdl/ir"
)

// UnitCache caches compiled units keyed by a hash of the source text.
type UnitCache struct {
	mu        sync.RWMutex
	cache     map[[32]byte]*ir.Unit
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// New creates a cache with the specified maximum size.
// When the cache is full, an arbitrary entry is evicted.
// Set maxSize to 0 for an unlimited cache.
func New(maxSize int) *UnitCache {
	return &UnitCache{
		cache:   make(map[[32]byte]*ir.Unit),
		maxSize: maxSize,
	}
}

// Get retrieves the cached unit for the given source text.
// Returns nil if not found.
func (c *UnitCache) Get(src string) *ir.Unit {
	key := sha256.Sum256([]byte(src))

	c.mu.Lock()
	defer c.mu.Unlock()

	if unit, ok := c.cache[key]; ok {
		c.hits++
		return unit
	}
	c.misses++
	return nil
}

// Put stores a compiled unit for the given source text.
func (c *UnitCache) Put(src string, unit *ir.Unit) {
	key := sha256.Sum256([]byte(src))

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}
	c.cache[key] = unit
}

// GetOrCompile retrieves from cache or compiles and caches the result.
func (c *UnitCache) GetOrCompile(src string, compile func(string) (*ir.Unit, error)) (*ir.Unit, error) {
	if unit := c.Get(src); unit != nil {
		return unit, nil
	}
	unit, err := compile(src)
	if err != nil {
		return nil, err
	}
	c.Put(src, unit)
	return unit, nil
}

// Clear removes all entries from the cache.
func (c *UnitCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[[32]byte]*ir.Unit)
}

// Size returns the current number of cached entries.
func (c *UnitCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats describes cache effectiveness.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns cache statistics.
func (c *UnitCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
