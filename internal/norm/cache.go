package norm

import (
	"fmt"
	"sync"
	"time"
)

// cacheEntry holds one computed table until it expires. A nil table is a
// cached "no norm available" outcome, so a failing site is not re-sampled
// on every dashboard cycle.
type cacheEntry struct {
	table     Table
	expiresAt time.Time
}

// tableCache memoizes norm tables per site with a TTL. Norm tables are
// expensive (dozens of provider calls each), so the aggregator owns this
// cache explicitly rather than leaning on any ambient caching.
type tableCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	hits    int
	misses  int
	now     func() time.Time
}

func newTableCache(ttl time.Duration) *tableCache {
	return &tableCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// siteKey builds the cache key from everything the table depends on.
func siteKey(site Site) string {
	return fmt.Sprintf("%s:%.4f:%.4f:%.4f", site.Name, site.CapacityGW, site.Latitude, site.Longitude)
}

// get returns the cached table for a key when present and fresh.
func (c *tableCache) get(key string) (Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.table, true
}

// put stores a computed table (or a nil absence marker) under a key.
func (c *tableCache) put(key string, table Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		table:     table,
		expiresAt: c.now().Add(c.ttl),
	}
}

// stats returns cumulative hit and miss counts.
func (c *tableCache) stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
