package main

import (
	"sync"
	"time"
)

// SnapshotCache memoizes fetched source tables so repeated report runs within
// the TTL skip refetching. Get returns only entries still inside the TTL;
// Invalidate drops everything so the next load refetches from scratch.
// Recomputing after a lost race is fine, so implementations only need enough
// locking to keep their own state consistent.
type SnapshotCache interface {
	Get(key string) (Table, bool)
	Put(key string, t Table, fetchedAt time.Time)
	Invalidate() error
}

type cacheEntry struct {
	table     Table
	fetchedAt time.Time
}

// MemoryCache is the default in-process SnapshotCache. A TTL of zero disables
// caching entirely: every Get misses.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *MemoryCache) Get(key string) (Table, bool) {
	if c.ttl <= 0 {
		return Table{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) > c.ttl {
		return Table{}, false
	}
	return e.table, true
}

func (c *MemoryCache) Put(key string, t Table, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{table: t, fetchedAt: fetchedAt}
}

func (c *MemoryCache) Invalidate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	return nil
}
