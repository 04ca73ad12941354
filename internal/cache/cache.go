// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

// Package cache provides the in-memory TTL cache used for aggregation lookups
// (the unit and nutrient catalog) and for memoized authorization decisions.
//
// Entries are dropped wholesale when master data changes: writers call Clear,
// Delete or DeletePrefix, so a cached catalog is never older than the last
// committed write.
//
//	c := cache.New("catalog", 5*time.Minute)
//	defer c.Close()
//
//	cat, err := cache.GetOrLoad(c, "catalog", func() (*models.Catalog, error) {
//	    return db.LoadCatalog(ctx)
//	})
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/nutrimaster/internal/metrics"
)

// sweepInterval is how often expired entries are purged in the background.
const sweepInterval = 5 * time.Minute

type entry struct {
	value   any
	expires time.Time
}

// Cache is a concurrency-safe map with per-entry expiry. Hits, misses and
// invalidations are exported as Prometheus counters labelled with the
// cache name.
type Cache struct {
	name string
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	hits, misses, evictions, invalidations atomic.Int64

	done      chan struct{}
	closeOnce sync.Once
}

// Stats is a point-in-time view of a cache's counters.
type Stats struct {
	Hits          int64
	Misses        int64
	Evictions     int64
	Invalidations int64
	Keys          int
}

// New returns a cache whose entries live for ttl. A goroutine sweeps
// expired entries until Close.
func New(name string, ttl time.Duration) *Cache {
	c := &Cache{
		name:    name,
		ttl:     ttl,
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

func (c *Cache) Name() string { return c.name }

// Get returns the value under key. An expired entry is removed and counts
// as a miss.
func (c *Cache) Get(key string) (any, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && now.Before(e.expires) {
		c.hits.Add(1)
		metrics.CacheHits.WithLabelValues(c.name).Inc()
		return e.value, true
	}
	if ok {
		c.mu.Lock()
		// Only drop the entry if nobody refreshed it meanwhile.
		if cur, still := c.entries[key]; still && !now.Before(cur.expires) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
	}
	c.misses.Add(1)
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
	return nil, false
}

// Set stores value for the cache TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// DeletePrefix drops every key starting with prefix and reports how many
// went. It counts as one invalidation.
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	n := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			n++
		}
	}
	c.mu.Unlock()
	c.invalidated()
	return n
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
	c.invalidated()
}

func (c *Cache) invalidated() {
	c.invalidations.Add(1)
	metrics.CacheInvalidations.WithLabelValues(c.name).Inc()
}

// Len counts stored entries, expired ones not yet swept included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Evictions:     c.evictions.Load(),
		Invalidations: c.invalidations.Load(),
		Keys:          c.Len(),
	}
}

// HitRate is hits as a percentage of lookups, 0 before the first lookup.
func (c *Cache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) * 100 / float64(hits+misses)
}

// Close stops the sweeper. Calling it again is a no-op.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Cache) sweepLoop() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case now := <-t.C:
			c.sweep(now)
		}
	}
}

func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
	}
}

// GetOrLoad returns the value cached under key, or calls load and caches a
// successful result. A cached value of another type is reloaded.
func GetOrLoad[T any](c *Cache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}
