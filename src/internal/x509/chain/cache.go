// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"fmt"
	"sync"
	"time"
)

// CRLCacheEntry represents a cached CRL with metadata
type CRLCacheEntry struct {
	Data       []byte    // Raw CRL data
	FetchedAt  time.Time // When this CRL was fetched
	NextUpdate time.Time // When this CRL expires (from CRL.NextUpdate)
	URL        string    // Source URL for debugging
}

// CRLCacheConfig holds configuration for the CRL cache
type CRLCacheConfig struct {
	MaxSize int           // Maximum number of CRLs to cache (0 = unlimited, but not recommended)
	MaxAge  time.Duration // Refetch after this long even if NextUpdate is later (default: 24 hours)
}

// CRLCacheMetrics tracks cache performance and usage
type CRLCacheMetrics struct {
	Size        int64 // Current number of cached CRLs
	Hits        int64 // Number of cache hits
	Misses      int64 // Number of cache misses
	Evictions   int64 // Number of LRU evictions
	Cleanups    int64 // Number of expired CRL cleanups
	TotalMemory int64 // Approximate memory usage in bytes
}

// Default CRL cache configuration
var defaultCRLCacheConfig = CRLCacheConfig{
	MaxSize: 100,
	MaxAge:  24 * time.Hour,
}

// CRLCache is a small LRU cache of downloaded CRLs keyed by URL.
//
// A validation run that checks many certificates from the same CA downloads
// the CRL once. Entries are served only while their NextUpdate lies in the future.
//
// CRLCache is safe for concurrent use by multiple goroutines.
type CRLCache struct {
	mu      sync.Mutex
	entries map[string]*CRLCacheEntry
	order   []string // access order, least recently used first
	config  CRLCacheConfig
	metrics CRLCacheMetrics

	now func() time.Time
}

// NewCRLCache creates a cache. A nil config uses the defaults; non-positive
// values fall back to the defaults as well, except MaxSize 0 which means unlimited.
func NewCRLCache(config *CRLCacheConfig) *CRLCache {
	cfg := defaultCRLCacheConfig
	if config != nil {
		cfg.MaxSize = config.MaxSize
		if config.MaxAge > 0 {
			cfg.MaxAge = config.MaxAge
		}
	}
	if cfg.MaxSize < 0 {
		cfg.MaxSize = 0
	}

	return &CRLCache{
		entries: make(map[string]*CRLCacheEntry),
		config:  cfg,
		now:     time.Now,
	}
}

// isFresh checks if the cached CRL is still fresh
func (c *CRLCache) isFresh(entry *CRLCacheEntry) bool {
	now := c.now()
	return entry.NextUpdate.After(now) && entry.FetchedAt.After(now.Add(-c.config.MaxAge))
}

// touch moves url to the most recently used position.
func (c *CRLCache) touch(url string) {
	c.remove(url)
	c.order = append(c.order, url)
}

func (c *CRLCache) remove(url string) {
	for i, u := range c.order {
		if u == url {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Config returns a copy of the cache configuration.
func (c *CRLCache) Config() CRLCacheConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// Get retrieves a fresh CRL from cache and updates access order
func (c *CRLCache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[url]
	if !exists || !c.isFresh(entry) {
		c.metrics.Misses++
		return nil, false
	}

	c.metrics.Hits++
	c.touch(url)

	// Return a copy to prevent external modification
	return append([]byte(nil), entry.Data...), true
}

// Set stores a CRL in cache with metadata and implements LRU eviction
func (c *CRLCache) Set(url string, data []byte, nextUpdate time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[url]; !exists {
		// Stale CRLs go first so a full cache keeps what is still usable.
		if c.config.MaxSize > 0 && len(c.entries) >= c.config.MaxSize {
			c.dropStale()
		}
		for c.config.MaxSize > 0 && len(c.entries) >= c.config.MaxSize && len(c.order) > 0 {
			lruURL := c.order[0]
			delete(c.entries, lruURL)
			c.order = c.order[1:]
			c.metrics.Evictions++
		}
	}

	c.entries[url] = &CRLCacheEntry{
		Data:       append([]byte(nil), data...),
		FetchedAt:  c.now(),
		NextUpdate: nextUpdate,
		URL:        url,
	}
	c.touch(url)
}

// dropStale removes every entry that Get would no longer serve.
// The caller holds c.mu.
func (c *CRLCache) dropStale() {
	var removed int64
	for url, entry := range c.entries {
		if !c.isFresh(entry) {
			delete(c.entries, url)
			c.remove(url)
			removed++
		}
	}

	c.metrics.Cleanups += removed
}

// Metrics returns current cache metrics
func (c *CRLCache) Metrics() CRLCacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	var totalMemory int64
	for _, entry := range c.entries {
		totalMemory += int64(len(entry.Data)) + int64(len(entry.URL)) + 24 // Approximate overhead
	}

	metrics := c.metrics
	metrics.Size = int64(len(c.entries))
	metrics.TotalMemory = totalMemory
	return metrics
}

// Stats returns a formatted string with cache statistics
func (c *CRLCache) Stats() string {
	metrics := c.Metrics()
	config := c.Config()

	hitRate := float64(0)
	totalRequests := metrics.Hits + metrics.Misses
	if totalRequests > 0 {
		hitRate = float64(metrics.Hits) / float64(totalRequests) * 100
	}

	return fmt.Sprintf("CRL Cache Statistics:\n"+
		"  Size: %d/%d entries\n"+
		"  Memory Usage: %.2f KB\n"+
		"  Hit Rate: %.1f%% (%d hits, %d misses)\n"+
		"  Evictions: %d\n"+
		"  Cleanups: %d",
		metrics.Size, config.MaxSize,
		float64(metrics.TotalMemory)/1024,
		hitRate, metrics.Hits, metrics.Misses,
		metrics.Evictions,
		metrics.Cleanups)
}
