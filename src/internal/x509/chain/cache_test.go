// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRLCache(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T, cache *CRLCache)
	}{
		{
			name: "Miss Then Hit",
			testFunc: func(t *testing.T, cache *CRLCache) {
				_, ok := cache.Get("http://a.test/crl")
				assert.False(t, ok)

				cache.Set("http://a.test/crl", []byte("crl-a"), time.Now().Add(time.Hour))
				data, ok := cache.Get("http://a.test/crl")
				require.True(t, ok)
				assert.Equal(t, []byte("crl-a"), data)

				m := cache.Metrics()
				assert.Equal(t, int64(1), m.Hits)
				assert.Equal(t, int64(1), m.Misses)
				assert.Equal(t, int64(1), m.Size)
			},
		},
		{
			name: "Returned Data Is A Copy",
			testFunc: func(t *testing.T, cache *CRLCache) {
				src := []byte("crl")
				cache.Set("u", src, time.Now().Add(time.Hour))
				src[0] = 'X'

				data, ok := cache.Get("u")
				require.True(t, ok)
				data[1] = 'X'

				again, _ := cache.Get("u")
				assert.Equal(t, []byte("crl"), again)
			},
		},
		{
			name: "Stale Entry Is A Miss",
			testFunc: func(t *testing.T, cache *CRLCache) {
				cache.Set("u", []byte("old"), time.Now().Add(-time.Minute))
				_, ok := cache.Get("u")
				assert.False(t, ok)
			},
		},
		{
			name: "Max Age Forces Refetch",
			testFunc: func(t *testing.T, cache *CRLCache) {
				base := time.Now()
				cache.now = func() time.Time { return base }
				cache.Set("u", []byte("crl"), base.Add(72*time.Hour))

				cache.now = func() time.Time { return base.Add(25 * time.Hour) }
				_, ok := cache.Get("u")
				assert.False(t, ok)
			},
		},
		{
			name: "LRU Eviction",
			testFunc: func(t *testing.T, cache *CRLCache) {
				next := time.Now().Add(time.Hour)
				cache.Set("a", []byte("a"), next)
				cache.Set("b", []byte("b"), next)
				cache.Get("a") // a is now most recently used
				cache.Set("c", []byte("c"), next)

				_, okA := cache.Get("a")
				_, okB := cache.Get("b")
				_, okC := cache.Get("c")
				assert.True(t, okA)
				assert.False(t, okB, "least recently used entry should be evicted")
				assert.True(t, okC)
				assert.Equal(t, int64(1), cache.Metrics().Evictions)
			},
		},
		{
			name: "Overwrite Does Not Evict",
			testFunc: func(t *testing.T, cache *CRLCache) {
				next := time.Now().Add(time.Hour)
				cache.Set("a", []byte("a"), next)
				cache.Set("b", []byte("b"), next)
				cache.Set("a", []byte("a2"), next)

				data, ok := cache.Get("a")
				require.True(t, ok)
				assert.Equal(t, []byte("a2"), data)
				_, ok = cache.Get("b")
				assert.True(t, ok)
				assert.Equal(t, int64(0), cache.Metrics().Evictions)
			},
		},
		{
			name: "Full Cache Drops Stale Before Evicting",
			testFunc: func(t *testing.T, cache *CRLCache) {
				cache.Set("old", []byte("old"), time.Now().Add(-2*time.Hour))
				cache.Set("a", []byte("a"), time.Now().Add(time.Hour))
				cache.Set("b", []byte("b"), time.Now().Add(time.Hour))

				_, okA := cache.Get("a")
				_, okB := cache.Get("b")
				assert.True(t, okA, "fresh entry must survive")
				assert.True(t, okB)

				m := cache.Metrics()
				assert.Equal(t, int64(2), m.Size)
				assert.Equal(t, int64(1), m.Cleanups)
				assert.Equal(t, int64(0), m.Evictions)
			},
		},
		{
			name: "Stats",
			testFunc: func(t *testing.T, cache *CRLCache) {
				cache.Set("a", []byte("a"), time.Now().Add(time.Hour))
				cache.Get("a")
				stats := cache.Stats()
				assert.Contains(t, stats, "Size: 1/2 entries")
				assert.Contains(t, stats, "Hit Rate: 100.0%")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, NewCRLCache(&CRLCacheConfig{MaxSize: 2}))
		})
	}
}

func TestNewCRLCache_Defaults(t *testing.T) {
	cfg := NewCRLCache(nil).Config()
	assert.Equal(t, 100, cfg.MaxSize)
	assert.Equal(t, 24*time.Hour, cfg.MaxAge)

	cfg = NewCRLCache(&CRLCacheConfig{MaxSize: -5}).Config()
	assert.Equal(t, 0, cfg.MaxSize)
}

func TestCRLCache_Concurrent(t *testing.T) {
	cache := NewCRLCache(&CRLCacheConfig{MaxSize: 10})
	next := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			url := string(rune('a' + n%15))
			cache.Set(url, []byte(url), next)
			cache.Get(url)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Metrics().Size, int64(10))
}
