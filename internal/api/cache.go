package api

import (
	"os"
	"strconv"
	"sync"

	"github.com/learningdebunked/FAM/internal/analysis"
)

// ResultCache is a thread-safe LRU cache for non-personalized analysis
// results.
type ResultCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	result *analysis.Result
}

// NewResultCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 512.
func NewResultCache(maxSize int) *ResultCache {
	if maxSize <= 0 {
		maxSize = 512
	}
	return &ResultCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// NewResultCacheFromEnv creates a cache with size from RESULT_CACHE_SIZE.
func NewResultCacheFromEnv() *ResultCache {
	size := 512
	if v := os.Getenv("RESULT_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewResultCache(size)
}

// Get retrieves a result from the cache, or nil if not found.
func (c *ResultCache) Get(key string) *analysis.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}

	// Move to end (most recently used)
	c.moveToEnd(key)
	return entry.result
}

// Put adds a result to the cache, evicting the oldest if full.
func (c *ResultCache) Put(key string, result *analysis.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &cacheEntry{result: result}
		c.moveToEnd(key)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &cacheEntry{result: result}
	c.order = append(c.order, key)
}

func (c *ResultCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
