package engine

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/codewithboateng/purslint/internal/ir"
)

type cachedResult struct {
	size       int64
	mtime      time.Time
	file       ir.FileResult
	violations []ir.Violation
}

// resultCache keeps per-file check results keyed by path, validated
// against size and mtime. Entries expire so a long-lived watch process
// does not pin stale results forever.
type resultCache struct {
	lru    *expirable.LRU[string, cachedResult]
	hits   atomic.Int64
	misses atomic.Int64
}

func newResultCache(size int, ttl time.Duration) *resultCache {
	if size <= 0 {
		size = 256
	}
	return &resultCache{lru: expirable.NewLRU[string, cachedResult](size, nil, ttl)}
}

func (c *resultCache) get(path string, size int64, mtime time.Time) (cachedResult, bool) {
	r, ok := c.lru.Get(path)
	if !ok || r.size != size || !r.mtime.Equal(mtime) {
		c.misses.Add(1)
		return cachedResult{}, false
	}
	c.hits.Add(1)
	return r, true
}

func (c *resultCache) put(path string, r cachedResult) {
	c.lru.Add(path, r)
}

// Stats returns cumulative hit and miss counts.
func (c *resultCache) stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
