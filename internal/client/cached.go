package client

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of term responses to keep.
// Fan-out re-issues the same terms across consecutive searches in a
// refinement loop, so even a small cache saves round trips.
const DefaultCacheSize = 256

// Cached wraps a Searcher with per-process LRU memoization keyed by term
// and limit. Sessions remain independent; this caches only the remote
// engine's responses, never ranked output.
type Cached struct {
	inner Searcher
	cache *lru.Cache[string, []Hit]
}

// NewCached creates a caching searcher wrapping inner.
func NewCached(inner Searcher, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, []Hit](size)
	return &Cached{inner: inner, cache: cache}
}

// Search returns the cached response when available, otherwise delegates
// and caches the result. Errors are never cached.
func (c *Cached) Search(ctx context.Context, term string, limit int) ([]Hit, error) {
	key := fmt.Sprintf("%s\x00%d", term, limit)
	if hits, ok := c.cache.Get(key); ok {
		return hits, nil
	}

	hits, err := c.inner.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, hits)
	return hits, nil
}
