package embedding

import (
	"context"
	"sync"

	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/metrics"
)

// VectorStore persists vectors per model. Implementations must tolerate
// concurrent use.
type VectorStore interface {
	GetVectors(ctx context.Context, model string, texts []string) (map[string]Vector, error)
	PutVectors(ctx context.Context, model string, vectors map[string]Vector) error
}

// CachedProvider memoizes another Provider in memory and, optionally, in a
// persistent VectorStore. Store failures are logged and treated as misses.
type CachedProvider struct {
	inner Provider
	store VectorStore

	mu  sync.RWMutex
	mem map[string]Vector
}

// NewCachedProvider wraps inner. store may be nil.
func NewCachedProvider(inner Provider, store VectorStore) *CachedProvider {
	return &CachedProvider{inner: inner, store: store, mem: make(map[string]Vector)}
}

// Model returns the wrapped model name.
func (c *CachedProvider) Model() string {
	return c.inner.Model()
}

// Encode embeds a single text through the cache.
func (c *CachedProvider) Encode(ctx context.Context, text string) (Vector, error) {
	vecs, err := c.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch serves what it can from memory, then the store, and encodes the
// rest in a single inner batch.
func (c *CachedProvider) EncodeBatch(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	var missing []string
	seen := make(map[string]bool)

	c.mu.RLock()
	for i, t := range texts {
		if v, ok := c.mem[t]; ok {
			out[i] = v
		} else if !seen[t] {
			seen[t] = true
			missing = append(missing, t)
		}
	}
	c.mu.RUnlock()
	metrics.EmbeddingCacheRequests.WithLabelValues("memory", "hit").Add(float64(len(texts) - len(missing)))

	if len(missing) == 0 {
		return out, nil
	}

	found := make(map[string]Vector, len(missing))
	if c.store != nil {
		stored, err := c.store.GetVectors(ctx, c.Model(), missing)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("embedding store lookup failed")
		}
		for t, v := range stored {
			found[t] = v
		}
		metrics.EmbeddingCacheRequests.WithLabelValues("store", "hit").Add(float64(len(stored)))
	}

	var toEncode []string
	for _, t := range missing {
		if _, ok := found[t]; !ok {
			toEncode = append(toEncode, t)
		}
	}

	if len(toEncode) > 0 {
		metrics.EmbeddingCacheRequests.WithLabelValues("store", "miss").Add(float64(len(toEncode)))
		vecs, err := c.inner.EncodeBatch(ctx, toEncode)
		if err != nil {
			return nil, err
		}
		fresh := make(map[string]Vector, len(toEncode))
		for i, t := range toEncode {
			found[t] = vecs[i]
			fresh[t] = vecs[i]
		}
		if c.store != nil {
			if err := c.store.PutVectors(ctx, c.Model(), fresh); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Int("count", len(fresh)).Msg("embedding store write failed")
			}
		}
	}

	c.mu.Lock()
	for t, v := range found {
		c.mem[t] = v
	}
	c.mu.Unlock()

	for i, t := range texts {
		if out[i] == nil {
			out[i] = found[t]
		}
	}
	return out, nil
}

// Len returns the number of vectors held in memory.
func (c *CachedProvider) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}
