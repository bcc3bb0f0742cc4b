package memory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a cached embedding stays usable.
const DefaultCacheTTL = time.Hour

// cachedVector wraps a vector with its expiration time
type cachedVector struct {
	vector    []float32
	expiresAt time.Time
}

// CachingEmbedder decorates an Embedder with an in-process TTL cache keyed
// by the exact input text, so repeated queries and re-stated facts skip the
// provider round-trip. Like RetryingStore, callers opt in by wrapping.
type CachingEmbedder struct {
	mu       sync.RWMutex
	embedder Embedder
	ttl      time.Duration
	vectors  map[string]*cachedVector
}

// NewCachingEmbedder wraps embedder. A non-positive ttl gets DefaultCacheTTL.
func NewCachingEmbedder(embedder Embedder, ttl time.Duration) *CachingEmbedder {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &CachingEmbedder{
		embedder: embedder,
		ttl:      ttl,
		vectors:  map[string]*cachedVector{},
	}
}

func (caching *CachingEmbedder) get(text string) ([]float32, bool) {
	caching.mu.RLock()
	cached, ok := caching.vectors[text]
	caching.mu.RUnlock()

	if !ok {
		return nil, false
	}

	// Expired entries are dropped on read
	if time.Now().After(cached.expiresAt) {
		caching.mu.Lock()
		delete(caching.vectors, text)
		caching.mu.Unlock()

		return nil, false
	}

	return cached.vector, true
}

func (caching *CachingEmbedder) put(text string, vector []float32) {
	caching.mu.Lock()
	caching.vectors[text] = &cachedVector{
		vector:    vector,
		expiresAt: time.Now().Add(caching.ttl),
	}
	caching.mu.Unlock()
}

// Embed returns the cached vector when the text was embedded recently and
// asks the wrapped embedder otherwise.
func (caching *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vector, ok := caching.get(text); ok {
		return vector, nil
	}

	vector, err := caching.embedder.Embed(ctx, text)

	if err != nil {
		return nil, err
	}

	caching.put(text, vector)

	return vector, nil
}

// EmbedBatch embeds only the texts missing from the cache and stitches the
// results back together in input order.
func (caching *CachingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	missing := []int{}

	for i, text := range texts {
		if vector, ok := caching.get(text); ok {
			vectors[i] = vector
			continue
		}

		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	batch := make([]string, len(missing))

	for i, index := range missing {
		batch[i] = texts[index]
	}

	fresh, err := caching.embedder.EmbedBatch(ctx, batch)

	if err != nil {
		return nil, err
	}

	if len(fresh) != len(batch) {
		return nil, fmt.Errorf(
			"memory: embedder returned %d vectors for %d texts",
			len(fresh), len(batch),
		)
	}

	for i, index := range missing {
		vectors[index] = fresh[i]
		caching.put(texts[index], fresh[i])
	}

	return vectors, nil
}

// Cleanup sweeps expired entries. The cache never spawns its own goroutine;
// long-running callers decide when to sweep.
func (caching *CachingEmbedder) Cleanup() {
	caching.mu.Lock()
	defer caching.mu.Unlock()

	now := time.Now()

	for text, cached := range caching.vectors {
		if now.After(cached.expiresAt) {
			delete(caching.vectors, text)
		}
	}
}

// Len reports how many entries the cache holds, expired ones included.
func (caching *CachingEmbedder) Len() int {
	caching.mu.RLock()
	defer caching.mu.RUnlock()

	return len(caching.vectors)
}
