package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// CachingEmbedder wraps an Embedder with an in-memory cache keyed on
// (model, sha256 of text). Repeated embeddings of identical text hit the
// cache instead of the service. The cache is unbounded; it lives for the
// duration of a run, not across processes.
type CachingEmbedder struct {
	inner Embedder
	model string

	mu    sync.RWMutex
	cache map[string][]float32
	hits  int
	calls int
}

var _ Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps inner with a cache. The model name is part of
// the cache key so switching models never serves stale vectors.
func NewCachingEmbedder(inner Embedder, model string) *CachingEmbedder {
	return &CachingEmbedder{
		inner: inner,
		model: model,
		cache: make(map[string][]float32),
	}
}

func (e *CachingEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return e.model + ":" + hex.EncodeToString(sum[:])
}

// EmbedText returns the cached vector if one exists, otherwise delegates
// to the wrapped embedder and stores the result.
func (e *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := e.cacheKey(text)

	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		e.mu.Lock()
		e.hits++
		e.mu.Unlock()
		return cached, nil
	}

	vector, err := e.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[key] = vector
	e.calls++
	e.mu.Unlock()
	return vector, nil
}

// EmbedTexts embeds a batch, serving cached entries and batching only
// the misses to the wrapped embedder. Order is preserved.
func (e *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	var missTexts []string
	var missIndexes []int

	e.mu.RLock()
	for i, text := range texts {
		if cached, ok := e.cache[e.cacheKey(text)]; ok {
			results[i] = cached
		} else {
			missTexts = append(missTexts, text)
			missIndexes = append(missIndexes, i)
		}
	}
	e.mu.RUnlock()

	if len(missTexts) == 0 {
		e.mu.Lock()
		e.hits += len(texts)
		e.mu.Unlock()
		return results, nil
	}

	vectors, err := e.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	for j, idx := range missIndexes {
		results[idx] = vectors[j]
		e.cache[e.cacheKey(missTexts[j])] = vectors[j]
	}
	e.hits += len(texts) - len(missTexts)
	e.calls += len(missTexts)
	e.mu.Unlock()

	return results, nil
}

// Hits returns how many lookups were served from the cache.
func (e *CachingEmbedder) Hits() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hits
}

// Misses returns how many lookups went through to the wrapped embedder.
func (e *CachingEmbedder) Misses() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.calls
}
