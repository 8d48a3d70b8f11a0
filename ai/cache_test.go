package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder records how often each method is invoked.
type countingEmbedder struct {
	embedTextCalls  int
	embedTextsCalls int
	embedded        []string
	err             error
}

func (e *countingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.embedTextCalls++
	if e.err != nil {
		return nil, e.err
	}
	e.embedded = append(e.embedded, text)
	return []float32{float32(len(text)), 1, 0}, nil
}

func (e *countingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.embedTextsCalls++
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		e.embedded = append(e.embedded, text)
		vectors[i] = []float32{float32(len(text)), 1, 0}
	}
	return vectors, nil
}

func TestCachingEmbedderSingle(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}
	embedder := NewCachingEmbedder(inner, "test-model")

	first, err := embedder.EmbedText(ctx, "hello")
	require.NoError(t, err)

	second, err := embedder.EmbedText(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.embedTextCalls, "second call should hit the cache")
	assert.Equal(t, 1, embedder.Hits())
	assert.Equal(t, 1, embedder.Misses())
}

func TestCachingEmbedderKeyIncludesModel(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}

	a := NewCachingEmbedder(inner, "model-a")
	_, err := a.EmbedText(ctx, "same text")
	require.NoError(t, err)

	b := NewCachingEmbedder(inner, "model-b")
	_, err = b.EmbedText(ctx, "same text")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.embedTextCalls, "different models must not share cache entries")
}

func TestCachingEmbedderBatch(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}
	embedder := NewCachingEmbedder(inner, "test-model")

	// Warm the cache with one of the three texts.
	_, err := embedder.EmbedText(ctx, "beta")
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(ctx, []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	// Only the two misses reach the inner embedder.
	assert.Equal(t, 1, inner.embedTextsCalls)
	assert.ElementsMatch(t, []string{"beta", "alpha", "gamma"}, inner.embedded)

	// Order is preserved regardless of cache hits.
	assert.Equal(t, float32(len("alpha")), vectors[0][0])
	assert.Equal(t, float32(len("beta")), vectors[1][0])
	assert.Equal(t, float32(len("gamma")), vectors[2][0])
}

func TestCachingEmbedderFullyCachedBatch(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}
	embedder := NewCachingEmbedder(inner, "test-model")

	_, err := embedder.EmbedTexts(ctx, []string{"x", "y"})
	require.NoError(t, err)

	_, err = embedder.EmbedTexts(ctx, []string{"x", "y"})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.embedTextsCalls, "fully cached batch should not call inner")
}

func TestCachingEmbedderPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{err: ErrEmbeddingUnavailable}
	embedder := NewCachingEmbedder(inner, "test-model")

	_, err := embedder.EmbedText(ctx, "doomed")
	assert.True(t, errors.Is(err, ErrEmbeddingUnavailable))

	_, err = embedder.EmbedTexts(ctx, []string{"also doomed"})
	assert.True(t, errors.Is(err, ErrEmbeddingUnavailable))
}
