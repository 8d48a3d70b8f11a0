package rerank

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/ai/mock"
	"github.com/poiesic/recallit/core"
)

func makeCandidate(id core.ID, text string, similarity float32) *core.SearchResult {
	return &core.SearchResult{
		Chunk: &core.Chunk{
			Id:         id,
			SourcePath: "notes/test.md",
			Text:       text,
			TokenCount: 5,
		},
		Similarity: similarity,
		Source:     core.SourceSemantic,
	}
}

// identityEncoder scores each document with its candidate's original
// similarity, keyed by document text.
func identityEncoder(candidates []*core.SearchResult) *mock.MockCrossEncoder {
	byText := make(map[string]float64)
	for _, c := range candidates {
		byText[c.Chunk.Text] = float64(c.Similarity)
	}
	encoder := mock.NewMockCrossEncoder()
	encoder.ScoreFunc = func(ctx context.Context, query, document string) (float64, error) {
		return byText[document], nil
	}
	return encoder
}

func TestNewRerankerRequiresCrossEncoder(t *testing.T) {
	_, err := NewReranker(nil)
	assert.ErrorIs(t, err, ErrCrossEncoderRequired)
}

func TestRerankIdentityEncoderKeepsSimilarityOrdering(t *testing.T) {
	candidates := []*core.SearchResult{
		makeCandidate(1, "first document", 0.3),
		makeCandidate(2, "second document", 0.9),
		makeCandidate(3, "third document", 0.6),
	}

	r, err := NewReranker(identityEncoder(candidates))
	require.NoError(t, err)
	defer r.Close()

	results, err := r.Rerank(context.Background(), "query", candidates, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, core.ID(2), results[0].Chunk.Id)
	assert.Equal(t, core.ID(3), results[1].Chunk.Id)
	assert.Equal(t, core.ID(1), results[2].Chunk.Id)
	for _, hit := range results {
		assert.False(t, hit.Degraded)
		assert.GreaterOrEqual(t, hit.CrossScore, 0.0)
		assert.LessOrEqual(t, hit.CrossScore, 1.0)
	}
}

func TestRerankBlendsCrossScoreAndSimilarity(t *testing.T) {
	// The cross encoder disagrees with similarity: the weakest
	// candidate by similarity is its clear favorite.
	candidates := []*core.SearchResult{
		makeCandidate(1, "alpha", 0.9),
		makeCandidate(2, "beta", 0.2),
	}
	encoder := mock.NewMockCrossEncoder()
	encoder.ScoreFunc = func(ctx context.Context, query, document string) (float64, error) {
		if document == "beta" {
			return 1.0, nil
		}
		return 0.0, nil
	}

	r, err := NewReranker(encoder)
	require.NoError(t, err)
	defer r.Close()

	results, err := r.Rerank(context.Background(), "query", candidates, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// beta: 0.7*1.0 + 0.3*0.2 = 0.76; alpha: 0.7*0.0 + 0.3*0.9 = 0.27.
	assert.Equal(t, core.ID(2), results[0].Chunk.Id)
	assert.InDelta(t, 0.76, results[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.27, results[1].FinalScore, 1e-9)
}

func TestRerankDegradesWhenEncoderFails(t *testing.T) {
	candidates := []*core.SearchResult{
		makeCandidate(1, "first", 0.3),
		makeCandidate(2, "second", 0.9),
	}
	encoder := mock.NewMockCrossEncoder()
	encoder.ScoreFunc = func(ctx context.Context, query, document string) (float64, error) {
		return 0, fmt.Errorf("%w: model not loaded", ai.ErrRerankUnavailable)
	}

	r, err := NewReranker(encoder)
	require.NoError(t, err)
	defer r.Close()

	results, err := r.Rerank(context.Background(), "query", candidates, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, core.ID(2), results[0].Chunk.Id)
	assert.Equal(t, core.ID(1), results[1].Chunk.Id)
	for _, hit := range results {
		assert.True(t, hit.Degraded)
		assert.InDelta(t, float64(hit.Similarity), hit.CrossScore, 1e-9)
		assert.InDelta(t, float64(hit.Similarity), hit.FinalScore, 1e-9)
	}
}

func TestRerankCandidatePoolCap(t *testing.T) {
	var candidates []*core.SearchResult
	for i := 0; i < 6; i++ {
		candidates = append(candidates,
			makeCandidate(core.ID(i+1), fmt.Sprintf("document %d", i), float32(i)*0.1))
	}

	r, err := NewReranker(identityEncoder(candidates), WithCandidatePool(2))
	require.NoError(t, err)
	defer r.Close()

	results, err := r.Rerank(context.Background(), "query", candidates, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Only the two most similar candidates made the pool.
	assert.Equal(t, core.ID(6), results[0].Chunk.Id)
	assert.Equal(t, core.ID(5), results[1].Chunk.Id)
}

func TestRerankTruncatesToTopK(t *testing.T) {
	candidates := []*core.SearchResult{
		makeCandidate(1, "one", 0.1),
		makeCandidate(2, "two", 0.5),
		makeCandidate(3, "three", 0.9),
	}

	r, err := NewReranker(identityEncoder(candidates))
	require.NoError(t, err)
	defer r.Close()

	results, err := r.Rerank(context.Background(), "query", candidates, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(3), results[0].Chunk.Id)
}

func TestRerankEmptyCandidates(t *testing.T) {
	r, err := NewReranker(mock.NewMockCrossEncoder())
	require.NoError(t, err)
	defer r.Close()

	results, err := r.Rerank(context.Background(), "query", nil, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRerankDegenerateBatchFallsBackToSimilarity(t *testing.T) {
	candidates := []*core.SearchResult{
		makeCandidate(1, "one", 0.2),
		makeCandidate(2, "two", 0.8),
	}
	encoder := mock.NewMockCrossEncoder()
	encoder.ScoreFunc = func(ctx context.Context, query, document string) (float64, error) {
		return 3.5, nil
	}

	r, err := NewReranker(encoder)
	require.NoError(t, err)
	defer r.Close()

	results, err := r.Rerank(context.Background(), "query", candidates, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// All cross scores equal: normalization yields 0.5 for everyone and
	// similarity decides the order.
	assert.Equal(t, core.ID(2), results[0].Chunk.Id)
	assert.InDelta(t, 0.5, results[0].CrossScore, 1e-9)
	assert.InDelta(t, 0.5, results[1].CrossScore, 1e-9)
}

func TestWithAlphaValidation(t *testing.T) {
	_, err := NewReranker(mock.NewMockCrossEncoder(), WithAlpha(1.5))
	assert.ErrorIs(t, err, ErrInvalidAlpha)

	r, err := NewReranker(mock.NewMockCrossEncoder(), WithAlpha(0.5))
	require.NoError(t, err)
	r.Close()
}
