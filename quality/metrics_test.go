package quality

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recallit/core"
	badgerstore "github.com/poiesic/recallit/storage/badger"
)

func TestBinaryRelevance(t *testing.T) {
	results := []*core.SearchResult{
		{Chunk: &core.Chunk{Id: 1, Text: "Plato wrote dialogues about forms."}},
		{Chunk: &core.Chunk{Id: 2, Text: "Boil pasta in salted water."}},
		{Chunk: &core.Chunk{Id: 3, Text: "The theory of forms shaped philosophy."}},
	}

	labels := BinaryRelevance("plato forms", results)
	assert.Equal(t, []bool{true, false, true}, labels)
}

func TestPrecisionAtK(t *testing.T) {
	labels := []bool{true, false, true, false}

	assert.InDelta(t, 1.0, PrecisionAtK(labels, 1), 1e-9)
	assert.InDelta(t, 0.5, PrecisionAtK(labels, 2), 1e-9)
	assert.InDelta(t, 0.5, PrecisionAtK(labels, 4), 1e-9)
	assert.InDelta(t, 0.5, PrecisionAtK(labels, 10), 1e-9)
	assert.Equal(t, 0.0, PrecisionAtK(labels, 0))
	assert.Equal(t, 0.0, PrecisionAtK(nil, 3))
}

func TestMRR(t *testing.T) {
	assert.InDelta(t, 1.0, MRR([]bool{true, false}), 1e-9)
	assert.InDelta(t, 0.5, MRR([]bool{false, true}), 1e-9)
	assert.InDelta(t, 1.0/3, MRR([]bool{false, false, true}), 1e-9)
	assert.Equal(t, 0.0, MRR([]bool{false, false}))
	assert.Equal(t, 0.0, MRR(nil))
}

func TestNDCGAtK(t *testing.T) {
	// Perfect ordering: all relevant results first.
	assert.InDelta(t, 1.0, NDCGAtK([]bool{true, true, false}, 3), 1e-9)

	// [true, false, true]: DCG = 1 + 1/log2(4) = 1.5,
	// ideal = 1 + 1/log2(3) ≈ 1.6309.
	assert.InDelta(t, 0.9197, NDCGAtK([]bool{true, false, true}, 3), 1e-3)

	assert.Equal(t, 0.0, NDCGAtK([]bool{false, false}, 2))
	assert.Equal(t, 0.0, NDCGAtK(nil, 5))
}

func TestTrendOverRange(t *testing.T) {
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scores := []float64{0.2, 0.4, 0.6, 0.8}
	for i, score := range scores {
		report := &core.QualityReport{
			Query:        "query " + string(rune('a'+i)),
			Response:     "response",
			OverallScore: score,
			Level:        core.LevelForScore(score),
			SubScores: core.SubScores{
				Basic: score, Semantic: score, Relevance: score,
				Completeness: score, Coherence: score,
			},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		_, err := repos.Reports.AppendReport(ctx, report)
		require.NoError(t, err)
	}

	trend, err := TrendOverRange(ctx, repos.Reports, base.Add(-time.Hour), base.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 4, trend.ReportCount)
	assert.InDelta(t, 0.5, trend.MeanOverall, 1e-9)
	assert.InDelta(t, 0.5, trend.MeanScores.Semantic, 1e-9)
	assert.InDelta(t, 0.4, trend.Direction, 1e-9)
	assert.Equal(t, 1, trend.LevelCounts[core.QualityPoor])
	assert.Equal(t, 1, trend.LevelCounts[core.QualityExcellent])
	assert.Equal(t, 0.0, trend.DegradedRate)
}

func TestTrendEmptyWindow(t *testing.T) {
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	trend, err := TrendOverRange(context.Background(), repos.Reports,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, trend.ReportCount)
	assert.Equal(t, 0.0, trend.MeanOverall)

	_, err = TrendOverRange(context.Background(), nil, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrReportRepositoryRequired)
}
