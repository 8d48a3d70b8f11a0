package recallit

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recallit/ai/mock"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/ingestion"
	"github.com/poiesic/recallit/search"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	vault, err := NewVault("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = vault.Close() })
	return vault
}

func ingestCorpus(t *testing.T, vault *Vault) {
	t.Helper()
	mtime := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	batch, err := vault.Ingest(context.Background(),
		ingestion.Document{
			Path:  "notes/platonism.md",
			Text:  "# Platonism\n\nPlatonism holds mathematical objects exist independently of us.\n",
			Mtime: mtime,
		},
		ingestion.Document{
			Path:  "notes/scraping.md",
			Text:  "# Scraping\n\nWeb scraping extracts HTML data from pages.\n",
			Mtime: mtime,
		},
	)
	require.NoError(t, err)
	require.Equal(t, 2, batch.Ingested)
}

func TestVaultIngestAndSearch(t *testing.T) {
	vault := newTestVault(t)
	ingestCorpus(t, vault)

	results, err := vault.Search(context.Background(), search.Request{
		Query: "platonism mathematics",
		Mode:  search.ModeKeyword,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "notes/platonism.md", results[0].Chunk.SourcePath)
}

func TestVaultQueryRanksRelevantDocumentFirst(t *testing.T) {
	vault := newTestVault(t)
	ingestCorpus(t, vault)

	results, err := vault.Query(context.Background(), "What is Platonism in mathematics?", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "notes/platonism.md", results[0].Chunk.SourcePath)
	assert.False(t, results[0].Degraded)
}

func TestVaultEvaluatePersistsReport(t *testing.T) {
	vault := newTestVault(t)
	ingestCorpus(t, vault)

	report := vault.Evaluate(context.Background(),
		"What is Platonism in mathematics?",
		"Platonism is the view that mathematical objects exist independently.",
		[]string{"Platonism holds mathematical objects exist independently of us."})
	require.NotNil(t, report)
	assert.Contains(t, []core.QualityLevel{core.QualityGood, core.QualityExcellent}, report.Level)

	trend, err := vault.QualityTrend(context.Background(),
		report.CreatedAt.Add(-time.Minute), report.CreatedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, trend.ReportCount)
}

func TestVaultReembed(t *testing.T) {
	vault := newTestVault(t)
	ingestCorpus(t, vault)

	var out bytes.Buffer
	require.NoError(t, vault.Reembed(context.Background(), "new-model", &out))

	chunks, err := vault.Repositories().Chunks.GetChunksBySource(context.Background(), "notes/platonism.md")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	record, err := vault.Repositories().Vectors.GetEmbedding(context.Background(), chunks[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "new-model", record.ModelName)
}

func TestVaultEmptyQueryRejected(t *testing.T) {
	vault := newTestVault(t)
	_, err := vault.Search(context.Background(), search.Request{Query: ""})
	assert.ErrorIs(t, err, search.ErrEmptyQuery)
}
