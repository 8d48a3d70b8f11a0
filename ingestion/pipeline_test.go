package ingestion

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/ai/mock"
	"github.com/poiesic/recallit/chunker"
	badgerstore "github.com/poiesic/recallit/storage/badger"
)

type pipelineFixture struct {
	repos    *badgerstore.Repositories
	embedder *mock.MockEmbedder
	pipeline *Pipeline
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	// A minimum chunk size of 1 keeps short test sections from being
	// folded into their predecessor.
	pipeline, err := NewPipeline(repos.Chunks, repos.Vectors, repos.States, embedder,
		WithChunker(chunker.New(chunker.WithMinChunkSize(1))),
		WithModelName("mock-model"))
	require.NoError(t, err)

	t.Cleanup(func() {
		pipeline.Release()
		_ = repos.Close()
	})
	return &pipelineFixture{repos: repos, embedder: embedder, pipeline: pipeline}
}

func TestNewPipelineRequiresDependencies(t *testing.T) {
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	embedder := mock.NewMockEmbedder()

	_, err = NewPipeline(nil, repos.Vectors, repos.States, embedder)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)
	_, err = NewPipeline(repos.Chunks, nil, repos.States, embedder)
	assert.ErrorIs(t, err, ErrVectorRepositoryRequired)
	_, err = NewPipeline(repos.Chunks, repos.Vectors, nil, embedder)
	assert.ErrorIs(t, err, ErrStateRepositoryRequired)
	_, err = NewPipeline(repos.Chunks, repos.Vectors, repos.States, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIngestDocumentStoresChunksAndEmbeddings(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	result, err := f.pipeline.IngestDocument(ctx, Document{
		Path: "notes/philosophy.md",
		Text: "# Platonism\n\nPlatonism holds mathematical objects exist independently.\n\n# Formalism\n\nFormalism treats mathematics as manipulation of symbols.\n",
		Mtime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.ChunksWritten)

	chunks, err := f.repos.Chunks.GetChunksBySource(ctx, "notes/philosophy.md")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, chunk := range chunks {
		record, err := f.repos.Vectors.GetEmbedding(ctx, chunk.Id)
		require.NoError(t, err)
		assert.Equal(t, "mock-model", record.ModelName)
		assert.NotEmpty(t, record.Vector)
	}
}

func TestIngestDocumentSkipsUnchangedFile(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()
	doc := Document{
		Path:  "notes/a.md",
		Text:  "# Heading\n\nSome stable content here.\n",
		Mtime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	_, err := f.pipeline.IngestDocument(ctx, doc)
	require.NoError(t, err)
	callsAfterFirst := f.embedder.CallCount()

	result, err := f.pipeline.IngestDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, callsAfterFirst, f.embedder.CallCount())
}

func TestIngestDocumentRemovesStaleChunks(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	_, err := f.pipeline.IngestDocument(ctx, Document{
		Path:  "notes/a.md",
		Text:  "# One\n\nFirst section text.\n\n# Two\n\nSecond section text.\n",
		Mtime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	result, err := f.pipeline.IngestDocument(ctx, Document{
		Path:  "notes/a.md",
		Text:  "# One\n\nOnly one section remains.\n",
		Mtime: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChunksWritten)
	assert.Equal(t, 1, result.ChunksDeleted)

	chunks, err := f.repos.Chunks.GetChunksBySource(ctx, "notes/a.md")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Only one section remains.", chunks[0].Text)
}

func TestIngestDocumentEmbeddingFailureIsFatal(t *testing.T) {
	f := newPipelineFixture(t)
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, fmt.Errorf("%w: connection refused", ai.ErrEmbeddingUnavailable)
	}

	_, err := f.pipeline.IngestDocument(context.Background(), Document{
		Path:  "notes/a.md",
		Text:  "# Heading\n\nContent that will never be stored.\n",
		Mtime: time.Now(),
	})
	require.ErrorIs(t, err, ai.ErrEmbeddingUnavailable)

	// Nothing was written: embedding happens before any store mutation.
	chunks, err := f.repos.Chunks.GetChunksBySource(context.Background(), "notes/a.md")
	require.NoError(t, err)
	assert.Empty(t, chunks)
	state, err := f.repos.States.LoadSourceState(context.Background(), "notes/a.md")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestIngestDocumentEmptyPath(t *testing.T) {
	f := newPipelineFixture(t)
	_, err := f.pipeline.IngestDocument(context.Background(), Document{Text: "content"})
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestIngestDocuments(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()
	mtime := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	docs := []Document{
		{Path: "notes/a.md", Text: "# A\n\nContent of note a.\n", Mtime: mtime},
		{Path: "notes/b.md", Text: "# B\n\nContent of note b.\n", Mtime: mtime},
	}
	batch, err := f.pipeline.IngestDocuments(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Ingested)
	assert.Equal(t, 0, batch.Skipped)
	assert.Equal(t, 0, batch.Failed)

	// Second run: both unchanged.
	batch, err = f.pipeline.IngestDocuments(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, 0, batch.Ingested)
	assert.Equal(t, 2, batch.Skipped)
}

func TestIngestDocumentsReportsFailures(t *testing.T) {
	f := newPipelineFixture(t)

	batch, err := f.pipeline.IngestDocuments(context.Background(), []Document{
		{Path: "notes/a.md", Text: "# A\n\nGood content.\n", Mtime: time.Now()},
		{Path: "", Text: "no path"},
	})
	require.Error(t, err)
	assert.Equal(t, 1, batch.Ingested)
	assert.Equal(t, 1, batch.Failed)
}
