package badger

import (
	"context"
	"testing"

	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

func addChunkWithVector(t *testing.T, repos *Repositories, path string, index int, text string, tags []string, vector []float32) *core.Chunk {
	t.Helper()
	ctx := context.Background()

	chunk := &core.Chunk{
		SourcePath: path,
		IndexInDoc: index,
		Text:       text,
		TokenCount: 4,
		Tags:       tags,
	}
	stored, err := repos.Chunks.UpsertChunks(ctx, chunk)
	if err != nil {
		t.Fatalf("Failed to upsert chunk: %v", err)
	}

	err = repos.Vectors.PutEmbeddings(ctx, &core.EmbeddingRecord{
		ChunkId:   stored[0].Id,
		Vector:    vector,
		ModelName: "test-model",
	})
	if err != nil {
		t.Fatalf("Failed to put embedding: %v", err)
	}
	return stored[0]
}

func TestFindSimilarOrdering(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	// Unit vectors at known angles to the query.
	addChunkWithVector(t, repos, "a.md", 0, "exact match", nil, []float32{1, 0, 0})
	addChunkWithVector(t, repos, "a.md", 1, "close match", nil, []float32{0.8, 0.6, 0})
	addChunkWithVector(t, repos, "a.md", 2, "orthogonal", nil, []float32{0, 0, 1})

	ctx := context.Background()
	results, err := repos.Vectors.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10, nil)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results above threshold, got %d", len(results))
	}
	if results[0].Chunk.Text != "exact match" {
		t.Fatalf("Expected exact match first, got %q", results[0].Chunk.Text)
	}
	if results[0].Similarity < results[1].Similarity {
		t.Fatal("Expected results in descending similarity order")
	}
	if results[0].Source != core.SourceSemantic {
		t.Fatalf("Expected semantic source, got %s", results[0].Source)
	}
}

func TestFindSimilarLimit(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	for i := 0; i < 5; i++ {
		addChunkWithVector(t, repos, "b.md", i, "text", nil, []float32{1, 0, 0})
	}

	ctx := context.Background()
	results, err := repos.Vectors.FindSimilar(ctx, []float32{1, 0, 0}, 0.0, 2, nil)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected limit of 2 results, got %d", len(results))
	}
}

func TestFindSimilarWithFilters(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	addChunkWithVector(t, repos, "keep.md", 0, "kept", []string{"work"}, []float32{1, 0, 0})
	addChunkWithVector(t, repos, "drop.md", 0, "dropped", []string{"home"}, []float32{1, 0, 0})

	ctx := context.Background()
	filters := []storage.Filter{
		{Field: "source_path", Op: storage.OpEq, Value: "keep.md"},
	}
	results, err := repos.Vectors.FindSimilar(ctx, []float32{1, 0, 0}, 0.0, 10, filters)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 filtered result, got %d", len(results))
	}
	if results[0].Chunk.SourcePath != "keep.md" {
		t.Fatalf("Expected keep.md, got %s", results[0].Chunk.SourcePath)
	}

	// Invalid filters are rejected, not silently ignored.
	bad := []storage.Filter{{Field: "nonsense", Op: storage.OpEq, Value: "x"}}
	if _, err := repos.Vectors.FindSimilar(ctx, []float32{1, 0, 0}, 0.0, 10, bad); err == nil {
		t.Fatal("Expected error for invalid filter field")
	}
}

func TestFindSimilarSkipsOrphanEmbeddings(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	chunk := addChunkWithVector(t, repos, "orphan.md", 0, "doomed", nil, []float32{1, 0, 0})

	// Delete the chunk but leave the embedding behind.
	if err := repos.Chunks.DeleteChunks(ctx, chunk.Id); err != nil {
		t.Fatalf("Failed to delete chunk: %v", err)
	}

	results, err := repos.Vectors.FindSimilar(ctx, []float32{1, 0, 0}, 0.0, 10, nil)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected orphan embedding to be skipped, got %d results", len(results))
	}
}

func TestVectorRepositoryBasics(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	chunk := addChunkWithVector(t, repos, "v.md", 0, "vectored", nil, []float32{0, 1, 0})

	record, err := repos.Vectors.GetEmbedding(ctx, chunk.Id)
	if err != nil {
		t.Fatalf("Failed to get embedding: %v", err)
	}
	if record.ModelName != "test-model" {
		t.Fatalf("Expected model name 'test-model', got %q", record.ModelName)
	}
	if len(record.Vector) != 3 {
		t.Fatalf("Expected 3-dim vector, got %d", len(record.Vector))
	}

	if err := repos.Vectors.DeleteEmbeddings(ctx, chunk.Id); err != nil {
		t.Fatalf("Failed to delete embedding: %v", err)
	}
	if _, err := repos.Vectors.GetEmbedding(ctx, chunk.Id); err != storage.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	// Deleting again is not an error.
	if err := repos.Vectors.DeleteEmbeddings(ctx, chunk.Id); err != nil {
		t.Fatalf("Expected idempotent delete, got %v", err)
	}
}
