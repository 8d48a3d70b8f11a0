package storage

import (
	"context"
	"time"

	"github.com/poiesic/recallit/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing chunks.
type ChunkRepository interface {
	Repository

	// UpsertChunks stores one or more chunks. Writes are idempotent on
	// (SourcePath, IndexInDoc): re-storing a chunk id overwrites, never
	// duplicates. Sets InsertedAt on first write and UpdatedAt on every write.
	// Returns the chunks with timestamps populated.
	UpsertChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// DeleteChunks removes chunks by their IDs, along with their index
	// entries. Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, ids ...core.ID) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// GetChunksBySource retrieves all chunks of a source document,
	// ordered by IndexInDoc.
	GetChunksBySource(ctx context.Context, sourcePath string) ([]*core.Chunk, error)

	// GetChunksByTag retrieves chunks carrying the exact tag,
	// up to limit results. A limit <= 0 means no limit.
	GetChunksByTag(ctx context.Context, tag string, limit int) ([]*core.Chunk, error)

	// ScanChunks calls fn for every stored chunk. Iteration stops on the
	// first error from fn. Order is unspecified.
	ScanChunks(ctx context.Context, fn func(chunk *core.Chunk) error) error

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}

// VectorRepository provides operations for managing embedding records
// and answering nearest-neighbor queries over them.
type VectorRepository interface {
	Repository

	// PutEmbeddings stores embedding records. One record exists per chunk;
	// re-storing a chunk id overwrites the previous record.
	PutEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error

	// GetEmbedding retrieves the embedding record for a chunk.
	// Returns ErrNotFound if no record exists.
	GetEmbedding(ctx context.Context, chunkID core.ID) (*core.EmbeddingRecord, error)

	// DeleteEmbeddings removes embedding records by chunk ID.
	// Missing records are not an error.
	DeleteEmbeddings(ctx context.Context, chunkIDs ...core.ID) error

	// FindSimilar finds chunks whose embeddings are similar to the given
	// vector. Returns results with similarity >= minSimilarity matching all
	// filters, up to limit results, ordered by similarity (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int, filters []Filter) ([]*core.SearchResult, error)
}

// ReportRepository provides an append-only history of quality reports.
type ReportRepository interface {
	Repository

	// AppendReport appends a report to the history. Sets CreatedAt if not
	// already set. Reports are never mutated after creation; appending a
	// report for an already-seen (query, response) pair overwrites only the
	// latest entry for that pair.
	AppendReport(ctx context.Context, report *core.QualityReport) (*core.QualityReport, error)

	// GetReportsByDateRange retrieves reports within a time range.
	// Returns reports where start <= CreatedAt < end, ordered by creation time.
	GetReportsByDateRange(ctx context.Context, start, end time.Time) ([]*core.QualityReport, error)

	// GetRecentReports retrieves the N most recent reports, newest first.
	GetRecentReports(ctx context.Context, limit int) ([]*core.QualityReport, error)
}

// SourceStateRepository tracks per-source ingestion state.
type SourceStateRepository interface {
	// SaveSourceState persists the ingestion state for a source path.
	SaveSourceState(ctx context.Context, state *core.SourceState) error

	// LoadSourceState retrieves the ingestion state for a source path.
	// Returns nil, nil if no state exists.
	LoadSourceState(ctx context.Context, sourcePath string) (*core.SourceState, error)
}
