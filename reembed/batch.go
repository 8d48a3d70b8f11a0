package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

// BatchProcessor regenerates embeddings for batches of chunks.
type BatchProcessor struct {
	vectors        storage.VectorRepository
	embedder       ai.Embedder
	modelName      string
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// modelName: recorded on every regenerated embedding
// maxRetries: maximum number of retry attempts for embedding calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorRepository, embedder ai.Embedder, modelName string, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		modelName:      modelName,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates the embeddings for a batch of chunks and stores
// them, overwriting the previous model's records. Vectors are
// normalized so the dot product stays a cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	now := time.Now()
	records := make([]*core.EmbeddingRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = &core.EmbeddingRecord{
			ChunkId:   chunk.Id,
			Vector:    ai.NormalizeVector(embeddings[i]),
			ModelName: bp.modelName,
			CreatedAt: now,
		}
	}

	if err := bp.vectors.PutEmbeddings(ctx, records...); err != nil {
		return fmt.Errorf("failed to store embeddings: %w", err)
	}

	return nil
}
