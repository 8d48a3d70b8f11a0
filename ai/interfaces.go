package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error wrapping ErrEmbeddingUnavailable if the service
	// cannot be reached.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CrossEncoder scores the relevance of a document to a query by reading
// both together, which is slower but more accurate than comparing their
// embeddings. Implementations must be thread-safe for concurrent use.
type CrossEncoder interface {
	// Score returns a relevance score for the (query, document) pair.
	// Raw scores carry no fixed scale; callers normalize them per batch.
	// Returns an error wrapping ErrRerankUnavailable if the service
	// cannot be reached.
	Score(ctx context.Context, query, document string) (float64, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// CrossEncoder instances, ensuring they share configuration and resources.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// CrossEncoder returns the relevance scoring service.
	// The returned CrossEncoder is safe for concurrent use.
	CrossEncoder() CrossEncoder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
