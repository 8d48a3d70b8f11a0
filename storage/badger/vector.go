package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
// Embeddings are stored as flat records and scanned exhaustively on
// search, which is plenty for a personal vault of a few thousand chunks.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (*VectorRepository, error) {
	return &VectorRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VectorRepository has no resources to release.
func (r *VectorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VectorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutEmbeddings stores embedding records, overwriting any existing
// record for the same chunk.
func (r *VectorRepository) PutEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeEmbeddingKey(record.ChunkId)
			if err := tx.Set(key, storage.MarshalEmbeddingRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEmbedding retrieves the embedding record for a chunk.
func (r *VectorRepository) GetEmbedding(ctx context.Context, chunkID core.ID) (*core.EmbeddingRecord, error) {
	var result *core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(chunkID))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalEmbeddingRecord(val)
			return err
		})
	}, false)
	return result, err
}

// DeleteEmbeddings removes embedding records by chunk ID. Missing
// records are skipped so cleanup can run over chunks that never got
// embedded.
func (r *VectorRepository) DeleteEmbeddings(ctx context.Context, chunkIDs ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunkID := range chunkIDs {
			if err := tx.Delete(makeEmbeddingKey(chunkID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar delegates to the backend's brute-force similarity scan.
func (r *VectorRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int, filters []storage.Filter) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit, filters)
}
