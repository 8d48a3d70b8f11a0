package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

// SourceStateRepository implements storage.SourceStateRepository for
// BadgerDB. It records what has been ingested from each source so
// repeated runs can skip files that have not changed.
type SourceStateRepository struct {
	backend *Backend
}

var _ storage.SourceStateRepository = (*SourceStateRepository)(nil)

// NewSourceStateRepository creates a new SourceStateRepository.
func NewSourceStateRepository(backend *Backend) (*SourceStateRepository, error) {
	return &SourceStateRepository{
		backend: backend,
	}, nil
}

// SaveSourceState persists the ingestion state for a source path.
func (r *SourceStateRepository) SaveSourceState(ctx context.Context, state *core.SourceState) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if state.UpdatedAt.IsZero() {
			state.UpdatedAt = time.Now().UTC()
		}
		key := makeSourceStateKey(state.SourcePath)
		if err := tx.Set(key, storage.MarshalSourceState(state)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadSourceState retrieves the ingestion state for a source path.
// Returns nil, nil if no state has been recorded.
func (r *SourceStateRepository) LoadSourceState(ctx context.Context, sourcePath string) (*core.SourceState, error) {
	var result *core.SourceState
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSourceStateKey(sourcePath))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalSourceState(val)
			return err
		})
	}, false)
	return result, err
}
