// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

const (
	// DefaultBatchSize is the default number of chunks per batch
	DefaultBatchSize = 100
)

// ChunkIterator walks every stored chunk in batches. Chunks are
// streamed from the store, so the full corpus is never held in memory
// at once.
type ChunkIterator struct {
	chunks    storage.ChunkRepository
	batchSize int
}

// NewChunkIterator creates a new chunk iterator.
// batchSize: number of chunks per batch (must be > 0)
func NewChunkIterator(chunks storage.ChunkRepository, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ChunkIterator{
		chunks:    chunks,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of chunks. Iteration stops on the
// first error from fn; context cancellation is checked between chunks.
func (it *ChunkIterator) ForEach(ctx context.Context, fn func([]*core.Chunk) error) error {
	batch := make([]*core.Chunk, 0, it.batchSize)

	err := it.chunks.ScanChunks(ctx, func(chunk *core.Chunk) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch = append(batch, chunk)
		if len(batch) == it.batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = make([]*core.Chunk, 0, it.batchSize)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
