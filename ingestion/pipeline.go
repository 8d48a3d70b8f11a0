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


package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/chunker"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

// DefaultPoolSize bounds concurrent document ingestion so the
// embedding backend is not overwhelmed.
const DefaultPoolSize = 5

// Pipeline turns raw documents into stored chunks and embeddings.
// Re-ingesting an unchanged file is a no-op; a changed file supersedes
// its previous chunks, and leftover chunks past the new end of the
// document are removed.
type Pipeline struct {
	chunks   storage.ChunkRepository
	vectors  storage.VectorRepository
	states   storage.SourceStateRepository
	embedder ai.Embedder
	chunker  *chunker.Chunker

	modelName string
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for batch ingestion.
// Default is 5.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithChunker replaces the default chunker configuration.
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.chunker = c
		}
		return nil
	}
}

// WithModelName records which embedding model produced the vectors.
func WithModelName(name string) Option {
	return func(p *Pipeline) error {
		if name != "" {
			p.modelName = name
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunks storage.ChunkRepository,
	vectors storage.VectorRepository,
	states storage.SourceStateRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if states == nil {
		return nil, ErrStateRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		chunks:    chunks,
		vectors:   vectors,
		states:    states,
		embedder:  embedder,
		chunker:   chunker.New(),
		modelName: ai.DefaultConfig().EmbeddingModel,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	if p.pool == nil {
		pool, err := ants.NewPool(DefaultPoolSize)
		if err != nil {
			return nil, err
		}
		p.pool = pool
	}

	return p, nil
}

// Release shuts down the worker pool.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// IngestDocument chunks, embeds, and stores one document. Embedding
// failures are fatal here, unlike at query time: storing a chunk
// without its vector would silently exclude it from semantic search.
// All embeddings are generated before anything is written, so a failed
// run leaves the store untouched.
func (p *Pipeline) IngestDocument(ctx context.Context, doc Document) (*Result, error) {
	if doc.Path == "" {
		return nil, ErrEmptyPath
	}

	state, err := p.states.LoadSourceState(ctx, doc.Path)
	if err != nil {
		return nil, err
	}
	if state != nil && !doc.Mtime.IsZero() && state.FileMtime.Equal(doc.Mtime) {
		p.logger.Debug("source unchanged, skipping", "path", doc.Path)
		return &Result{SourcePath: doc.Path, Skipped: true}, nil
	}

	chunks := p.chunker.ChunkDocument(doc.Path, doc.Text, doc.Mtime)

	var records []*core.EmbeddingRecord
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Text
		}
		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, err
		}

		stored, err := p.chunks.UpsertChunks(ctx, chunks...)
		if err != nil {
			return nil, err
		}
		chunks = stored

		now := time.Now()
		records = make([]*core.EmbeddingRecord, len(chunks))
		for i, chunk := range chunks {
			records[i] = &core.EmbeddingRecord{
				ChunkId:   chunk.Id,
				Vector:    ai.NormalizeVector(vectors[i]),
				ModelName: p.modelName,
				CreatedAt: now,
			}
		}
		if err := p.vectors.PutEmbeddings(ctx, records...); err != nil {
			return nil, err
		}
	}

	deleted, err := p.removeStaleChunks(ctx, doc.Path, len(chunks))
	if err != nil {
		return nil, err
	}

	err = p.states.SaveSourceState(ctx, &core.SourceState{
		SourcePath: doc.Path,
		FileMtime:  doc.Mtime,
		ChunkCount: len(chunks),
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("ingested document",
		"path", doc.Path, "chunks", len(chunks), "stale_removed", deleted)
	return &Result{
		SourcePath:    doc.Path,
		ChunksWritten: len(chunks),
		ChunksDeleted: deleted,
	}, nil
}

// removeStaleChunks deletes chunks whose index lies past the end of
// the re-ingested document, along with their embeddings. A shrunken
// document would otherwise keep serving its amputated tail.
func (p *Pipeline) removeStaleChunks(ctx context.Context, sourcePath string, newCount int) (int, error) {
	existing, err := p.chunks.GetChunksBySource(ctx, sourcePath)
	if err != nil {
		return 0, err
	}

	var staleIDs []core.ID
	for _, chunk := range existing {
		if chunk.IndexInDoc >= newCount {
			staleIDs = append(staleIDs, chunk.Id)
		}
	}
	if len(staleIDs) == 0 {
		return 0, nil
	}

	if err := p.chunks.DeleteChunks(ctx, staleIDs...); err != nil {
		return 0, err
	}
	if err := p.vectors.DeleteEmbeddings(ctx, staleIDs...); err != nil {
		return 0, err
	}
	return len(staleIDs), nil
}

// IngestDocuments fans the documents out over the worker pool. Every
// document is attempted; the first error encountered is returned after
// the batch drains, alongside the counts of what did succeed.
func (p *Pipeline) IngestDocuments(ctx context.Context, docs []Document) (*BatchResult, error) {
	batch := &BatchResult{}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, doc := range docs {
		doc := doc
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			result, err := p.IngestDocument(ctx, doc)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				batch.Failed++
				if firstErr == nil {
					firstErr = err
				}
				p.logger.Error("error ingesting document", "path", doc.Path, "err", err)
			case result.Skipped:
				batch.Skipped++
			default:
				batch.Ingested++
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			batch.Failed++
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	return batch, firstErr
}
