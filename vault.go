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


package recallit

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/ai/openai"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/ingestion"
	"github.com/poiesic/recallit/quality"
	"github.com/poiesic/recallit/reembed"
	"github.com/poiesic/recallit/rerank"
	"github.com/poiesic/recallit/search"
	"github.com/poiesic/recallit/storage/badger"
)

// Vault is the top-level handle on a knowledge base: one storage
// backend plus the ingestion, retrieval, re-ranking, and quality
// machinery wired on top of it.
type Vault struct {
	repos     *badger.Repositories
	provider  ai.AIProvider
	embedder  *ai.CachingEmbedder
	pipeline  *ingestion.Pipeline
	retriever *search.Retriever
	reranker  *rerank.Reranker
	evaluator *quality.Evaluator
	logger    *slog.Logger
}

// VaultOption configures a Vault.
type VaultOption func(*vaultOptions)

type vaultOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	poolSize int
}

// WithAIConfig overrides the AI service configuration.
func WithAIConfig(config *ai.Config) VaultOption {
	return func(o *vaultOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an already-constructed AI provider instead of
// dialing the configured services.
func WithProvider(provider ai.AIProvider) VaultOption {
	return func(o *vaultOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps the whole store in memory. Only useful for tests
// and experiments.
func WithInMemory() VaultOption {
	return func(o *vaultOptions) {
		o.inMemory = true
	}
}

// WithPoolSize bounds concurrent embedding work during ingestion.
func WithPoolSize(size int) VaultOption {
	return func(o *vaultOptions) {
		o.poolSize = size
	}
}

// NewVault opens or creates the knowledge base at filePath.
func NewVault(filePath string, opts ...VaultOption) (*Vault, error) {
	options := &vaultOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	repos, err := badger.NewRepositories(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repos.Close()
			return nil, err
		}
	}

	embedder := ai.NewCachingEmbedder(provider.Embedder(), options.aiConfig.EmbeddingModel)

	pipelineOpts := []ingestion.Option{
		ingestion.WithModelName(options.aiConfig.EmbeddingModel),
	}
	if options.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(options.poolSize))
	}
	pipeline, err := ingestion.NewPipeline(repos.Chunks, repos.Vectors, repos.States, embedder, pipelineOpts...)
	if err != nil {
		provider.Close()
		repos.Close()
		return nil, err
	}

	retriever, err := search.NewRetriever(repos.Chunks, repos.Vectors, embedder)
	if err != nil {
		pipeline.Release()
		provider.Close()
		repos.Close()
		return nil, err
	}

	rerankOpts := []rerank.Option{}
	if options.poolSize > 0 {
		rerankOpts = append(rerankOpts, rerank.WithPoolSize(options.poolSize))
	}
	reranker, err := rerank.NewReranker(provider.CrossEncoder(), rerankOpts...)
	if err != nil {
		pipeline.Release()
		provider.Close()
		repos.Close()
		return nil, err
	}

	evaluator, err := quality.NewEvaluator(embedder, quality.WithReportRepository(repos.Reports))
	if err != nil {
		reranker.Close()
		pipeline.Release()
		provider.Close()
		repos.Close()
		return nil, err
	}

	return &Vault{
		repos:     repos,
		provider:  provider,
		embedder:  embedder,
		pipeline:  pipeline,
		retriever: retriever,
		reranker:  reranker,
		evaluator: evaluator,
		logger:    slog.Default(),
	}, nil
}

// Close releases every resource the vault holds.
func (v *Vault) Close() error {
	v.reranker.Close()
	v.pipeline.Release()

	if err := v.provider.Close(); err != nil {
		v.logger.Error("error closing AI provider", "err", err)
	}
	if err := v.repos.Close(); err != nil {
		v.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

// Repositories exposes the underlying stores for advanced use.
func (v *Vault) Repositories() *badger.Repositories {
	return v.repos
}

// Ingest stores the documents as chunks with embeddings. Unchanged
// files are skipped.
func (v *Vault) Ingest(ctx context.Context, docs ...ingestion.Document) (*ingestion.BatchResult, error) {
	return v.pipeline.IngestDocuments(ctx, docs)
}

// Search runs a retrieval request without re-ranking.
func (v *Vault) Search(ctx context.Context, req search.Request) ([]*core.SearchResult, error) {
	return v.retriever.Search(ctx, req)
}

// Query retrieves candidates for a hybrid search and re-ranks them
// with the cross encoder, returning the top topK results.
func (v *Vault) Query(ctx context.Context, query string, topK int) ([]*core.RerankedResult, error) {
	if topK <= 0 {
		topK = 5
	}

	// Retrieve a full candidate pool; the reranker narrows it down.
	limit := rerank.DefaultCandidatePool
	if topK > limit {
		limit = topK
	}
	candidates, err := v.retriever.Search(ctx, search.Request{
		Query: query,
		Mode:  search.ModeHybrid,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	return v.reranker.Rerank(ctx, query, candidates, topK)
}

// Evaluate scores a generated response against its query and source
// documents, appending the report to the quality history.
func (v *Vault) Evaluate(ctx context.Context, query, response string, docs []string) *core.QualityReport {
	return v.evaluator.Evaluate(ctx, query, response, docs)
}

// QualityTrend summarizes the quality-report history over [start, end).
func (v *Vault) QualityTrend(ctx context.Context, start, end time.Time) (*quality.Trend, error) {
	return quality.TrendOverRange(ctx, v.repos.Reports, start, end)
}

// Reembed regenerates every stored embedding, stamping the records
// with modelName. Run it after switching embedding models; mixed-model
// vectors make cosine comparisons meaningless.
func (v *Vault) Reembed(ctx context.Context, modelName string, progress io.Writer) error {
	r, err := reembed.NewReembedder(v.repos.Chunks, v.repos.Vectors, v.embedder, modelName, nil, progress)
	if err != nil {
		return err
	}
	return r.Run(ctx)
}
