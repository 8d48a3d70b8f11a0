package search

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/query"
	"github.com/poiesic/recallit/storage"
)

// Mode selects the retrieval strategy for one search request.
type Mode string

const (
	ModeSemantic Mode = "semantic"
	ModeKeyword  Mode = "keyword"
	ModeHybrid   Mode = "hybrid"
	ModeTag      Mode = "tag"
)

// Request describes one search.
type Request struct {
	Query   string
	Limit   int
	Mode    Mode
	Tag     string           // Tag to match; ModeTag only
	Filters []storage.Filter // Metadata predicates applied to every mode
}

// Retriever answers search requests against the chunk and vector
// repositories. A query that matches nothing returns an empty slice,
// never an error; only storage failures surface to the caller.
type Retriever struct {
	chunks   storage.ChunkRepository
	vectors  storage.VectorRepository
	embedder ai.Embedder
	expander query.Expander

	minSimilarity  float32
	semanticWeight float64
	keywordWeight  float64
	logger         *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithExpander replaces the default rule-based query expander.
func WithExpander(expander query.Expander) Option {
	return func(r *Retriever) error {
		if expander != nil {
			r.expander = expander
		}
		return nil
	}
}

// WithMinSimilarity sets the semantic similarity floor.
// Default is 0.25.
func WithMinSimilarity(min float32) Option {
	return func(r *Retriever) error {
		r.minSimilarity = min
		return nil
	}
}

// WithHybridWeights sets how semantic and keyword scores combine in
// hybrid mode. Defaults are 0.7 and 0.3.
func WithHybridWeights(semantic, keyword float64) Option {
	return func(r *Retriever) error {
		r.semanticWeight = semantic
		r.keywordWeight = keyword
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(
	chunks storage.ChunkRepository,
	vectors storage.VectorRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Retriever, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		chunks:         chunks,
		vectors:        vectors,
		embedder:       embedder,
		expander:       query.NewRuleBasedExpander(3),
		minSimilarity:  0.25,
		semanticWeight: 0.7,
		keywordWeight:  0.3,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Search answers a request. See SearchWithMonitor.
func (r *Retriever) Search(ctx context.Context, req Request) ([]*core.SearchResult, error) {
	return r.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor answers a request, reporting each stage to the
// monitor. Semantic and hybrid searches degrade to keyword matching
// when the embedder is unavailable; the degradation is observable via
// the monitor and the log, but never fails the query.
func (r *Retriever) SearchWithMonitor(ctx context.Context, req Request, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if req.Mode == "" {
		req.Mode = ModeHybrid
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Query == "" && !(req.Mode == ModeTag && req.Tag != "") {
		return nil, ErrEmptyQuery
	}
	for _, f := range req.Filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	monitor.Start(req.Query)

	var results []*core.SearchResult
	var err error
	switch req.Mode {
	case ModeSemantic:
		results, err = r.searchSemantic(ctx, req, monitor)
	case ModeKeyword:
		results, err = r.searchKeyword(ctx, req, monitor)
	case ModeHybrid:
		results, err = r.searchHybrid(ctx, req, monitor)
	case ModeTag:
		results, err = r.searchTag(ctx, req, monitor)
	default:
		return nil, ErrUnknownMode
	}
	if err != nil {
		return nil, err
	}

	if results == nil {
		results = []*core.SearchResult{}
	}
	monitor.Finish(results)
	return results, nil
}

// searchSemantic embeds the expanded query and runs a vector search.
// An unavailable embedder degrades to keyword matching.
func (r *Retriever) searchSemantic(ctx context.Context, req Request, monitor SearchMonitor) ([]*core.SearchResult, error) {
	expansion, err := r.expander.Expand(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	monitor.AfterExpansion(expansion)

	vector, err := r.embedder.EmbedText(ctx, expansion.ExpandedQuery)
	if err != nil {
		if errors.Is(err, ai.ErrEmbeddingUnavailable) {
			r.logger.Warn("embedder unavailable, degrading to keyword search", "err", err)
			monitor.DegradedToKeyword(err)
			return r.searchKeyword(ctx, req, monitor)
		}
		return nil, err
	}

	matches, err := r.vectors.FindSimilar(ctx, ai.NormalizeVector(vector), r.minSimilarity, req.Limit, req.Filters)
	if err != nil {
		return nil, err
	}

	monitor.AfterSemanticSearch(resultIDs(matches))
	return matches, nil
}

// searchKeyword scans every chunk and scores it by the fraction of
// query terms its text contains. No index is consulted; a personal
// vault is small enough that a linear scan holds up.
func (r *Retriever) searchKeyword(ctx context.Context, req Request, monitor SearchMonitor) ([]*core.SearchResult, error) {
	queryTerms := tokenizeAndFilter(req.Query)
	if len(queryTerms) == 0 {
		return []*core.SearchResult{}, nil
	}

	var results []*core.SearchResult
	err := r.chunks.ScanChunks(ctx, func(chunk *core.Chunk) error {
		if !storage.MatchAll(req.Filters, chunk) {
			return nil
		}
		score := termFraction(chunk.Text, queryTerms)
		if score <= 0 {
			return nil
		}
		results = append(results, &core.SearchResult{
			Chunk:      chunk,
			Similarity: float32(score),
			Source:     core.SourceKeyword,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	monitor.AfterKeywordSearch(resultIDs(results))
	return results, nil
}

// searchHybrid merges semantic and keyword hits. Scores combine as
// semanticWeight*similarity + keywordWeight*termFraction; a chunk found
// by both paths keeps the higher combined score.
func (r *Retriever) searchHybrid(ctx context.Context, req Request, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Both passes retrieve a full limit; merging trims afterwards.
	semantic, err := r.searchSemantic(ctx, req, monitor)
	if err != nil {
		return nil, err
	}
	keyword, err := r.searchKeyword(ctx, req, monitor)
	if err != nil {
		return nil, err
	}

	queryTerms := tokenizeAndFilter(req.Query)
	combined := make(map[core.ID]*core.SearchResult)

	score := func(semanticSim, keywordFrac float64) float32 {
		return float32(r.semanticWeight*semanticSim + r.keywordWeight*keywordFrac)
	}

	for _, hit := range semantic {
		// A semantic hit may also match keywords; credit both signals.
		kw := termFraction(hit.Chunk.Text, queryTerms)
		combined[hit.Chunk.Id] = &core.SearchResult{
			Chunk:      hit.Chunk,
			Similarity: score(float64(hit.Similarity), kw),
			Source:     core.SourceHybrid,
		}
	}
	for _, hit := range keyword {
		merged := &core.SearchResult{
			Chunk:      hit.Chunk,
			Similarity: score(0, float64(hit.Similarity)),
			Source:     core.SourceHybrid,
		}
		existing, ok := combined[hit.Chunk.Id]
		if !ok || merged.Similarity > existing.Similarity {
			combined[hit.Chunk.Id] = merged
		}
	}

	results := make([]*core.SearchResult, 0, len(combined))
	for _, hit := range combined {
		results = append(results, hit)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity == results[j].Similarity {
			return results[i].Chunk.Id < results[j].Chunk.Id
		}
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	return results, nil
}

// searchTag returns chunks carrying the exact tag.
func (r *Retriever) searchTag(ctx context.Context, req Request, monitor SearchMonitor) ([]*core.SearchResult, error) {
	tag := req.Tag
	if tag == "" {
		tag = req.Query
	}

	chunks, err := r.chunks.GetChunksByTag(ctx, tag, req.Limit)
	if err != nil {
		return nil, err
	}

	var results []*core.SearchResult
	for _, chunk := range chunks {
		if !storage.MatchAll(req.Filters, chunk) {
			continue
		}
		results = append(results, &core.SearchResult{
			Chunk:      chunk,
			Similarity: 1.0,
			Source:     core.SourceTag,
		})
	}

	monitor.AfterTagSearch(resultIDs(results))
	return results, nil
}

func resultIDs(results []*core.SearchResult) []uint64 {
	ids := make([]uint64, 0, len(results))
	for _, r := range results {
		ids = append(ids, uint64(r.Chunk.Id))
	}
	return ids
}
