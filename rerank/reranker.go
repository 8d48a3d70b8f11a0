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

package rerank

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
)

const (
	// DefaultAlpha weights the cross-encoder score against the original
	// similarity. The cross encoder sees query and document jointly, so
	// it gets the larger share.
	DefaultAlpha = 0.7

	// DefaultCandidatePool caps how many candidates are cross-encoded.
	DefaultCandidatePool = 20

	// DefaultPoolSize bounds concurrent cross-encoder calls.
	DefaultPoolSize = 5
)

// Reranker re-scores retrieval candidates with a cross encoder and
// blends the result with the original similarity. It is stateless
// apart from its worker pool; concurrent Rerank calls are safe.
type Reranker struct {
	crossEncoder  ai.CrossEncoder
	alpha         float64
	candidatePool int
	pool          *ants.Pool
	logger        *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker) error

// WithAlpha sets the blend weight for the normalized cross-encoder
// score. Default is 0.7.
func WithAlpha(alpha float64) Option {
	return func(r *Reranker) error {
		if alpha < 0 || alpha > 1 {
			return ErrInvalidAlpha
		}
		r.alpha = alpha
		return nil
	}
}

// WithCandidatePool caps how many top candidates (by similarity) are
// sent to the cross encoder. Default is 20.
func WithCandidatePool(size int) Option {
	return func(r *Reranker) error {
		if size > 0 {
			r.candidatePool = size
		}
		return nil
	}
}

// WithPoolSize bounds concurrent cross-encoder calls. Default is 5.
func WithPoolSize(size int) Option {
	return func(r *Reranker) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReranker creates a reranker backed by the given cross encoder.
func NewReranker(crossEncoder ai.CrossEncoder, opts ...Option) (*Reranker, error) {
	if crossEncoder == nil {
		return nil, ErrCrossEncoderRequired
	}

	r := &Reranker{
		crossEncoder:  crossEncoder,
		alpha:         DefaultAlpha,
		candidatePool: DefaultCandidatePool,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			if r.pool != nil {
				r.pool.Release()
			}
			return nil, err
		}
	}

	if r.pool == nil {
		pool, err := ants.NewPool(DefaultPoolSize)
		if err != nil {
			return nil, err
		}
		r.pool = pool
	}

	return r, nil
}

// Close releases the worker pool.
func (r *Reranker) Close() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Rerank scores the top candidates against the query and returns up to
// topK results ordered by blended score. Re-ranking the entire corpus
// is deliberately avoided: only the candidatePool best candidates by
// similarity are cross-encoded.
//
// If any cross-encoder call fails, the whole batch degrades to the
// original similarity ordering with Degraded set, rather than failing
// the query.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []*core.SearchResult, topK int) ([]*core.RerankedResult, error) {
	if len(candidates) == 0 {
		return []*core.RerankedResult{}, nil
	}
	if topK <= 0 {
		topK = len(candidates)
	}

	// Cap the candidate pool by initial similarity.
	pool := make([]*core.SearchResult, len(candidates))
	copy(pool, candidates)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Similarity > pool[j].Similarity
	})
	if len(pool) > r.candidatePool {
		pool = pool[:r.candidatePool]
	}

	rawScores, err := r.scoreAll(ctx, query, pool)
	if err != nil {
		r.logger.Warn("cross encoder unavailable, keeping similarity ordering", "err", err)
		return degradedResults(pool, topK), nil
	}

	// Raw cross-encoder outputs are batch-relative: min-max normalize
	// over this candidate set only.
	normalized := minMaxNormalize(rawScores)

	results := make([]*core.RerankedResult, len(pool))
	for i, candidate := range pool {
		results[i] = &core.RerankedResult{
			SearchResult: *candidate,
			CrossScore:   normalized[i],
			FinalScore:   r.alpha*normalized[i] + (1-r.alpha)*float64(candidate.Similarity),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// scoreAll fans the (query, document) pairs out over the worker pool.
// The first error wins; remaining scores are still awaited so the pool
// drains cleanly.
func (r *Reranker) scoreAll(ctx context.Context, query string, candidates []*core.SearchResult) ([]float64, error) {
	scores := make([]float64, len(candidates))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, candidate := range candidates {
		i, candidate := i, candidate
		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			score, err := r.crossEncoder.Score(ctx, query, candidate.Chunk.Text)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			scores[i] = score
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return scores, nil
}

// degradedResults keeps the similarity ordering, reporting the raw
// similarity as the cross score.
func degradedResults(pool []*core.SearchResult, topK int) []*core.RerankedResult {
	results := make([]*core.RerankedResult, 0, len(pool))
	for _, candidate := range pool {
		results = append(results, &core.RerankedResult{
			SearchResult: *candidate,
			CrossScore:   float64(candidate.Similarity),
			FinalScore:   float64(candidate.Similarity),
			Degraded:     true,
		})
	}
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// minMaxNormalize maps the scores into [0,1] relative to this batch.
// A degenerate batch (all scores equal) maps to 0.5 so the blend falls
// back to the similarity ordering.
func minMaxNormalize(scores []float64) []float64 {
	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	normalized := make([]float64, len(scores))
	if max == min {
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}
	for i, s := range scores {
		normalized[i] = (s - min) / (max - min)
	}
	return normalized
}
