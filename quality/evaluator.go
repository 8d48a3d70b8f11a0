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

package quality

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

// Weights distributes the overall score across the five axes.
// They must be non-negative and sum to 1.
type Weights struct {
	Basic        float64
	Semantic     float64
	Relevance    float64
	Completeness float64
	Coherence    float64
}

// DefaultWeights returns the standard axis weighting.
func DefaultWeights() Weights {
	return Weights{
		Basic:        0.2,
		Semantic:     0.25,
		Relevance:    0.25,
		Completeness: 0.15,
		Coherence:    0.15,
	}
}

func (w Weights) validate() error {
	values := []float64{w.Basic, w.Semantic, w.Relevance, w.Completeness, w.Coherence}
	sum := 0.0
	for _, v := range values {
		if v < 0 {
			return ErrInvalidWeights
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return ErrInvalidWeights
	}
	return nil
}

// Evaluator scores (query, response, retrieved docs) triples. It is a
// diagnostic tool: it never returns an error for odd input, scoring it
// poorly instead, and an unavailable embedder only degrades the
// semantic axis.
type Evaluator struct {
	embedder ai.Embedder
	weights  Weights
	reports  storage.ReportRepository
	logger   *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithWeights overrides the axis weighting.
func WithWeights(weights Weights) Option {
	return func(e *Evaluator) error {
		if err := weights.validate(); err != nil {
			return err
		}
		e.weights = weights
		return nil
	}
}

// WithReportRepository enables appending every evaluation to the
// quality-report history.
func WithReportRepository(reports storage.ReportRepository) Option {
	return func(e *Evaluator) error {
		e.reports = reports
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEvaluator creates an evaluator backed by the given embedder.
func NewEvaluator(embedder ai.Embedder, opts ...Option) (*Evaluator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Evaluator{
		embedder: embedder,
		weights:  DefaultWeights(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Evaluate scores a generated response against its query and the
// documents retrieval produced. An empty response is the minimum
// score, not an error. When a report repository is configured the
// report is appended to the history; a failing append is logged, not
// surfaced, so quality scoring never blocks the caller.
func (e *Evaluator) Evaluate(ctx context.Context, query, response string, docs []string) *core.QualityReport {
	report := e.score(ctx, query, response, docs)

	if e.reports != nil && strings.TrimSpace(query) != "" {
		if _, err := e.reports.AppendReport(ctx, report); err != nil {
			e.logger.Error("error appending quality report", "err", err)
		}
	}
	return report
}

func (e *Evaluator) score(ctx context.Context, query, response string, docs []string) *core.QualityReport {
	now := time.Now()

	if strings.TrimSpace(response) == "" {
		return &core.QualityReport{
			Id:           core.ReportIDFor(query, response),
			Query:        query,
			Response:     response,
			OverallScore: 0.0,
			Level:        core.QualityPoor,
			Recommendations: []string{
				"response is empty; nothing to evaluate",
			},
			CreatedAt: now,
		}
	}

	semantic, degraded := semanticScore(ctx, e.embedder, query, response, docs)
	if degraded {
		e.logger.Warn("embedder unavailable, semantic axis degraded to lexical overlap")
	}

	scores := core.SubScores{
		Basic:        basicScore(query, response),
		Semantic:     semantic,
		Relevance:    relevanceScore(query, response, docs),
		Completeness: completenessScore(query, response),
		Coherence:    coherenceScore(response),
	}

	overall := clamp01(e.weights.Basic*scores.Basic +
		e.weights.Semantic*scores.Semantic +
		e.weights.Relevance*scores.Relevance +
		e.weights.Completeness*scores.Completeness +
		e.weights.Coherence*scores.Coherence)

	return &core.QualityReport{
		Id:              core.ReportIDFor(query, response),
		Query:           query,
		Response:        response,
		OverallScore:    overall,
		Level:           core.LevelForScore(overall),
		SubScores:       scores,
		Recommendations: recommendations(scores),
		Degraded:        degraded,
		CreatedAt:       now,
	}
}
