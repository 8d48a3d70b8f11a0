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


package core

import (
	"fmt"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - SourcePath must not be empty
//   - IndexInDoc must not be negative
//   - TokenCount must be positive
//
// NOT validated (populated by the storage layer):
//   - InsertedAt / UpdatedAt timestamps
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.SourcePath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySourcePath)
	}

	if chunk.IndexInDoc < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeIndex)
	}

	if chunk.TokenCount <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrTokenCountMismatch)
	}

	return nil
}

// ValidateQualityReport validates a QualityReport according to domain rules.
//
// Validation rules:
//   - OverallScore and every sub-score must be in [0,1]
//   - Level must agree with OverallScore
func ValidateQualityReport(report *QualityReport) error {
	if report == nil {
		return fmt.Errorf("%w: report is nil", ErrInvalidReport)
	}

	scores := []float64{
		report.OverallScore,
		report.SubScores.Basic,
		report.SubScores.Semantic,
		report.SubScores.Relevance,
		report.SubScores.Completeness,
		report.SubScores.Coherence,
	}
	for _, s := range scores {
		if s < 0.0 || s > 1.0 {
			return fmt.Errorf("%w: %w: %f", ErrInvalidReport, ErrScoreOutOfRange, s)
		}
	}

	if report.Level != LevelForScore(report.OverallScore) {
		return fmt.Errorf("%w: level %q does not match score %f", ErrInvalidReport, report.Level, report.OverallScore)
	}

	return nil
}
