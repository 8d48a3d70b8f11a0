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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidReport indicates a QualityReport failed validation.
	ErrInvalidReport = errors.New("invalid quality report")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptySourcePath indicates the SourcePath field is empty.
	ErrEmptySourcePath = errors.New("source path cannot be empty")

	// ErrNegativeIndex indicates a negative IndexInDoc value.
	ErrNegativeIndex = errors.New("index in document cannot be negative")

	// ErrTokenCountMismatch indicates a non-positive TokenCount value.
	ErrTokenCountMismatch = errors.New("token count must be positive")

	// ErrScoreOutOfRange indicates a score outside [0,1].
	ErrScoreOutOfRange = errors.New("score must be in [0,1]")
)
