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


package ai

import "errors"

var (
	// ErrEmbeddingUnavailable indicates the embedding service could not be
	// reached or returned an unusable response. Search degrades to keyword
	// matching when it sees this error; ingestion treats it as fatal.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRerankUnavailable indicates the cross-encoder service could not
	// be reached or returned an unusable response. Re-ranking degrades to
	// the original similarity ordering when it sees this error.
	ErrRerankUnavailable = errors.New("rerank service unavailable")

	// ErrEmptyVector indicates an embedding response carried no values.
	ErrEmptyVector = errors.New("embedding vector is empty")
)
