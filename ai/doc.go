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


// Package ai provides abstractions for the AI services used in Recallit.
//
// This package defines interfaces for text embedding and cross-encoder
// relevance scoring. It follows the dependency inversion principle,
// allowing the retrieval and evaluation logic to depend on abstractions
// rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - CrossEncoder: Scores (query, document) relevance
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Caching
//
// CachingEmbedder wraps any Embedder with an in-memory cache keyed on the
// model name and a content hash of the text, so re-ingesting unchanged
// documents or repeating queries never re-embeds identical text.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	embedder := ai.NewCachingEmbedder(provider.Embedder(), config.EmbeddingModel)
//	vector, err := embedder.EmbedText(ctx, "Hello world")
//	score, err := provider.CrossEncoder().Score(ctx, "query", "document")
package ai
