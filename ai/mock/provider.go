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


package mock

import "github.com/poiesic/recallit/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder and cross encoder instances.
type MockProvider struct {
	embedder     *MockEmbedder
	crossEncoder *MockCrossEncoder
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockCrossEncoder() to access concrete types for
// test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:     NewMockEmbedder(),
		crossEncoder: NewMockCrossEncoder(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, crossEncoder *MockCrossEncoder) ai.AIProvider {
	return &MockProvider{
		embedder:     embedder,
		crossEncoder: crossEncoder,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// CrossEncoder returns the mock cross encoder.
func (p *MockProvider) CrossEncoder() ai.CrossEncoder {
	return p.crossEncoder
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockCrossEncoder returns the underlying mock cross encoder for test
// assertions. This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockCrossEncoder() *MockCrossEncoder {
	return p.crossEncoder
}
