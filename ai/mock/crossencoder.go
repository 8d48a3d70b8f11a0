package mock

import (
	"context"
	"strings"
)

// MockCrossEncoder is a test double for ai.CrossEncoder.
// It allows custom behavior injection via a function field.
type MockCrossEncoder struct {
	// ScoreFunc is called by Score if set.
	// If nil, uses default lexical-overlap behavior.
	ScoreFunc func(ctx context.Context, query, document string) (float64, error)

	callCount int
}

// NewMockCrossEncoder creates a mock cross encoder with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockCrossEncoder().
func NewMockCrossEncoder() *MockCrossEncoder {
	return &MockCrossEncoder{}
}

// Score returns the fraction of query words present in the document.
// Deterministic, and higher when the document actually covers the query,
// so re-ranking tests can assert on ordering.
func (m *MockCrossEncoder) Score(ctx context.Context, query, document string) (float64, error) {
	m.callCount++

	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, query, document)
	}

	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0, nil
	}

	docText := strings.ToLower(document)
	matched := 0
	for _, word := range queryWords {
		word = strings.Trim(word, ".,!?;:\"'()[]")
		if word != "" && strings.Contains(docText, word) {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords)), nil
}

// CallCount returns the number of times Score was called.
func (m *MockCrossEncoder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockCrossEncoder) Reset() {
	m.callCount = 0
	m.ScoreFunc = nil
}
