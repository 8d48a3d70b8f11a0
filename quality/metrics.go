package quality

import (
	"math"

	"github.com/poiesic/recallit/core"
)

// BinaryRelevance labels each result relevant iff its text contains at
// least one query content term. A stand-in for human judgments that is
// good enough for regression-testing ranking changes.
func BinaryRelevance(query string, results []*core.SearchResult) []bool {
	queryTerms := contentTerms(query)
	labels := make([]bool, len(results))
	for i, result := range results {
		labels[i] = containsAny(result.Chunk.Text, queryTerms)
	}
	return labels
}

func containsAny(text string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	present := termSet(text)
	for _, term := range terms {
		if present[term] {
			return true
		}
	}
	return false
}

// PrecisionAtK is the fraction of the top k labels that are relevant.
// Returns 0 when k <= 0 or there are no labels.
func PrecisionAtK(labels []bool, k int) float64 {
	if k <= 0 || len(labels) == 0 {
		return 0
	}
	if k > len(labels) {
		k = len(labels)
	}
	relevant := 0
	for _, label := range labels[:k] {
		if label {
			relevant++
		}
	}
	return float64(relevant) / float64(k)
}

// MRR is the reciprocal rank of the first relevant label, zero when
// nothing is relevant.
func MRR(labels []bool) float64 {
	for i, label := range labels {
		if label {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// NDCGAtK is the normalized discounted cumulative gain over the top k
// labels, with binary gains. The ideal ordering puts every relevant
// label first.
func NDCGAtK(labels []bool, k int) float64 {
	if k <= 0 || len(labels) == 0 {
		return 0
	}
	if k > len(labels) {
		k = len(labels)
	}

	relevant := 0
	dcg := 0.0
	for i, label := range labels[:k] {
		if label {
			relevant++
			dcg += 1.0 / math.Log2(float64(i)+2)
		}
	}
	for _, label := range labels[k:] {
		if label {
			relevant++
		}
	}
	if relevant == 0 {
		return 0
	}

	ideal := 0.0
	for i := 0; i < relevant && i < k; i++ {
		ideal += 1.0 / math.Log2(float64(i)+2)
	}
	return dcg / ideal
}
