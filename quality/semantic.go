package quality

import (
	"context"

	"github.com/poiesic/recallit/ai"
)

// semanticScore averages the query-response cosine similarity with the
// mean response-document similarity. When the embedder is unavailable
// it falls back to lexical overlap and reports the degradation; the
// evaluator never raises for it.
func semanticScore(ctx context.Context, embedder ai.Embedder, query, response string, docs []string) (score float64, degraded bool) {
	texts := make([]string, 0, len(docs)+2)
	texts = append(texts, query, response)
	texts = append(texts, docs...)

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		return lexicalFallback(query, response, docs), true
	}

	queryVec, responseVec := vectors[0], vectors[1]
	queryResponse := clamp01(float64(ai.CosineSimilarity(queryVec, responseVec)))
	if len(docs) == 0 {
		return queryResponse, false
	}

	var docTotal float64
	for _, docVec := range vectors[2:] {
		docTotal += clamp01(float64(ai.CosineSimilarity(responseVec, docVec)))
	}
	docMean := docTotal / float64(len(docs))

	return clamp01((queryResponse + docMean) / 2), false
}

// lexicalFallback approximates semantic similarity with term overlap.
func lexicalFallback(query, response string, docs []string) float64 {
	queryResponse := overlapFraction(query, response)
	if len(docs) == 0 {
		return queryResponse
	}

	var docTotal float64
	for _, doc := range docs {
		docTotal += overlapFraction(response, doc)
	}
	return clamp01((queryResponse + docTotal/float64(len(docs))) / 2)
}
