// Package rerank re-orders retrieval candidates with a cross encoder.
//
// The cross encoder scores each (query, document) pair jointly, which
// is more accurate than embedding similarity but far more expensive, so
// only a capped pool of top candidates is scored. Raw scores are
// min-max normalized within the batch and blended with the original
// similarity; an unavailable cross encoder degrades to the similarity
// ordering instead of failing the query.
package rerank
