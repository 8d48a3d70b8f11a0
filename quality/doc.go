// Package quality scores generated responses against their query and
// retrieved documents.
//
// Five independent axes (basic, semantic, relevance, completeness,
// coherence) combine into a weighted overall score and a quality
// level. The evaluator is a diagnostic tool and never fails on the
// inputs it is meant to characterize: an empty response scores 0.0
// and "poor", and an unreachable embedder only degrades the semantic
// axis to lexical overlap.
//
// The package also carries ranking metrics (precision@k, MRR, NDCG@k)
// for regression-testing retrieval independently of response
// generation, and trend aggregation over the report history.
package quality
