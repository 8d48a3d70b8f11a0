// Package reembed regenerates stored chunk embeddings with a new or
// updated embedding model.
//
// Mixing vectors from different models invalidates cosine-similarity
// comparisons, so a model switch requires rewriting every embedding
// record. The package supports batch processing, progress tracking,
// retry with exponential backoff, and vector normalization.
package reembed
