// Package search retrieves chunks for a query.
//
// Four modes are available: semantic (vector similarity over embedded
// queries), keyword (term-fraction scoring over a full chunk scan),
// hybrid (a weighted blend of both), and tag (exact tag lookup).
// Semantic and hybrid searches fall back to keyword matching when the
// embedding service is unreachable, so a query always gets an answer
// while the vault's models are offline.
package search
