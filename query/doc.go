// Package query provides query expansion ahead of retrieval.
//
// The Expander interface rewrites a raw query into an Expansion carrying
// the expanded text, detected language and intent, extracted entities,
// and alternative phrasings. RuleBasedExpander is the default
// implementation: synonym tables keyed by detected language, pattern
// matching for intent, and stop-word filtering for entities. An
// LLM-backed expander can replace it without changing the Retriever.
package query
