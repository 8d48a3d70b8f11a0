package query

import "context"

// Intent classifies what a query is asking for.
type Intent string

const (
	IntentFactual     Intent = "factual"     // Simple fact lookup
	IntentComparison  Intent = "comparison"  // Compare multiple items
	IntentExplanation Intent = "explanation" // Explain a concept
	IntentProcedural  Intent = "procedural"  // How-to questions
	IntentTemporal    Intent = "temporal"    // Time-based queries
	IntentAggregation Intent = "aggregation" // List or summarize
	IntentUnknown     Intent = "unknown"     // Cannot determine intent
)

// Language is a detected query language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageSpanish Language = "es"
	LanguageUnknown Language = "unknown"
)

// Expansion is the result of expanding a raw query before retrieval.
// ExpandedQuery is what the Retriever embeds; the remaining fields are
// advisory signals, never hard filters.
type Expansion struct {
	Original      string
	ExpandedQuery string
	Variants      []string // Alternative phrasings, original included first
	Intent        Intent
	Entities      []string
	Language      Language

	// Confidence is the fraction of intent and entity keyword matches
	// over the keyword universe consulted. A tie-break signal only.
	Confidence float64
}

// Expander rewrites or augments a raw query before retrieval.
// Implementations must be swappable without changing the Retriever.
type Expander interface {
	Expand(ctx context.Context, rawQuery string) (*Expansion, error)
}
