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


package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// synonymsByLanguage maps query words to retrieval-friendly alternates,
// keyed by detected language so German queries get German variants.
var synonymsByLanguage = map[Language]map[string][]string{
	LanguageEnglish: {
		"how":        {"method", "way"},
		"why":        {"reason", "cause"},
		"best":       {"top", "optimal", "recommended"},
		"difference": {"comparison", "contrast", "versus"},
		"example":    {"instance", "sample"},
		"explain":    {"describe", "clarify"},
		"implement":  {"create", "build"},
		"use":        {"apply", "employ"},
		"problem":    {"issue", "challenge"},
		"important":  {"significant", "essential"},
	},
	LanguageGerman: {
		"wie":         {"methode", "art"},
		"warum":       {"grund", "ursache"},
		"beste":       {"optimale", "empfohlene"},
		"unterschied": {"vergleich", "gegensatz"},
		"beispiel":    {"muster", "instanz"},
		"erklären":    {"beschreiben", "erläutern"},
		"wichtig":     {"bedeutend", "wesentlich"},
	},
	LanguageSpanish: {
		"cómo":       {"método", "manera"},
		"como":       {"método", "manera"},
		"mejor":      {"óptimo", "recomendado"},
		"diferencia": {"comparación", "contraste"},
		"ejemplo":    {"muestra", "instancia"},
		"explicar":   {"describir", "aclarar"},
		"importante": {"significativo", "esencial"},
	},
}

// intentPatterns maps intents to the phrases that signal them.
// First match wins in the fixed order below.
var intentPatterns = []struct {
	intent   Intent
	patterns []string
}{
	{IntentProcedural, []string{"how to", "how do i", "steps to", "guide", "tutorial", "wie kann ich", "cómo hacer"}},
	{IntentComparison, []string{"compare", "difference between", "versus", " vs ", "better than", "unterschied zwischen"}},
	{IntentExplanation, []string{"explain", "why", "how does", "what causes", "describe", "warum", "erkläre", "por qué"}},
	{IntentTemporal, []string{"latest", "recent", "history", "timeline", "yesterday", "last week"}},
	{IntentAggregation, []string{"list", "all of", "summary", "overview", "summarize"}},
	{IntentFactual, []string{"what is", "who is", "when was", "where is", "define", "was ist", "qué es", "quién es"}},
}

// RuleBasedExpander expands queries with synonym tables and question-form
// variants, detects language and intent, and extracts entities. It needs
// no external services, so it never fails and never blocks.
type RuleBasedExpander struct {
	maxVariants int
	logger      *slog.Logger
}

var _ Expander = (*RuleBasedExpander)(nil)

// NewRuleBasedExpander creates an expander producing at most maxVariants
// alternative phrasings per query. maxVariants <= 0 selects the default
// of 3.
func NewRuleBasedExpander(maxVariants int) *RuleBasedExpander {
	if maxVariants <= 0 {
		maxVariants = 3
	}
	return &RuleBasedExpander{
		maxVariants: maxVariants,
		logger:      slog.Default().With("component", "query-expander"),
	}
}

// Expand analyzes and augments a raw query. The ExpandedQuery is the
// original plus its distinctive entity terms repeated, which biases
// embedding similarity toward the content words.
func (e *RuleBasedExpander) Expand(ctx context.Context, rawQuery string) (*Expansion, error) {
	trimmed := strings.TrimSpace(rawQuery)
	if trimmed == "" {
		return nil, ErrEmptyQuery
	}

	lang := DetectLanguage(trimmed)
	intent, intentMatches := detectIntent(trimmed)
	entities := extractEntities(trimmed, lang)
	variants := e.variants(trimmed, lang)

	expanded := trimmed
	if len(entities) > 0 {
		expanded = fmt.Sprintf("%s %s", trimmed, strings.Join(entities, " "))
	}

	universe := len(intentPatterns) + len(strings.Fields(trimmed))
	confidence := float64(intentMatches+len(entities)) / float64(universe)
	if confidence > 1 {
		confidence = 1
	}

	e.logger.Debug("expanded query",
		"language", lang,
		"intent", intent,
		"entities", len(entities),
		"variants", len(variants))

	return &Expansion{
		Original:      trimmed,
		ExpandedQuery: expanded,
		Variants:      variants,
		Intent:        intent,
		Entities:      entities,
		Language:      lang,
		Confidence:    confidence,
	}, nil
}

// variants generates alternative phrasings by single synonym substitution.
// The original query always comes first.
func (e *RuleBasedExpander) variants(query string, lang Language) []string {
	variants := []string{query}

	synonyms, ok := synonymsByLanguage[lang]
	if !ok {
		synonyms = synonymsByLanguage[LanguageEnglish]
	}

	for _, word := range strings.Fields(strings.ToLower(query)) {
		alternates, ok := synonyms[strings.Trim(word, ".,!?;:\"'()¿¡")]
		if !ok {
			continue
		}
		for _, alt := range alternates {
			variant := replaceWordOnce(query, word, alt)
			if variant != query {
				variants = append(variants, variant)
			}
			if len(variants) > e.maxVariants {
				return variants[:e.maxVariants+1]
			}
		}
	}

	return variants
}

// detectIntent returns the first matching intent and how many of its
// patterns the query contains.
func detectIntent(query string) (Intent, int) {
	queryLower := strings.ToLower(query)
	for _, entry := range intentPatterns {
		matches := 0
		for _, pattern := range entry.patterns {
			if strings.Contains(queryLower, pattern) {
				matches++
			}
		}
		if matches > 0 {
			return entry.intent, matches
		}
	}
	return IntentUnknown, 0
}

// extractEntities picks out the content words of a query: everything
// that is not a stop word and is longer than two runes. Order follows
// the query; duplicates are dropped.
func extractEntities(query string, lang Language) []string {
	var entities []string
	seen := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?;:\"'()[]¿¡")
		if len([]rune(word)) <= 2 || IsStopWord(word, lang) || seen[word] {
			continue
		}
		seen[word] = true
		entities = append(entities, word)
	}
	return entities
}

// replaceWordOnce substitutes the first case-insensitive whole-word
// occurrence of old with new.
func replaceWordOnce(s, old, new string) string {
	lower := strings.ToLower(s)
	idx := strings.Index(lower, old)
	for idx >= 0 {
		beforeOK := idx == 0 || lower[idx-1] == ' '
		after := idx + len(old)
		afterOK := after == len(lower) || lower[after] == ' ' || strings.ContainsRune(".,!?;:", rune(lower[after]))
		if beforeOK && afterOK {
			return s[:idx] + new + s[after:]
		}
		next := strings.Index(lower[idx+1:], old)
		if next < 0 {
			break
		}
		idx += 1 + next
	}
	return s
}
