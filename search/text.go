package search

import "strings"

// Stop words to filter out when tokenizing queries and chunk text
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "how": true, "why": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// removes stop words, and light-stems the rest.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, lightStem(cleaned))
		}
	}

	return filtered
}

// lightStem strips common English suffixes so near-identical word forms
// ("mathematics"/"mathematical") compare equal. Deliberately crude; a
// real stemmer is overkill for term-presence scoring.
func lightStem(word string) string {
	if len(word) <= 4 {
		return word
	}
	for _, suffix := range []string{"ically", "ation", "ness", "ment", "ings", "ing", "ies", "al", "es", "ed", "ly", "s"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 4 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

// termFraction returns the fraction of query terms present in the
// document, both sides tokenized and stemmed. Zero when no terms match
// or the query has no content words.
func termFraction(document string, queryTerms []string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}

	docSet := make(map[string]bool)
	for _, word := range tokenizeAndFilter(document) {
		docSet[word] = true
	}

	matched := 0
	for _, term := range queryTerms {
		if docSet[term] {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTerms))
}
