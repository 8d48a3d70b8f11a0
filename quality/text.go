package quality

import "strings"

// Stop words excluded from content-term comparisons
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "how": true, "why": true,
	"when": true, "which": true, "who": true, "does": true,
}

// wordCount counts whitespace-separated words.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// contentTerms splits text into lowercased, punctuation-trimmed,
// stop-word-filtered, stemmed terms.
func contentTerms(text string) []string {
	words := strings.Fields(text)
	terms := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			terms = append(terms, lightStem(cleaned))
		}
	}
	return terms
}

// termSet is contentTerms as a membership set.
func termSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, term := range contentTerms(text) {
		set[term] = true
	}
	return set
}

// lightStem strips common English suffixes so near-identical word forms
// ("mathematics"/"mathematical") compare equal.
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

// overlapFraction returns the fraction of terms from the first text
// that also occur in the second. Zero when the first has no content terms.
func overlapFraction(from, in string) float64 {
	terms := contentTerms(from)
	if len(terms) == 0 {
		return 0
	}
	present := termSet(in)
	matched := 0
	for _, term := range terms {
		if present[term] {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// splitSentences breaks text on sentence-ending punctuation. Good
// enough for length statistics; not a linguistic segmenter.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return sentences
}

// clamp01 bounds a score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
