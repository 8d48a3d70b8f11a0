package query

import "strings"

// Stop words double as language markers: they are frequent, short, and
// language-specific, which makes them a cheap detector for short queries.
var stopWordsByLanguage = map[Language]map[string]bool{
	LanguageEnglish: wordSet("the", "a", "an", "is", "are", "was", "were", "what",
		"who", "how", "why", "when", "where", "which", "of", "in", "on", "to",
		"and", "or", "for", "with", "about", "does", "do", "did", "can", "it",
		"this", "that", "be", "have", "has", "not", "from", "by", "at"),
	LanguageGerman: wordSet("der", "die", "das", "ist", "sind", "war", "waren",
		"was", "wer", "wie", "warum", "wann", "wo", "welche", "und", "oder",
		"für", "mit", "über", "ein", "eine", "nicht", "von", "zu", "im", "auf"),
	LanguageSpanish: wordSet("el", "la", "los", "las", "es", "son", "era", "que",
		"quien", "como", "por", "cuando", "donde", "cual", "y", "o", "para",
		"con", "sobre", "un", "una", "no", "de", "en", "qué", "cómo", "cuál"),
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// DetectLanguage guesses the language of a query by majority vote over
// its stop words. Mixed-language queries get the majority language, not
// an error; queries with no recognizable stop words default to English,
// the dominant language of a personal Markdown vault.
func DetectLanguage(query string) Language {
	counts := map[Language]int{}
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?;:\"'()[]¿¡")
		for lang, set := range stopWordsByLanguage {
			if set[word] {
				counts[lang]++
			}
		}
	}

	best := LanguageEnglish
	bestCount := 0
	for _, lang := range []Language{LanguageEnglish, LanguageGerman, LanguageSpanish} {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}
	return best
}

// IsStopWord reports whether word is a stop word in the given language.
// Unknown languages fall back to the English table.
func IsStopWord(word string, lang Language) bool {
	set, ok := stopWordsByLanguage[lang]
	if !ok {
		set = stopWordsByLanguage[LanguageEnglish]
	}
	return set[strings.ToLower(word)]
}
