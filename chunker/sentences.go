package chunker

import "strings"

// splitSentences breaks text into sentences at ".", "!", "?" followed by
// whitespace, and at blank lines. The delimiters stay attached to their
// sentence so joining the pieces reproduces the original text modulo
// surrounding whitespace.
func splitSentences(text string) []string {
	var sentences []string

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		start := 0
		runes := []rune(paragraph)
		for i := 0; i < len(runes); i++ {
			if !isSentenceEnd(runes[i]) {
				continue
			}
			// Consume a run of terminators ("?!", "...").
			for i+1 < len(runes) && isSentenceEnd(runes[i+1]) {
				i++
			}
			if i+1 < len(runes) && !isSpace(runes[i+1]) {
				continue
			}
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
		}
		if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
			sentences = append(sentences, tail)
		}
	}

	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
