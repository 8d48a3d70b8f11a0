package quality

import (
	"math"
	"strings"
)

const targetSentenceWords = 15

var (
	transitionWords = []string{
		"however", "therefore", "moreover", "furthermore", "additionally",
		"consequently", "meanwhile", "similarly", "in contrast", "thus",
		"also", "instead", "because",
	}
	structuralMarkers = []string{
		"first", "second", "third", "finally", "in conclusion",
		"to summarize", "next", "lastly",
	}
)

// coherenceScore blends transition-word usage (0.4), sentence-length
// closeness to the target (0.4), and structural markers (0.2). A
// response under two sentences has no internal structure to judge and
// scores neutral.
func coherenceScore(response string) float64 {
	sentences := splitSentences(response)
	if len(sentences) < 2 {
		return 0.5
	}

	transitions := transitionUsage(sentences)
	length := sentenceLengthScore(sentences)
	structure := structuralScore(response)
	return clamp01(0.4*transitions + 0.4*length + 0.2*structure)
}

// transitionUsage is the fraction of sentences after the first that
// contain a transition word, since the first sentence has nothing to
// transition from.
func transitionUsage(sentences []string) float64 {
	linked := 0
	for _, sentence := range sentences[1:] {
		lower := strings.ToLower(sentence)
		for _, word := range transitionWords {
			if strings.Contains(lower, word) {
				linked++
				break
			}
		}
	}
	return float64(linked) / float64(len(sentences)-1)
}

// sentenceLengthScore measures how close the mean sentence length is
// to the target, with a triangular penalty.
func sentenceLengthScore(sentences []string) float64 {
	total := 0
	for _, sentence := range sentences {
		total += wordCount(sentence)
	}
	mean := float64(total) / float64(len(sentences))
	return clamp01(1 - math.Abs(mean-targetSentenceWords)/targetSentenceWords)
}

// structuralScore checks for enumeration or summary markers.
func structuralScore(response string) float64 {
	lower := strings.ToLower(response)
	for _, marker := range structuralMarkers {
		if strings.Contains(lower, marker) {
			return 1.0
		}
	}
	return 0.0
}
