package quality

import "math"

// targetResponseWords is the optimum response length for the
// triangular length penalty.
const targetResponseWords = 50

// basicScore blends query-term overlap with response-length closeness
// to the target, half weight each.
func basicScore(query, response string) float64 {
	overlap := overlapFraction(query, response)
	return clamp01(0.5*overlap + 0.5*lengthCloseness(wordCount(response)))
}

// lengthCloseness applies a triangular penalty around the target
// length: exact target scores 1, zero or double the target scores 0.
func lengthCloseness(words int) float64 {
	distance := math.Abs(float64(words) - targetResponseWords)
	return clamp01(1 - distance/targetResponseWords)
}
