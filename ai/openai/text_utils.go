package openai

import "strings"

// clampText truncates text to at most limit runes, cutting at the last
// word boundary before the limit when one exists.
func clampText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	clamped := string(runes[:limit])
	if idx := strings.LastIndexByte(clamped, ' '); idx > limit/2 {
		clamped = clamped[:idx]
	}
	return clamped
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
