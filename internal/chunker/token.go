package chunker

import (
	"strings"
	"unicode/utf8"
)

// Len reports the length of s in characters, the unit chunks are measured in.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// EstimateTokens gives a rough token count for display next to a chunk.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	// Roughly 1.33 tokens per word for English text.
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 && strings.TrimSpace(text) != "" {
		tokens = 1
	}
	return tokens
}
