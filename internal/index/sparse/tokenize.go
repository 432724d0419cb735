package sparse

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and collapses anything that is not a
// letter, digit or hyphen into single spaces. Queries and chunks go
// through the same normalization so build-time and query-time token
// streams always agree.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// Tokenize splits normalized text into terms, dropping single-rune
// tokens, which carry no lexical signal.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))

	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
