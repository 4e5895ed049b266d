// Package textnorm provides the shared text normalization applied before
// vectorization. Training and inference must run the exact same cleanup,
// otherwise inference projects through a feature space built from
// different tokens.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize lowercases the input, replaces every character that is neither
// a word character nor whitespace with a space, collapses runs of
// whitespace and trims the result. Idempotent.
func Normalize(text string) string {
	lower := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isWordChar(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// isWordChar mirrors the \w character class: letters, digits, underscore.
func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokens normalizes the input and splits it on whitespace.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}
