// Package textutil provides text normalization and comparison primitives
// shared by the intent, similarity, and market packages. Queries arrive in
// mixed Chinese/English, often with full-width punctuation or stray
// whitespace, so everything funnels through Normalize before comparison.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds a query or catalog term into canonical comparison form:
// NFKC (full-width ASCII and compatibility forms collapse to half-width),
// lower case, and all whitespace removed. CJK text carries no meaningful
// internal spacing, and English field names compare space-insensitively.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// ScriptRatio reports the fraction of Han runes among the letter runes of s.
// Returns 0 for strings with no letters.
func ScriptRatio(s string) float64 {
	var han, letters int
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			han++
			letters++
		} else if unicode.IsLetter(r) || unicode.IsDigit(r) {
			letters++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(han) / float64(letters)
}

// HasHan reports whether s contains at least one Han rune.
func HasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
