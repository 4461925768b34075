package similarity

import (
	"strings"

	"github.com/sawpanic/fieldroute/internal/textutil"
)

// Containment and edit-distance sub-scores stay below 1.0 so only an exact
// match is maximal.
const (
	containBase  = 0.55
	containSpan  = 0.40
	editDampener = 0.80
)

// TextSimilarity scores two already-normalized strings: 1.0 on equality,
// partial credit proportional to the length ratio when one contains the
// other, otherwise a bounded edit-distance-derived score.
func TextSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	if contains(a, b) || contains(b, a) {
		short, long := runeLen(a), runeLen(b)
		if short > long {
			short, long = long, short
		}
		return containBase + containSpan*float64(short)/float64(long)
	}

	dist := textutil.Levenshtein(a, b)
	maxLen := runeLen(a)
	if l := runeLen(b); l > maxLen {
		maxLen = l
	}
	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim * editDampener
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func runeLen(s string) int {
	return len([]rune(s))
}
