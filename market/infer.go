// Package market infers a market namespace from a raw symbol string.
// Pure pattern classification: no catalog access, no state, bounded time.
package market

import (
	"regexp"
	"strings"
)

// Canonical market identifiers used across the shipped catalogs.
const (
	AStock  = "a_stock"
	HKStock = "hk_stock"
	USStock = "us_stock"
)

// rule pairs a market with a symbol pattern. Rules are tried in order:
// explicit exchange suffixes first, bare-format heuristics last, so
// "600519.SH" never falls through to a digit-count guess.
type rule struct {
	marketID string
	pattern  *regexp.Regexp
}

var rules = []rule{
	// Exchange suffix markers.
	{AStock, regexp.MustCompile(`^\d{6}\.(SH|SZ|BJ)$`)},
	{HKStock, regexp.MustCompile(`^\d{1,5}\.HK$`)},
	{USStock, regexp.MustCompile(`^[A-Z][A-Z.\-]{0,9}\.(US|O|N)$`)},
	// Bare-format heuristics.
	{AStock, regexp.MustCompile(`^\d{6}$`)},
	{HKStock, regexp.MustCompile(`^0?\d{4,5}$`)},
	{USStock, regexp.MustCompile(`^[A-Z]{1,5}$`)},
}

// Infer maps a symbol to a market identifier. The second return is false
// when no rule matches. Matching is case-insensitive and whitespace-tolerant;
// Infer never panics.
func Infer(symbol string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", false
	}
	for _, r := range rules {
		if r.pattern.MatchString(s) {
			return r.marketID, true
		}
	}
	return "", false
}
