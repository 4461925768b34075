package route

import (
	"context"
	"errors"
	"sort"

	"github.com/sawpanic/fieldroute/catalog"
)

// suggest runs the looser secondary search behind failed resolutions: every
// field scored with no floor applied, the top few returned as suggestions.
// Equal scores keep catalog load order.
func (r *Router) suggest(query string, mc *catalog.MarketCatalog) []Suggestion {
	var all []Suggestion
	for _, fieldID := range mc.FieldIDs() {
		d := mc.Field(fieldID)
		all = append(all, Suggestion{
			FieldID:     fieldID,
			DisplayName: d.DisplayName,
			Similarity:  r.scorer.Score(query, d),
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Similarity > all[j].Similarity
	})

	if len(all) > suggestionListLimit {
		all = all[:suggestionListLimit]
	}
	return all
}

// ResolveAll resolves several field queries for one symbol. Resolved
// queries land in the first map; failed ones get their suggestion list in
// the second, so callers can report both in a single pass.
func (r *Router) ResolveAll(ctx context.Context, symbol string, queries []string) (map[string]*Result, map[string][]Suggestion) {
	resolved := make(map[string]*Result, len(queries))
	failed := make(map[string][]Suggestion)

	for _, q := range queries {
		res, err := r.Resolve(ctx, Query{Text: q, Symbol: symbol})
		if err != nil {
			var noMatch *NoMatchError
			if errors.As(err, &noMatch) {
				failed[q] = noMatch.Suggestions
			} else {
				failed[q] = nil
			}
			continue
		}
		resolved[q] = res
	}

	return resolved, failed
}
