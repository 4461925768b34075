// Package similarity computes a bounded [0,1] similarity between a query
// and one field descriptor. Scoring is pure and deterministic: the same
// query/descriptor pair always yields the same score, so the router may
// call it with arbitrary concurrency.
package similarity

import (
	"math"

	"github.com/sawpanic/fieldroute/catalog"
	"github.com/sawpanic/fieldroute/internal/textutil"
)

// DefaultFloor is the minimum similarity for a descriptor to become a
// routing candidate at all.
const DefaultFloor = 0.3

// maxPriorityBand is the priority value treated as the top of the
// normalization range for the priority bonus.
const maxPriorityBand = 10

// Weights controls how the per-strategy sub-scores combine. The aggregate
// is a weighted sum, not a max; an exact normalized match short-circuits
// to 1.0 before the weights apply.
type Weights struct {
	Name         float64 `yaml:"name"`
	Keyword      float64 `yaml:"keyword"`
	Synonym      float64 `yaml:"synonym"`
	Abbreviation float64 `yaml:"abbreviation"`
}

// DefaultWeights returns the shipped strategy weights.
func DefaultWeights() Weights {
	return Weights{Name: 0.45, Keyword: 0.35, Synonym: 0.10, Abbreviation: 0.10}
}

// Scorer scores queries against field descriptors using layered strategies:
// normalized text similarity on the display name, best per-keyword
// similarity, synonym-table bonus, and abbreviation-table bonus.
type Scorer struct {
	weights Weights
	floor   float64

	// synonyms maps a normalized colloquial term to the normalized
	// standard term it stands for.
	synonyms map[string]string
	// abbrevs maps a normalized abbreviation to its normalized expansion.
	abbrevs map[string]string
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the strategy weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithFloor overrides the candidate floor.
func WithFloor(floor float64) Option {
	return func(s *Scorer) { s.floor = floor }
}

// WithSynonyms adds colloquial → standard term entries to the synonym table.
func WithSynonyms(table map[string]string) Option {
	return func(s *Scorer) {
		for k, v := range table {
			s.synonyms[textutil.Normalize(k)] = textutil.Normalize(v)
		}
	}
}

// WithAbbreviations adds abbreviation → expansion entries.
func WithAbbreviations(table map[string]string) Option {
	return func(s *Scorer) {
		for k, v := range table {
			s.abbrevs[textutil.Normalize(k)] = textutil.Normalize(v)
		}
	}
}

// NewScorer builds a scorer with the built-in bilingual synonym and
// abbreviation tables, then applies opts.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights:  DefaultWeights(),
		floor:    DefaultFloor,
		synonyms: defaultSynonyms(),
		abbrevs:  defaultAbbreviations(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Floor returns the configured minimum similarity for candidacy.
func (s *Scorer) Floor() float64 { return s.floor }

// Score computes the similarity between query and d, clamped to [0,1].
// An exact normalized match against the display name or any keyword is
// maximal (1.0). Otherwise the strategy sub-scores combine as a weighted
// sum, a language weight derived from the query's script mix multiplies
// the aggregate, and a small bonus proportional to normalized priority is
// added last.
func (s *Scorer) Score(query string, d *catalog.FieldDescriptor) float64 {
	q := textutil.Normalize(query)
	if q == "" || d == nil {
		return 0
	}

	name := textutil.Normalize(d.DisplayName)
	if q == name {
		return 1.0
	}
	for _, kw := range d.Keywords {
		if q == textutil.Normalize(kw) {
			return 1.0
		}
	}

	nameSim := TextSimilarity(q, name)

	var bestKeyword float64
	for _, kw := range d.Keywords {
		if sim := TextSimilarity(q, textutil.Normalize(kw)); sim > bestKeyword {
			bestKeyword = sim
		}
	}

	synBonus := s.synonymBonus(q, d)
	abbrBonus := s.abbreviationBonus(q, d)

	aggregate := s.weights.Name*nameSim +
		s.weights.Keyword*bestKeyword +
		s.weights.Synonym*synBonus +
		s.weights.Abbreviation*abbrBonus

	aggregate *= languageWeight(query)
	aggregate += priorityBonus(d.Priority)

	return clamp01(aggregate)
}

// synonymBonus fires when the query exactly equals a known synonym whose
// standard term itself matches the descriptor's name or a keyword.
func (s *Scorer) synonymBonus(q string, d *catalog.FieldDescriptor) float64 {
	standard, ok := s.synonyms[q]
	if !ok {
		return 0
	}
	return matchStrength(standard, d)
}

// abbreviationBonus fires when the query is a known abbreviation of a
// phrase matching the descriptor, or the query expands from one.
func (s *Scorer) abbreviationBonus(q string, d *catalog.FieldDescriptor) float64 {
	if expansion, ok := s.abbrevs[q]; ok {
		if strength := matchStrength(expansion, d); strength > 0 {
			return strength
		}
	}
	// Reverse direction: the descriptor may be catalogued under the
	// abbreviation while the query spells the phrase out. Several
	// abbreviations may share one expansion, so take the strongest match
	// rather than whichever the map yields first.
	var best float64
	for abbr, expansion := range s.abbrevs {
		if expansion != q {
			continue
		}
		if strength := matchStrength(abbr, d); strength > best {
			best = strength
		}
	}
	return best
}

// matchStrength measures how well a normalized term lines up with the
// descriptor: 1.0 on an exact name/keyword hit, 0.7 on containment.
func matchStrength(term string, d *catalog.FieldDescriptor) float64 {
	name := textutil.Normalize(d.DisplayName)
	if term == name {
		return 1.0
	}
	for _, kw := range d.Keywords {
		if term == textutil.Normalize(kw) {
			return 1.0
		}
	}
	if contains(name, term) {
		return 0.7
	}
	for _, kw := range d.Keywords {
		if contains(textutil.Normalize(kw), term) {
			return 0.7
		}
	}
	return 0
}

// languageWeight selects a multiplicative weight from the query's character
// script mix. Catalog terms are predominantly Chinese, so a Han-dominant
// query carries full weight and a pure-Latin query slightly less; mixed
// queries sit between.
func languageWeight(query string) float64 {
	ratio := textutil.ScriptRatio(query)
	switch {
	case ratio >= 0.5:
		return 1.0
	case ratio > 0:
		return 0.95
	default:
		return 0.90
	}
}

// priorityBonus adds up to +0.05 for high-priority descriptors so that,
// at equal textual similarity, the provider-preferred definition edges out.
func priorityBonus(priority int) float64 {
	if priority <= 0 {
		return 0
	}
	p := math.Min(float64(priority), maxPriorityBand)
	return 0.05 * p / maxPriorityBand
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
