// Package rank orders routing candidates by a composite of five named
// factor scores: similarity, priority, intent relevance, request context,
// and confidence. Weights are configurable; ties keep discovery order.
package rank

import (
	"math"
	"sort"

	"github.com/sawpanic/fieldroute/catalog"
	"github.com/sawpanic/fieldroute/intent"
)

// SourceKind is the inferred nature of a catalog field: indicator-style
// metric, raw statement line item, or unknown.
type SourceKind int

const (
	KindUnknown SourceKind = iota
	KindIndicator
	KindStatement
)

func (k SourceKind) String() string {
	switch k {
	case KindIndicator:
		return "indicator"
	case KindStatement:
		return "statement"
	default:
		return "unknown"
	}
}

// Candidate is one provisional query/field match, created per routing
// attempt and discarded afterwards. Descriptor is shared with the catalog
// and never mutated here.
type Candidate struct {
	FieldID    string
	MarketID   string
	Descriptor *catalog.FieldDescriptor
	Similarity float64
	Priority   int
	SourceKind SourceKind
	Context    map[string]string

	// Composite is the ranking key, filled by Rank. Similarity keeps the
	// raw scorer output; callers read Composite for the final ordering
	// score.
	Composite float64
}

// QueryContext carries the immutable per-request facts the context factor
// scores against.
type QueryContext struct {
	Symbol   string
	MarketID string
	RawQuery string
}

// Factor score constants.
const (
	priorityCeiling = 10.0

	contextBase          = 0.5
	contextMarketBonus   = 0.2
	contextAffinityBonus = 0.1

	confidenceIntentBoost   = 1.2
	confidencePriorityBoost = 1.1
	confidenceDampener      = 0.9

	topPriorityBand = 7
)

// relevanceTable scores intent × source-kind compatibility.
var relevanceTable = map[intent.Intent]map[SourceKind]float64{
	intent.Indicator: {
		KindIndicator: 1.0,
		KindStatement: 0.4,
		KindUnknown:   0.6,
	},
	intent.Statement: {
		KindIndicator: 0.4,
		KindStatement: 1.0,
		KindUnknown:   0.6,
	},
	// Ambiguous intent scores symmetrically across kinds.
	intent.Ambiguous: {
		KindIndicator: 0.7,
		KindStatement: 0.7,
		KindUnknown:   0.6,
	},
}

// Ranker combines factor scores into one composite per candidate.
// Stateless after construction; safe for concurrent use.
type Ranker struct {
	weights Weights

	// kindPreference dampens or boosts a source kind regardless of intent.
	kindPreference map[SourceKind]float64

	// symbolAffinity maps symbol → keyword fragments whose presence in a
	// candidate's keywords earns the context affinity bonus.
	symbolAffinity map[string][]string

	// confidenceThreshold is the level under which the confidence factor
	// is dampened.
	confidenceThreshold float64
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithKindPreference overrides the per-source-kind preference weights.
func WithKindPreference(pref map[SourceKind]float64) RankerOption {
	return func(r *Ranker) { r.kindPreference = pref }
}

// WithSymbolAffinity registers symbol → keyword affinities for the context
// factor.
func WithSymbolAffinity(affinity map[string][]string) RankerOption {
	return func(r *Ranker) { r.symbolAffinity = affinity }
}

// WithConfidenceThreshold overrides the dampening threshold.
func WithConfidenceThreshold(threshold float64) RankerOption {
	return func(r *Ranker) { r.confidenceThreshold = threshold }
}

// NewRanker builds a ranker with the given factor weights.
func NewRanker(weights Weights, opts ...RankerOption) *Ranker {
	r := &Ranker{
		weights: weights,
		kindPreference: map[SourceKind]float64{
			KindIndicator: 1.0,
			KindStatement: 1.0,
			KindUnknown:   0.9,
		},
		confidenceThreshold: 0.5,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank fills each candidate's Composite and returns the slice sorted by
// descending composite score. The sort is stable: candidates with exactly
// equal composites keep their original discovery order. Input descriptors
// are never mutated; the slice itself is reordered in place.
func (r *Ranker) Rank(cands []*Candidate, it intent.Intent, qc QueryContext) []*Candidate {
	for _, c := range cands {
		c.Composite = r.composite(c, it, qc)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Composite > cands[j].Composite
	})
	return cands
}

// ConfidenceFactor exposes the confidence factor for one candidate so the
// router can derive its final result confidence from the same basis.
func (r *Ranker) ConfidenceFactor(c *Candidate, it intent.Intent) float64 {
	return r.confidence(c, it)
}

func (r *Ranker) composite(c *Candidate, it intent.Intent, qc QueryContext) float64 {
	total := r.weights.total()
	if total == 0 {
		return 0
	}

	sum := r.weights.Similarity*clamp01(c.Similarity) +
		r.weights.Priority*priorityScore(c.Priority) +
		r.weights.Relevance*r.relevance(c, it) +
		r.weights.Context*r.contextScore(c, qc) +
		r.weights.Confidence*r.confidence(c, it)

	return clamp01(sum / total)
}

func priorityScore(priority int) float64 {
	if priority <= 0 {
		return 0
	}
	return math.Min(float64(priority), priorityCeiling) / priorityCeiling
}

func (r *Ranker) relevance(c *Candidate, it intent.Intent) float64 {
	base := relevanceTable[it][c.SourceKind]
	pref, ok := r.kindPreference[c.SourceKind]
	if !ok {
		pref = 1.0
	}
	return clamp01(base * pref)
}

func (r *Ranker) contextScore(c *Candidate, qc QueryContext) float64 {
	score := contextBase
	if qc.MarketID != "" && qc.MarketID == c.MarketID {
		score += contextMarketBonus
	}
	if r.hasSymbolAffinity(c, qc.Symbol) {
		score += contextAffinityBonus
	}
	return clamp01(score)
}

func (r *Ranker) hasSymbolAffinity(c *Candidate, symbol string) bool {
	fragments, ok := r.symbolAffinity[symbol]
	if !ok || c.Descriptor == nil {
		return false
	}
	for _, frag := range fragments {
		for _, kw := range c.Descriptor.Keywords {
			if kw == frag {
				return true
			}
		}
	}
	return false
}

// confidence boosts similarity when the surrounding evidence is strong:
// a decisive intent, a top-band priority. If the boosted value still sits
// under the threshold it is dampened instead, pushing weak matches further
// down the ranking.
func (r *Ranker) confidence(c *Candidate, it intent.Intent) float64 {
	conf := clamp01(c.Similarity)
	if it != intent.Ambiguous {
		conf *= confidenceIntentBoost
	}
	if c.Priority >= topPriorityBand {
		conf *= confidencePriorityBoost
	}
	if conf < r.confidenceThreshold {
		conf *= confidenceDampener
	}
	return clamp01(conf)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
