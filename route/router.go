// Package route orchestrates field-query resolution: market inference,
// intent classification, candidate gathering, ranking, and confidence
// scoring, composed into a single Resolve entry point. A resolution miss is
// an expected outcome of fuzzy matching, so everything downstream of a
// loaded catalog degrades to "no match" instead of failing the caller.
package route

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sawpanic/fieldroute/catalog"
	"github.com/sawpanic/fieldroute/intent"
	"github.com/sawpanic/fieldroute/internal/telemetry"
	"github.com/sawpanic/fieldroute/market"
	"github.com/sawpanic/fieldroute/rank"
)

// Query is one resolution request. MarketID may be empty, in which case the
// market is inferred from Symbol.
type Query struct {
	Text     string
	Symbol   string
	MarketID string
}

// Diagnostics carries informational detail about one resolve call.
type Diagnostics struct {
	RequestID      string
	Market         string
	Intent         intent.Intent
	CandidateCount int
	Elapsed        time.Duration
}

// Result is the final output of one resolve call.
type Result struct {
	FieldID     string
	MarketID    string
	Descriptor  *catalog.FieldDescriptor
	Confidence  float64
	Context     map[string]string
	Diagnostics Diagnostics
}

// Final-confidence boosts applied on top of the ranking confidence factor.
// A short candidate list means the query discriminated well.
const (
	soleCandidateBoost  = 1.15
	shortListBoost      = 1.05
	shortListSize       = 3
	suggestionListLimit = 5
)

// Classifier assigns an intent to a query. *intent.Classifier is the
// shipped implementation.
type Classifier interface {
	Classify(query string) intent.Intent
}

// Scorer computes query/descriptor similarity and exposes the candidate
// floor. *similarity.Scorer is the shipped implementation; alternative
// scorers plug in at construction.
type Scorer interface {
	Score(query string, d *catalog.FieldDescriptor) float64
	Floor() float64
}

// Ranker orders candidates and exposes the confidence factor the final
// result confidence derives from. *rank.Ranker is the shipped
// implementation.
type Ranker interface {
	Rank(cands []*rank.Candidate, it intent.Intent, qc rank.QueryContext) []*rank.Candidate
	ConfidenceFactor(c *rank.Candidate, it intent.Intent) float64
}

// Router resolves queries against loaded catalogs. All collaborators are
// injected at construction; the router holds no mutable state and is safe
// for unbounded concurrent Resolve calls.
type Router struct {
	catalogs   catalog.Catalogs
	classifier Classifier
	scorer     Scorer
	ranker     Ranker

	log     zerolog.Logger
	metrics *telemetry.Metrics
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger injects a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) RouterOption {
	return func(r *Router) { r.log = logger }
}

// WithMetrics attaches resolve pipeline metrics.
func WithMetrics(m *telemetry.Metrics) RouterOption {
	return func(r *Router) { r.metrics = m }
}

// New builds a router over catalogs with explicit collaborators.
func New(catalogs catalog.Catalogs, classifier Classifier, scorer Scorer, ranker Ranker, opts ...RouterOption) *Router {
	r := &Router{
		catalogs:   catalogs,
		classifier: classifier,
		scorer:     scorer,
		ranker:     ranker,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = telemetry.NewMetrics(nil)
	}
	r.metrics.LoadedCatalogs.Set(float64(len(catalogs)))
	return r
}

// Resolve maps a query to the best field in its market namespace. On a
// miss it returns a *NoMatchError carrying nearest-candidate suggestions;
// it never returns any other error kind, and panics inside the pipeline are
// recovered into a no-match outcome.
func (r *Router) Resolve(ctx context.Context, q Query) (res *Result, err error) {
	start := time.Now()
	requestID := uuid.NewString()

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn().Str("request_id", requestID).Interface("panic", rec).
				Msg("resolve pipeline recovered")
			r.metrics.ObserveResolve(q.MarketID, telemetry.OutcomeRecover, 0, time.Since(start))
			res = nil
			err = &NoMatchError{Reason: ReasonInternal}
		}
	}()

	if err := ctx.Err(); err != nil {
		r.metrics.ObserveResolve(q.MarketID, telemetry.OutcomeCancelled, 0, time.Since(start))
		return nil, &NoMatchError{Reason: ReasonInternal}
	}

	// START → MARKET_RESOLVED
	marketID := q.MarketID
	if marketID == "" {
		inferred, ok := market.Infer(q.Symbol)
		if !ok {
			r.log.Debug().Str("request_id", requestID).Str("symbol", q.Symbol).
				Msg("market inference failed")
			r.metrics.ObserveResolve("", telemetry.OutcomeNoMatch, 0, time.Since(start))
			return nil, &NoMatchError{Reason: ReasonMarketNotFound}
		}
		marketID = inferred
	}
	mc := r.catalogs.Market(marketID)
	if mc == nil {
		r.metrics.ObserveResolve(marketID, telemetry.OutcomeNoMatch, 0, time.Since(start))
		return nil, &NoMatchError{Reason: ReasonMarketNotFound, Market: marketID}
	}

	// MARKET_RESOLVED → CANDIDATES_GATHERED
	it := r.classifier.Classify(q.Text)
	cands := r.gather(q.Text, mc)

	if len(cands) == 0 {
		// EMPTY: populate suggestions from a looser secondary search so
		// the caller can present alternatives.
		suggestions := r.suggest(q.Text, mc)
		r.log.Debug().Str("request_id", requestID).Str("market", marketID).
			Str("query", q.Text).Int("suggestions", len(suggestions)).
			Msg("no candidate cleared the similarity floor")
		r.metrics.ObserveResolve(marketID, telemetry.OutcomeNoMatch, 0, time.Since(start))
		return nil, &NoMatchError{
			Reason:      ReasonNoCandidate,
			Market:      marketID,
			Suggestions: suggestions,
		}
	}

	// CANDIDATES_GATHERED → RANKED
	ranked := r.ranker.Rank(cands, it, rank.QueryContext{
		Symbol:   q.Symbol,
		MarketID: marketID,
		RawQuery: q.Text,
	})

	// RANKED → DONE
	top := ranked[0]
	confidence := r.finalConfidence(top, it, len(ranked))
	elapsed := time.Since(start)

	r.log.Debug().Str("request_id", requestID).Str("market", marketID).
		Str("query", q.Text).Str("field_id", top.FieldID).
		Float64("confidence", confidence).Int("candidates", len(ranked)).
		Str("intent", it.String()).Msg("query resolved")
	r.metrics.ObserveResolve(marketID, telemetry.OutcomeResolved, len(ranked), elapsed)

	return &Result{
		FieldID:    top.FieldID,
		MarketID:   marketID,
		Descriptor: top.Descriptor,
		Confidence: confidence,
		Context:    top.Context,
		Diagnostics: Diagnostics{
			RequestID:      requestID,
			Market:         marketID,
			Intent:         it,
			CandidateCount: len(ranked),
			Elapsed:        elapsed,
		},
	}, nil
}

// gather scores every field in the market catalog, in load order, and keeps
// those meeting the similarity floor.
func (r *Router) gather(query string, mc *catalog.MarketCatalog) []*rank.Candidate {
	var cands []*rank.Candidate
	for _, fieldID := range mc.FieldIDs() {
		d := mc.Field(fieldID)
		sim := r.scorer.Score(query, d)
		if sim < r.scorer.Floor() {
			continue
		}
		cands = append(cands, &rank.Candidate{
			FieldID:    fieldID,
			MarketID:   mc.MarketID,
			Descriptor: d,
			Similarity: sim,
			Priority:   d.Priority,
			SourceKind: inferSourceKind(fieldID, d),
		})
	}
	return cands
}

// finalConfidence derives the result confidence from the top candidate's
// ranking confidence factor, boosted when the candidate list is short.
func (r *Router) finalConfidence(top *rank.Candidate, it intent.Intent, count int) float64 {
	conf := r.ranker.ConfidenceFactor(top, it)
	switch {
	case count == 1:
		conf *= soleCandidateBoost
	case count <= shortListSize:
		conf *= shortListBoost
	}
	return math.Max(0, math.Min(1, conf))
}
