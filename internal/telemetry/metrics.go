// Package telemetry exposes prometheus metrics for the resolve pipeline.
// The library never starts an HTTP listener; metrics register on a
// caller-supplied Registerer and the host process serves them however it
// serves the rest of its metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolve outcomes recorded on the counter.
const (
	OutcomeResolved  = "resolved"
	OutcomeNoMatch   = "no_match"
	OutcomeRecover   = "recovered_panic"
	OutcomeCancelled = "cancelled"
)

// Metrics holds the resolve pipeline collectors.
type Metrics struct {
	Resolves        *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec
	CandidateCount  prometheus.Histogram
	LoadedCatalogs  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// returns collectors that record but are never scraped, which keeps the
// router's instrumentation unconditional.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldroute_resolves_total",
				Help: "Total resolve calls by market and outcome",
			},
			[]string{"market", "outcome"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fieldroute_resolve_duration_seconds",
				Help:    "Duration of resolve calls in seconds",
				Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
			},
			[]string{"market"},
		),
		CandidateCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fieldroute_candidates_per_resolve",
				Help:    "Candidates clearing the similarity floor per resolve",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
		),
		LoadedCatalogs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fieldroute_loaded_catalogs",
				Help: "Number of market catalogs currently loaded",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.Resolves, m.ResolveDuration, m.CandidateCount, m.LoadedCatalogs)
	}

	return m
}

// ObserveResolve records one resolve call.
func (m *Metrics) ObserveResolve(market, outcome string, candidates int, elapsed time.Duration) {
	if market == "" {
		market = "unknown"
	}
	m.Resolves.WithLabelValues(market, outcome).Inc()
	m.ResolveDuration.WithLabelValues(market).Observe(elapsed.Seconds())
	m.CandidateCount.Observe(float64(candidates))
}
