package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveResolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveResolve("a_stock", OutcomeResolved, 3, 500*time.Microsecond)
	m.ObserveResolve("a_stock", OutcomeResolved, 1, time.Millisecond)
	m.ObserveResolve("a_stock", OutcomeNoMatch, 0, time.Millisecond)
	m.ObserveResolve("", OutcomeNoMatch, 0, time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, m.Resolves, "a_stock", OutcomeResolved))
	assert.Equal(t, 1.0, counterValue(t, m.Resolves, "a_stock", OutcomeNoMatch))
	// Empty market label falls back to "unknown".
	assert.Equal(t, 1.0, counterValue(t, m.Resolves, "unknown", OutcomeNoMatch))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["fieldroute_resolves_total"])
	assert.True(t, names["fieldroute_resolve_duration_seconds"])
	assert.True(t, names["fieldroute_candidates_per_resolve"])
}

func TestNilRegistererStillRecords(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveResolve("a_stock", OutcomeResolved, 1, time.Millisecond)
	assert.Equal(t, 1.0, counterValue(t, m.Resolves, "a_stock", OutcomeResolved))
}
