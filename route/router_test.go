package route

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/fieldroute/catalog"
	"github.com/sawpanic/fieldroute/intent"
	"github.com/sawpanic/fieldroute/internal/telemetry"
	"github.com/sawpanic/fieldroute/rank"
	"github.com/sawpanic/fieldroute/similarity"
)

const routerFixture = `
markets:
  a_stock:
    name: A股
    currency: CNY
    NET_PROFIT:
      name: 净利润
      keywords: [净利润, 净利]
      priority: 3
      description: 归属于母公司股东的净利润
    TOTAL_REVENUE:
      name: 营业总收入
      keywords: [营业总收入, 营收]
      priority: 2
    ROE:
      name: 净资产收益率
      keywords: [净资产收益率, roe]
      priority: 5
    GROSS_MARGIN:
      name: 毛利率
      keywords: [毛利率, gpm]
      priority: 4
  hk_stock:
    name: 港股
    currency: HKD
    NET_PROFIT:
      name: 股东应占溢利
      keywords: [股东应占溢利, 净利润]
      priority: 3
  us_stock:
    name: 美股
    currency: USD
    NET_PROFIT:
      name: Net Income
      keywords: [net income, 净利润]
      priority: 3
`

func testCatalogs(t *testing.T) catalog.Catalogs {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte(routerFixture), 0644))

	catalogs, err := catalog.NewLoader(zerolog.Nop()).Load(path)
	require.NoError(t, err)
	return catalogs
}

func testRouter(t *testing.T) *Router {
	t.Helper()
	return New(
		testCatalogs(t),
		intent.NewClassifier(intent.DefaultConfig()),
		similarity.NewScorer(),
		rank.NewRanker(rank.DefaultWeights()),
	)
}

func TestResolveExactMatch(t *testing.T) {
	r := testRouter(t)

	res, err := r.Resolve(context.Background(), Query{Text: "净利润", MarketID: "a_stock"})
	require.NoError(t, err)

	assert.Equal(t, "NET_PROFIT", res.FieldID)
	assert.Equal(t, "a_stock", res.MarketID)
	assert.Equal(t, "净利润", res.Descriptor.DisplayName)
	assert.Greater(t, res.Confidence, 0.5)
	assert.LessOrEqual(t, res.Confidence, 1.0)
	assert.NotEmpty(t, res.Diagnostics.RequestID)
	assert.Positive(t, res.Diagnostics.CandidateCount)
}

func TestResolveInfersMarketFromSymbol(t *testing.T) {
	r := testRouter(t)

	// Alphabetic ticker infers the US market.
	res, err := r.Resolve(context.Background(), Query{Text: "净利润", Symbol: "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, "us_stock", res.MarketID)
	assert.Equal(t, "Net Income", res.Descriptor.DisplayName)

	// Digits with a leading zero infer Hong Kong.
	res, err = r.Resolve(context.Background(), Query{Text: "净利润", Symbol: "00700"})
	require.NoError(t, err)
	assert.Equal(t, "hk_stock", res.MarketID)
	assert.Equal(t, "股东应占溢利", res.Descriptor.DisplayName)
}

func TestResolveNamespaceIsolation(t *testing.T) {
	r := testRouter(t)

	// NET_PROFIT exists in all three markets; each resolve sees only its
	// own namespace's definition.
	cn, err := r.Resolve(context.Background(), Query{Text: "净利润", MarketID: "a_stock"})
	require.NoError(t, err)
	hk, err := r.Resolve(context.Background(), Query{Text: "净利润", MarketID: "hk_stock"})
	require.NoError(t, err)

	assert.Equal(t, cn.FieldID, hk.FieldID)
	assert.NotEqual(t, cn.Descriptor.DisplayName, hk.Descriptor.DisplayName)
}

func TestResolveUnknownMarket(t *testing.T) {
	r := testRouter(t)

	_, err := r.Resolve(context.Background(), Query{Text: "净利润", MarketID: "moon_stock"})
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, ReasonMarketNotFound, noMatch.Reason)

	// Uninferrable symbol with no explicit market.
	_, err = r.Resolve(context.Background(), Query{Text: "净利润", Symbol: "???"})
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, ReasonMarketNotFound, noMatch.Reason)
}

func TestResolveBelowFloorYieldsSuggestions(t *testing.T) {
	r := testRouter(t)

	_, err := r.Resolve(context.Background(), Query{Text: "zzzz存在しない", MarketID: "a_stock"})
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, ReasonNoCandidate, noMatch.Reason)

	// The looser secondary search still produces nearest candidates.
	require.NotEmpty(t, noMatch.Suggestions)
	assert.LessOrEqual(t, len(noMatch.Suggestions), suggestionListLimit)
	for _, s := range noMatch.Suggestions {
		assert.NotEmpty(t, s.FieldID)
		assert.NotEmpty(t, s.DisplayName)
	}
}

func TestResolveAmbiguousQueryStillRoutes(t *testing.T) {
	r := testRouter(t)

	// 收入 is on the ambiguous short list; routing proceeds and lands on
	// the revenue field through keyword similarity, just without the
	// intent confidence boost.
	res, err := r.Resolve(context.Background(), Query{Text: "营收", MarketID: "a_stock"})
	require.NoError(t, err)
	assert.Equal(t, "TOTAL_REVENUE", res.FieldID)

	exact, err := r.Resolve(context.Background(), Query{Text: "净资产收益率", MarketID: "a_stock"})
	require.NoError(t, err)
	assert.Equal(t, "ROE", exact.FieldID)
	// A decisive indicator intent plus exact match outranks the
	// ambiguous-intent result's confidence.
	assert.GreaterOrEqual(t, exact.Confidence, res.Confidence)
}

func TestResolveIndicatorQuery(t *testing.T) {
	r := testRouter(t)

	res, err := r.Resolve(context.Background(), Query{Text: "毛利率", MarketID: "a_stock"})
	require.NoError(t, err)
	assert.Equal(t, "GROSS_MARGIN", res.FieldID)
	assert.Equal(t, intent.Indicator, res.Diagnostics.Intent)
}

func TestResolveCancelledContext(t *testing.T) {
	m := telemetry.NewMetrics(nil)
	r := New(
		testCatalogs(t),
		intent.NewClassifier(intent.DefaultConfig()),
		similarity.NewScorer(),
		rank.NewRanker(rank.DefaultWeights()),
		WithMetrics(m),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, Query{Text: "净利润", MarketID: "a_stock"})
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, ReasonInternal, noMatch.Reason)

	// A shed call still counts toward the resolve totals.
	c, err := m.Resolves.GetMetricWithLabelValues("a_stock", telemetry.OutcomeCancelled)
	require.NoError(t, err)
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	assert.Equal(t, 1.0, metric.GetCounter().GetValue())
}

func TestResolveRecoversPanics(t *testing.T) {
	// A nil classifier makes the pipeline panic; Resolve must convert
	// that into a no-match outcome instead of propagating.
	r := New(
		testCatalogs(t),
		nil,
		similarity.NewScorer(),
		rank.NewRanker(rank.DefaultWeights()),
	)

	res, err := r.Resolve(context.Background(), Query{Text: "净利润", MarketID: "a_stock"})
	assert.Nil(t, res)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, ReasonInternal, noMatch.Reason)
}

func TestResolveAll(t *testing.T) {
	r := testRouter(t)

	resolved, failed := r.ResolveAll(context.Background(), "600519.SH",
		[]string{"净利润", "毛利率", "不存在的字段xyz"})

	require.Len(t, resolved, 2)
	assert.Equal(t, "NET_PROFIT", resolved["净利润"].FieldID)
	assert.Equal(t, "GROSS_MARGIN", resolved["毛利率"].FieldID)

	require.Contains(t, failed, "不存在的字段xyz")
	assert.NotEmpty(t, failed["不存在的字段xyz"], "failed queries carry suggestions")
}

func TestInferSourceKind(t *testing.T) {
	d := func(name string) *catalog.FieldDescriptor {
		return &catalog.FieldDescriptor{DisplayName: name, Keywords: []string{name}}
	}

	assert.Equal(t, rank.KindIndicator, inferSourceKind("ROE", d("净资产收益率")))
	assert.Equal(t, rank.KindIndicator, inferSourceKind("NET_PROFIT_MARGIN", d("净利率")))
	assert.Equal(t, rank.KindIndicator, inferSourceKind("CUSTOM_FIELD", d("存货周转率")))
	assert.Equal(t, rank.KindStatement, inferSourceKind("NET_PROFIT", d("净利润")))
	assert.Equal(t, rank.KindStatement, inferSourceKind("ACCOUNTS_PAYABLE", d("应付账款")))
	assert.Equal(t, rank.KindUnknown, inferSourceKind("MISC", d("其他")))
}
