// Package intent classifies a field query as naming a derived indicator
// (ratio, margin, ranking metric), a raw statement line item, or neither.
// The classification feeds the ranker's relevance factor; an ambiguous
// result is an expected outcome, not an error.
package intent

import (
	"regexp"
	"strings"

	"github.com/sawpanic/fieldroute/internal/textutil"
)

// Intent is the classifier's verdict on a query.
type Intent int

const (
	Ambiguous Intent = iota
	Indicator
	Statement
)

func (i Intent) String() string {
	switch i {
	case Indicator:
		return "indicator"
	case Statement:
		return "statement"
	default:
		return "ambiguous"
	}
}

// patternRule is a regexp scored against the normalized query.
type patternRule struct {
	re     *regexp.Regexp
	weight float64
}

// Config holds the classifier's term lists and pattern rules. Stage order
// is fixed: the ambiguous short list and the specific term lists are
// authoritative and short-circuit the scored heuristic entirely.
type Config struct {
	// AmbiguousTerms are short generic queries that must never classify as
	// indicator or statement directly (e.g. 收入, 利润).
	AmbiguousTerms []string

	// IndicatorTerms / StatementTerms are authoritative substring matches.
	IndicatorTerms []string
	StatementTerms []string

	// IndicatorKeywords / StatementKeywords feed the scored heuristic;
	// the weight doubles for high-signal entries.
	IndicatorKeywords map[string]float64
	StatementKeywords map[string]float64
}

// DefaultConfig returns the built-in bilingual term lists.
func DefaultConfig() Config {
	return Config{
		AmbiguousTerms: []string{
			"收入", "利润", "成本", "费用", "资产", "负债", "现金", "增长",
			"income", "profit", "cost", "growth",
		},
		IndicatorTerms: []string{
			"净资产收益率", "总资产收益率", "投入资本回报率", "毛利率", "净利率",
			"市盈率", "市净率", "股息率", "资产负债率", "周转率", "同比增长",
			"roe", "roa", "roic", "eps", "pe", "pb", "ebitda",
		},
		StatementTerms: []string{
			"营业总收入", "营业收入", "营业成本", "归母净利润", "货币资金",
			"应收账款", "应付账款", "存货", "固定资产", "短期借款", "长期借款",
			"经营活动现金流", "资本公积", "未分配利润",
		},
		IndicatorKeywords: map[string]float64{
			"率":      2, // high-signal rate marker
			"比":      1,
			"回报":     2,
			"收益":     1,
			"倍数":     1,
			"占比":     1,
			"ratio":  2,
			"margin": 2,
			"yield":  2,
			"return": 1,
			"per":    1,
		},
		StatementKeywords: map[string]float64{
			"营业":        2,
			"资产":        1,
			"负债":        1,
			"现金流":       2,
			"账款":        2,
			"股东权益":      1,
			"revenue":   2,
			"assets":    1,
			"liability": 1,
			"cash":      1,
			"payable":   2,
		},
	}
}

// Classifier scores queries against configured term and pattern sets.
// Stateless after construction; safe for concurrent use.
type Classifier struct {
	cfg Config

	ambiguous map[string]bool

	indicatorPatterns []patternRule
	statementPatterns []patternRule
}

// NewClassifier builds a classifier from cfg.
func NewClassifier(cfg Config) *Classifier {
	c := &Classifier{
		cfg:       cfg,
		ambiguous: make(map[string]bool, len(cfg.AmbiguousTerms)),
		indicatorPatterns: []patternRule{
			{regexp.MustCompile(`(率|比率|占比|倍数)$`), 2},
			{regexp.MustCompile(`(ratio|margin|yield|turnover)$`), 2},
			{regexp.MustCompile(`^(加权|摊薄|年化)`), 1},
			{regexp.MustCompile(`(同比|环比)`), 1},
		},
		statementPatterns: []patternRule{
			{regexp.MustCompile(`^(营业|经营|投资|筹资)`), 2},
			{regexp.MustCompile(`(总额|余额|净额)$`), 2},
			{regexp.MustCompile(`(账款|借款|票据)$`), 2},
			{regexp.MustCompile(`(资产|负债|权益)$`), 1},
		},
	}
	for _, term := range cfg.AmbiguousTerms {
		c.ambiguous[textutil.Normalize(term)] = true
	}
	return c
}

// Classify assigns an intent to query. Evaluation order is a contract:
// exact ambiguous short list, then authoritative indicator/statement term
// containment, then the scored pattern+keyword heuristic with its
// tie-break. Later stages are reachable only when earlier ones are
// inconclusive.
func (c *Classifier) Classify(query string) Intent {
	q := textutil.Normalize(query)
	if q == "" {
		return Ambiguous
	}

	// Stage 1: exact short-list match is always ambiguous.
	if c.ambiguous[q] {
		return Ambiguous
	}

	// Stages 2-3: specific term matches are authoritative.
	runs := latinRuns(q)
	for _, term := range c.cfg.IndicatorTerms {
		if termHit(q, runs, textutil.Normalize(term)) {
			return Indicator
		}
	}
	for _, term := range c.cfg.StatementTerms {
		if termHit(q, runs, textutil.Normalize(term)) {
			return Statement
		}
	}

	// Stage 4: accumulate pattern and keyword scores per intent.
	indScore := scorePatterns(q, c.indicatorPatterns) + scoreKeywords(q, runs, c.cfg.IndicatorKeywords)
	stScore := scorePatterns(q, c.statementPatterns) + scoreKeywords(q, runs, c.cfg.StatementKeywords)

	// Stage 5: strictly higher score wins; ties fall to the secondary
	// heuristic.
	switch {
	case indScore > stScore:
		return Indicator
	case stScore > indScore:
		return Statement
	case indScore == 0:
		return Ambiguous
	}

	// Positive tie: a rate/ratio marker favors indicator, otherwise
	// statement. Queries on the ambiguous short list never reach here;
	// stage 1 already returned for them.
	if hasRateMarker(q) {
		return Indicator
	}
	return Statement
}

func scorePatterns(q string, rules []patternRule) float64 {
	var score float64
	for _, r := range rules {
		if r.re.MatchString(q) {
			score += r.weight
		}
	}
	return score
}

func scoreKeywords(q string, runs map[string]bool, keywords map[string]float64) float64 {
	var score float64
	for kw, w := range keywords {
		if termHit(q, runs, textutil.Normalize(kw)) {
			score += w
		}
	}
	return score
}

// shortLatinMax bounds the term length below which a pure-Latin term must
// align with a whole Latin run of the query. Normalization strips the
// spaces out of English queries, so substring matching would let a term
// like pe fire inside ordinary words (expenses, operating).
const shortLatinMax = 4

// termHit reports whether a normalized term applies to the query. Short
// pure-Latin terms match whole Latin runs only; CJK and longer Latin terms
// use plain containment.
func termHit(q string, runs map[string]bool, term string) bool {
	if len(term) <= shortLatinMax && isLatin(term) {
		return runs[term]
	}
	return strings.Contains(q, term)
}

func isLatin(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// latinRuns collects the maximal ASCII-alphanumeric runs of a normalized
// query, e.g. 加权roe yields {roe}.
func latinRuns(q string) map[string]bool {
	runs := make(map[string]bool)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			runs[b.String()] = true
			b.Reset()
		}
	}
	for _, r := range q {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return runs
}

func hasRateMarker(q string) bool {
	return strings.ContainsAny(q, "率%") ||
		strings.Contains(q, "ratio") ||
		strings.Contains(q, "margin") ||
		strings.Contains(q, "yield")
}
