package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultConfig())
}

func TestClassifyAmbiguousShortList(t *testing.T) {
	c := newTestClassifier()

	// Short generic terms must come back ambiguous from the short-list
	// check alone, never as indicator or statement.
	for _, q := range []string{"收入", "利润", "成本", "income", "profit"} {
		assert.Equal(t, Ambiguous, c.Classify(q), "query %q", q)
	}
}

func TestClassifySpecificTermsAreAuthoritative(t *testing.T) {
	c := newTestClassifier()

	assert.Equal(t, Indicator, c.Classify("净资产收益率"))
	assert.Equal(t, Indicator, c.Classify("ROE"))
	assert.Equal(t, Indicator, c.Classify("加权ROE"))
	assert.Equal(t, Statement, c.Classify("营业总收入"))
	assert.Equal(t, Statement, c.Classify("货币资金"))
}

func TestClassifyShortLatinTermsMatchWholeRuns(t *testing.T) {
	c := newTestClassifier()

	// pe/pb style terms must not fire inside ordinary English words once
	// normalization strips the spaces (operating cost → operatingcost).
	assert.Equal(t, Ambiguous, c.Classify("Operating Cost"))
	assert.Equal(t, Ambiguous, c.Classify("Total Expenses"))

	// Standalone and CJK-adjacent runs still hit the authoritative list.
	assert.Equal(t, Indicator, c.Classify("pe"))
	assert.Equal(t, Indicator, c.Classify("动态pe"))

	// Longer Latin terms keep containment so joined English forms work.
	assert.Equal(t, Indicator, c.Classify("Gross Margin"))
}

func TestClassifyScoredHeuristic(t *testing.T) {
	c := newTestClassifier()

	// Suffix 占比 plus the ratio keywords push this to indicator without
	// any specific-term hit.
	assert.Equal(t, Indicator, c.Classify("资金周转占比"))
	// Statement-style prefix/suffix structure.
	assert.Equal(t, Statement, c.Classify("筹资活动现金流净额"))
	// Nothing matches at all: ambiguous.
	assert.Equal(t, Ambiguous, c.Classify("xyz123"))
	assert.Equal(t, Ambiguous, c.Classify(""))
}

func TestClassifyNormalizesBeforeMatching(t *testing.T) {
	c := newTestClassifier()

	// Full-width and mixed-case forms fold to the same verdicts.
	assert.Equal(t, Indicator, c.Classify("ｒｏｅ"))
	assert.Equal(t, Ambiguous, c.Classify(" 收 入 "))
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "indicator", Indicator.String())
	assert.Equal(t, "statement", Statement.String())
	assert.Equal(t, "ambiguous", Ambiguous.String())
}
