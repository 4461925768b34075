package route

import (
	"strings"

	"github.com/sawpanic/fieldroute/catalog"
	"github.com/sawpanic/fieldroute/rank"
)

// Field-ID fragments that mark a derived indicator versus a raw statement
// line item. Catalog IDs follow provider naming, so both English fragments
// and display-name suffixes are consulted.
var (
	indicatorIDMarkers = []string{
		"RATIO", "RATE", "MARGIN", "YIELD", "TURNOVER", "GROWTH",
		"ROE", "ROA", "ROIC", "EPS", "BPS", "PE", "PB", "PS",
	}
	statementIDMarkers = []string{
		"REVENUE", "INCOME", "PROFIT", "COST", "EXPENSE", "ASSET",
		"LIABILIT", "EQUITY", "CASH", "RECEIVABLE", "PAYABLE",
		"INVENTORY", "DEBT", "FLOW",
	}
	indicatorNameSuffixes = []string{"率", "比", "占比", "倍数"}
)

// inferSourceKind guesses a field's nature from its ID naming pattern and
// descriptor text. Indicator markers are checked first: many ratio IDs
// embed a statement word (e.g. NET_PROFIT_MARGIN).
func inferSourceKind(fieldID string, d *catalog.FieldDescriptor) rank.SourceKind {
	id := strings.ToUpper(fieldID)

	for _, marker := range indicatorIDMarkers {
		if containsToken(id, marker) {
			return rank.KindIndicator
		}
	}
	for _, suffix := range indicatorNameSuffixes {
		if strings.HasSuffix(d.DisplayName, suffix) {
			return rank.KindIndicator
		}
	}
	for _, marker := range statementIDMarkers {
		if strings.Contains(id, marker) {
			return rank.KindStatement
		}
	}
	return rank.KindUnknown
}

// containsToken matches marker against underscore-delimited tokens so that
// PE does not fire inside EXPENSE or OPERATING.
func containsToken(id, marker string) bool {
	for _, tok := range strings.Split(id, "_") {
		if tok == marker {
			return true
		}
	}
	return false
}
