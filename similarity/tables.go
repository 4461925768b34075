package similarity

import "github.com/sawpanic/fieldroute/internal/textutil"

// Built-in bilingual lookup tables. Keys and values are stored normalized;
// WithSynonyms/WithAbbreviations extend them at construction time.

func defaultSynonyms() map[string]string {
	raw := map[string]string{
		// Colloquial term → standard catalog term.
		"赚钱":       "净利润",
		"挣钱":       "净利润",
		"盈利":       "净利润",
		"营收":       "营业总收入",
		"销售额":      "营业总收入",
		"流水":       "营业总收入",
		"欠款":       "应收账款",
		"家底":       "总资产",
		"现金":       "货币资金",
		"分红率":      "股息率",
		"回报率":      "净资产收益率",
		"杠杆":       "资产负债率",
		"turnover": "营业总收入",
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[textutil.Normalize(k)] = textutil.Normalize(v)
	}
	return out
}

func defaultAbbreviations() map[string]string {
	raw := map[string]string{
		// Abbreviation → expansion, both directions consulted at scoring.
		"roe":    "净资产收益率",
		"roa":    "总资产收益率",
		"roic":   "投入资本回报率",
		"eps":    "每股收益",
		"bps":    "每股净资产",
		"pe":     "市盈率",
		"pb":     "市净率",
		"ps":     "市销率",
		"gpm":    "毛利率",
		"npm":    "净利率",
		"ocf":    "经营活动现金流",
		"capex":  "资本开支",
		"ebitda": "息税折旧摊销前利润",
		"归母净利":   "归母净利润",
		"净利":     "净利润",
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[textutil.Normalize(k)] = textutil.Normalize(v)
	}
	return out
}
