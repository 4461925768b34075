package market

import "testing"

func TestInfer(t *testing.T) {
	cases := []struct {
		symbol string
		want   string
		ok     bool
	}{
		// Suffix markers take precedence over bare-format heuristics.
		{"600519.SH", AStock, true},
		{"000001.SZ", AStock, true},
		{"830799.BJ", AStock, true},
		{"0700.HK", HKStock, true},
		{"00700.HK", HKStock, true},
		{"AAPL.US", USStock, true},
		{"BRK.A.N", USStock, true},
		// Bare-format heuristics.
		{"600519", AStock, true},
		{"00700", HKStock, true},
		{"9988", HKStock, true},
		{"AAPL", USStock, true},
		{"MSFT", USStock, true},
		// Case and whitespace tolerance.
		{"aapl", USStock, true},
		{" 600519.sh ", AStock, true},
		// No match.
		{"", "", false},
		{"not-a-symbol!", "", false},
		{"TOOLONGTICKER", "", false},
	}

	for _, c := range cases {
		got, ok := Infer(c.symbol)
		if got != c.want || ok != c.ok {
			t.Errorf("Infer(%q) = (%q, %v), want (%q, %v)", c.symbol, got, ok, c.want, c.ok)
		}
	}
}
