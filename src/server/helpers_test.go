package server

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	cases := map[string]string{
		"100000000000000000000": "100,000,000,000,000,000,000",
		"1234567.5":             "1,234,567.5",
		"-1234.25":              "-1,234.25",
		"-0.5":                  "-0.5",
		"0":                     "0",
		"abc":                   "abc",
	}
	for in, want := range cases {
		if got := formatNumber(in); got != want {
			t.Errorf("formatNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(0.0123); got != "1.23%" {
		t.Errorf("formatPercent(0.0123) = %q", got)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := formatPercent(v); got != "0.00%" {
			t.Errorf("formatPercent(%v) = %q, want 0.00%%", v, got)
		}
	}
}
