package utils

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{12500, "ZAR", "R12 500.00"},
		{1200.5, "USD", "$1 200.50"},
		{-350.75, "ZAR", "-R350.75"},
		{999.999, "ZAR", "R1 000.00"},
		{0, "ZAR", "R0.00"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.amount, c.currency); got != c.want {
			t.Fatalf("FormatCurrency(%v, %s) = %q, want %q", c.amount, c.currency, got, c.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(-13.333); got != "-13.3%" {
		t.Fatalf("FormatPercent = %q", got)
	}
}
