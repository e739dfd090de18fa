package finance

import (
	"strings"
	"testing"
)

func TestInferCurrencyFromSourceText(t *testing.T) {
	cases := []struct {
		name   string
		stated string
		source string
		want   string
	}{
		{"no markers falls back", "", "payment for services rendered", "USD"},
		{"rupee abbreviation", "", "amount due: rs. 5,000", "INR"},
		{"inr code", "", "total 5000 inr net", "INR"},
		{"rupees word", "", "five thousand rupees only", "INR"},
		{"euro symbol", "", "subtotal €120.00", "EUR"},
		{"eur code", "", "billed in eur this month", "EUR"},
		{"pound symbol", "", "balance £85.20", "GBP"},
		{"gbp code", "", "settled in gbp", "GBP"},
		{"stated code wins", "INR", "subtotal €120.00", "INR"},
		{"stated lowercase normalized", "inr", "no markers here", "INR"},
		{"stated default ignored", "USD", "amount due: rs. 5,000", "INR"},
		{"stated non-code ignored", "rupees", "plain text", "USD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inferCurrency(tc.stated, strings.ToLower(tc.source))
			if got != tc.want {
				t.Errorf("inferCurrency(%q, %q) = %q, want %q", tc.stated, tc.source, got, tc.want)
			}
		})
	}
}

func TestInferCurrencyFirstMatchWins(t *testing.T) {
	// INR markers are checked before EUR and GBP; a document mentioning
	// several currencies resolves to the first rule that matches.
	got := inferCurrency("", strings.ToLower("Rs. 2,000 (approx €22 / £19)"))
	if got != "INR" {
		t.Errorf("expected INR to win, got %q", got)
	}
}
