package finance

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 1234.5, 1234.5},
		{"thousands separator string", "29,167", 29167},
		{"decimal string with separator", "58,333.25", 58333.25},
		{"currency symbol", "$1,299.99", 1299.99},
		{"plain string", "500", 500},
		{"whitespace", "  42.5  ", 42.5},
		{"unparseable", "twelve", 0},
		{"negative", -50.0, 0},
		{"negative string", "-50", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"nan string", "NaN", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseAmount(tc.in)
			if math.Abs(got-tc.want) > 0.0001 {
				t.Errorf("parseAmount(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"missing", nil, 1},
		{"zero", 0.0, 1},
		{"negative", -3.0, 1},
		{"float", 4.0, 4},
		{"string", "2", 2},
		{"unparseable string", "a few", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseQuantity(tc.in); got != tc.want {
				t.Errorf("parseQuantity(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeItemsDefaultsQuantity(t *testing.T) {
	items := normalizeItems([]rawItem{
		{Label: "Widget", Amount: 50.0},
	})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", items[0].Quantity)
	}
}

func TestNormalizeItemsComputesLineTotal(t *testing.T) {
	items := normalizeItems([]rawItem{
		{Label: "Widget", Amount: 100.0, Quantity: 3.0},
	})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if math.Abs(items[0].LineTotal-300) > 0.0001 {
		t.Errorf("expected line total 300, got %v", items[0].LineTotal)
	}
}

func TestNormalizeItemsKeepsProvidedTotal(t *testing.T) {
	items := normalizeItems([]rawItem{
		{Label: "Widget", Amount: 100.0, Quantity: 3.0, Total: 280.0},
	})
	if math.Abs(items[0].LineTotal-280) > 0.0001 {
		t.Errorf("expected provided total 280, got %v", items[0].LineTotal)
	}
}

func TestNormalizeItemsParsesStringAmounts(t *testing.T) {
	items := normalizeItems([]rawItem{
		{Label: "Basic", Amount: "29,167"},
	})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if math.Abs(items[0].UnitAmount-29167) > 0.0001 {
		t.Errorf("expected unit amount 29167, got %v", items[0].UnitAmount)
	}
	if math.Abs(items[0].LineTotal-29167) > 0.0001 {
		t.Errorf("expected line total 29167, got %v", items[0].LineTotal)
	}
}

func TestNormalizeItemsDropsBlankLabels(t *testing.T) {
	items := normalizeItems([]rawItem{
		{Label: "", Amount: 100.0},
		{Label: "   ", Amount: 200.0},
		{Label: "Kept", Amount: 300.0},
	})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Label != "Kept" {
		t.Errorf("expected only the labeled item, got %q", items[0].Label)
	}
}

func TestNormalizeItemsDropsZeroAmountItems(t *testing.T) {
	items := normalizeItems([]rawItem{
		{Label: "No signal"},
		{Label: "Unparseable", Amount: "n/a", Total: "unknown"},
		{Label: "Real", Total: 40.0},
	})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Label != "Real" {
		t.Errorf("expected the usable item, got %q", items[0].Label)
	}
}

func TestNormalizeItemsPreservesOrder(t *testing.T) {
	items := normalizeItems([]rawItem{
		{Label: "Third seen first", Amount: 3.0},
		{Label: "Then this", Amount: 1.0},
		{Label: "Last", Amount: 2.0},
	})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []string{"Third seen first", "Then this", "Last"}
	for i, label := range want {
		if items[i].Label != label {
			t.Errorf("item %d: expected %q, got %q", i, label, items[i].Label)
		}
	}
}
