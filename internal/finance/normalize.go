package finance

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// amountCleaner strips thousands separators and currency symbols before
// numeric parsing, so "58,333" and "$1,299.99" both parse.
var amountCleaner = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "₹", "", " ", "")

// normalizeItems turns the raw candidate list into validated line items.
// Items with a blank label, or with no usable amount at all, are dropped;
// input order is preserved.
func normalizeItems(raw []rawItem) []LineItem {
	items := make([]LineItem, 0, len(raw))
	for _, r := range raw {
		label := strings.TrimSpace(r.Label)
		if label == "" {
			continue
		}

		unit := parseAmount(r.Amount)
		qty := parseQuantity(r.Quantity)

		total := parseAmount(r.Total)
		if total == 0 {
			total = unit * float64(qty)
		}

		if unit == 0 && total == 0 {
			continue
		}

		items = append(items, LineItem{
			Label:      label,
			UnitAmount: unit,
			Quantity:   qty,
			LineTotal:  total,
		})
	}
	return items
}

// parseAmount coerces an untyped candidate value into a non-negative finite
// amount. Anything unparseable, negative, or non-finite resolves to 0; a
// field-level parse failure is never fatal.
func parseAmount(v any) float64 {
	var parsed float64
	switch val := v.(type) {
	case float64:
		parsed = val
	case int:
		parsed = float64(val)
	case int64:
		parsed = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		parsed = f
	case string:
		f, err := strconv.ParseFloat(amountCleaner.Replace(strings.TrimSpace(val)), 64)
		if err != nil {
			return 0
		}
		parsed = f
	default:
		return 0
	}

	if parsed < 0 || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}

// parseQuantity coerces a quantity, defaulting to 1 when the value is
// missing, unparseable, zero, or negative.
func parseQuantity(v any) int {
	var qty int
	switch val := v.(type) {
	case float64:
		qty = int(val)
	case int:
		qty = val
	case int64:
		qty = int(val)
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 1
		}
		qty = int(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 1
		}
		qty = n
	default:
		return 1
	}

	if qty <= 0 {
		return 1
	}
	return qty
}
