package finance

import (
	"math"
	"strings"
)

const (
	// payslipTotalTolerance is the absolute bound for accepting a stated
	// payslip total. It deliberately does not scale with the document's
	// magnitude.
	payslipTotalTolerance = 100.0
	// genericTotalTolerance is the relative bound (1%) for accepting a
	// stated invoice total against the sum of its items.
	genericTotalTolerance = 0.01
)

// reconcileTotal produces the authoritative grand total. A non-zero stated
// total is the candidate answer but must survive validation against the
// items; otherwise the flavor-specific computed value wins. With no usable
// stated total and no items the result is 0.
func reconcileTotal(flavor Flavor, items []LineItem, stated float64) float64 {
	computed := computedTotal(flavor, items)

	if stated != 0 {
		if flavor == FlavorPayslip {
			if math.Abs(stated-computed) > payslipTotalTolerance {
				return computed
			}
			return stated
		}
		if computed > 0 && math.Abs(stated-computed) > genericTotalTolerance*computed {
			return computed
		}
		return stated
	}

	if len(items) > 0 {
		return computed
	}
	return 0
}

// computedTotal derives a total from the items alone: net payable
// (earnings minus deductions) for payslips, plain sum of line totals for
// everything else.
func computedTotal(flavor Flavor, items []LineItem) float64 {
	if flavor == FlavorPayslip {
		var earnings, deductions float64
		for _, item := range items {
			if isDeductionLabel(item.Label) {
				deductions += item.LineTotal
			} else {
				earnings += item.LineTotal
			}
		}
		return earnings - deductions
	}

	var sum float64
	for _, item := range items {
		sum += item.LineTotal
	}
	return sum
}

func isDeductionLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, term := range deductionTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
