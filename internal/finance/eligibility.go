package finance

import "strings"

const (
	// minBodyChars is the shortest message body worth screening at all.
	minBodyChars = 10
	// minAttachmentChars is the stricter floor for attached documents:
	// below it the attachment is considered unreadable rather than
	// non-financial, so callers can warn about scanned or corrupt files.
	minAttachmentChars = 20
)

// checkEligibility decides whether text is worth an LLM call. It returns nil
// to proceed, ErrUnreadableDocument for an attachment that yielded
// effectively no text, and ErrNoFinancialData for a body that is too short
// or mentions none of the eligibility terms.
func checkEligibility(text string, attached bool) error {
	if attached {
		if len(text) < minAttachmentChars {
			return ErrUnreadableDocument
		}
		// An explicitly attached document is trusted to be worth
		// analyzing; no keyword screen.
		return nil
	}

	if len(text) < minBodyChars {
		return ErrNoFinancialData
	}

	lower := strings.ToLower(text)
	for _, term := range eligibilityTerms {
		if strings.Contains(lower, term) {
			return nil
		}
	}
	return ErrNoFinancialData
}

// classifyFlavor picks the reconciliation rule-set. A single payslip term is
// enough; everything else is treated as a generic invoice-like document.
func classifyFlavor(lower string) Flavor {
	for _, term := range payslipTerms {
		if strings.Contains(lower, term) {
			return FlavorPayslip
		}
	}
	return FlavorGeneric
}
