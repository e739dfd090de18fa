package finance

import "strings"

// defaultCurrency is the fallback code and also the "generic default" a
// collaborator tends to emit when it only guessed; a stated USD therefore
// does not short-circuit the source-text scan.
const defaultCurrency = "USD"

// inferCurrency picks the document currency. A stated three-letter code
// other than the generic default wins; otherwise the full source text is
// scanned against the ordered marker rules, first match wins.
func inferCurrency(stated, sourceLower string) string {
	stated = strings.ToUpper(strings.TrimSpace(stated))
	if len(stated) == 3 && stated != defaultCurrency {
		return stated
	}

	for _, rule := range currencyRules {
		for _, marker := range rule.markers {
			if strings.Contains(sourceLower, marker) {
				return rule.code
			}
		}
	}
	return defaultCurrency
}
