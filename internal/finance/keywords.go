package finance

// Term lists driving the heuristics. Matching is always case-insensitive
// substring containment against lowercased text; extend the lists here
// instead of touching the control flow.

// eligibilityTerms gates plain message bodies: at least one term must appear
// before the text is worth an LLM call. Attached documents skip this screen.
var eligibilityTerms = []string{
	"$", "€", "£", "₹", "rs.",
	"invoice", "bill", "receipt", "total", "amount",
	"payment", "paid", "due",
	"salary", "payslip", "pay slip", "deduction", "earnings",
	"tax", "subscription",
}

// payslipTerms classify the document flavor. Any single match resolves to
// payslip regardless of how invoice-like the rest of the text looks; short
// generic documents that mention one of these will misclassify.
var payslipTerms = []string{
	"payslip", "pay slip", "salary", "earnings", "deductions",
	"basic", "hra", "gross pay", "net pay",
}

// deductionTerms split payslip items into deduction-like and earning-like
// when computing the expected net payable.
var deductionTerms = []string{
	"tax", "pf", "deduction", "professional", "provident", "leave",
}

// currencyRules map source-text markers to currency codes. Order matters:
// the first rule with any matching marker wins.
var currencyRules = []struct {
	code    string
	markers []string
}{
	{code: "INR", markers: []string{"rs.", "inr", "rupees"}},
	{code: "EUR", markers: []string{"€", "eur"}},
	{code: "GBP", markers: []string{"£", "gbp"}},
}
