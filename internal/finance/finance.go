// Package finance decides whether a piece of text carries financial data,
// asks an LLM collaborator for a structured candidate, and reconciles that
// candidate into a clean document with validated line items and a trusted
// grand total.
package finance

import (
	"context"
	"errors"
)

type Flavor string

const (
	FlavorPayslip Flavor = "payslip"
	FlavorGeneric Flavor = "generic"
)

// LineItem is one validated row of a financial document.
type LineItem struct {
	Label      string  `json:"label"`
	UnitAmount float64 `json:"unit_amount"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
}

// Document is the reconciled result of one extraction run. It is built fresh
// on every call and never mutated afterwards; re-processing a source replaces
// the previous document wholesale.
type Document struct {
	Items      []LineItem `json:"items"`
	GrandTotal float64    `json:"grand_total"`
	Currency   string     `json:"currency"`
	Flavor     Flavor     `json:"flavor"`
}

var (
	ErrNoFinancialData    = errors.New("no financial data")
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrExtractionFailed   = errors.New("extraction failed")
	ErrMalformedResponse  = errors.New("malformed extraction response")
)

type Status int

const (
	// StatusExtracted means a document was produced.
	StatusExtracted Status = iota
	// StatusNoData means the text carries no financial data. Expected
	// outcome, not an error.
	StatusNoData
	// StatusUnreadable means an attached document yielded effectively no
	// text (scanned image, corrupt file).
	StatusUnreadable
	// StatusFailed means the collaborator errored or returned output that
	// could not be parsed. Recoverable: callers fall back to "no data".
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusExtracted:
		return "extracted"
	case StatusNoData:
		return "none"
	case StatusUnreadable:
		return "unreadable"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of an extraction run. Document is non-nil only
// for StatusExtracted; Err is set only for StatusFailed and carries the
// downgraded cause for logging.
type Result struct {
	Status   Status
	Document *Document
	Err      error
}

// Extractor is the LLM collaborator boundary. Implementations receive a
// bounded UTF-8 prompt and return the raw model content; retry and backoff
// live behind this interface, never inside the engine.
type Extractor interface {
	Extract(ctx context.Context, prompt string) (string, error)
}
