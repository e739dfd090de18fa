package models

import (
	"time"

	"github.com/google/uuid"
)

// FinancialDocument is the extracted financial record for a message.
// One message owns at most one document; re-processing replaces it wholesale.
type FinancialDocument struct {
	ID         uuid.UUID `db:"id"`
	MessageID  uuid.UUID `db:"message_id"`
	Flavor     string    `db:"flavor"`
	GrandTotal float64   `db:"grand_total"`
	Currency   string    `db:"currency"`
	CreatedAt  time.Time `db:"created_at"`

	// Items are loaded alongside the document, ordered by position.
	Items []FinancialLineItem `db:"-"`
}

type FinancialLineItem struct {
	ID         uuid.UUID `db:"id"`
	DocumentID uuid.UUID `db:"document_id"`
	Position   int       `db:"position"`
	Label      string    `db:"label"`
	UnitAmount float64   `db:"unit_amount"`
	Quantity   int       `db:"quantity"`
	LineTotal  float64   `db:"line_total"`
}
