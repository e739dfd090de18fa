package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryGuideline is seeded reference data steering the analyzer prompt:
// what a category means and phrases typical for it.
type CategoryGuideline struct {
	ID            uuid.UUID       `db:"id"`
	Category      MessageCategory `db:"category"`
	Description   string          `db:"description"`
	SamplePhrases string          `db:"sample_phrases"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
