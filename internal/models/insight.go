package models

import (
	"time"

	"github.com/google/uuid"
)

type Insight struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	Content       string    `db:"content"`
	DocumentCount int       `db:"document_count"`
	CreatedAt     time.Time `db:"created_at"`
}
