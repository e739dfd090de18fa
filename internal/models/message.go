package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageCategory string

const (
	CategoryFinance     MessageCategory = "finance"
	CategoryWork        MessageCategory = "work"
	CategoryPersonal    MessageCategory = "personal"
	CategoryTravel      MessageCategory = "travel"
	CategoryShopping    MessageCategory = "shopping"
	CategoryNewsletters MessageCategory = "newsletters"
	CategoryGeneral     MessageCategory = "general"
)

// Categories lists every category the analyzer may assign.
var Categories = []MessageCategory{
	CategoryFinance,
	CategoryWork,
	CategoryPersonal,
	CategoryTravel,
	CategoryShopping,
	CategoryNewsletters,
	CategoryGeneral,
}

// ParseCategory maps a raw string onto a known category.
func ParseCategory(value string) (MessageCategory, bool) {
	for _, c := range Categories {
		if string(c) == value {
			return c, true
		}
	}
	return "", false
}

type FinancialStatus string

const (
	FinancialStatusPending    FinancialStatus = "pending"
	FinancialStatusNone       FinancialStatus = "none"
	FinancialStatusExtracted  FinancialStatus = "extracted"
	FinancialStatusUnreadable FinancialStatus = "unreadable"
	FinancialStatusFailed     FinancialStatus = "failed"
)

// ParseFinancialStatus maps a raw string onto a known status.
func ParseFinancialStatus(value string) (FinancialStatus, bool) {
	switch status := FinancialStatus(value); status {
	case FinancialStatusPending, FinancialStatusNone, FinancialStatusExtracted,
		FinancialStatusUnreadable, FinancialStatusFailed:
		return status, true
	}
	return "", false
}

type Message struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	Sender          string          `db:"sender"`
	Recipients      string          `db:"recipients"`
	Subject         string          `db:"subject"`
	Body            string          `db:"body"`
	AttachmentName  string          `db:"attachment_name"`
	AttachmentText  string          `db:"attachment_text"`
	Summary         string          `db:"summary"`
	Category        MessageCategory `db:"category"`
	Keywords        []string        `db:"keywords"`
	FinancialStatus FinancialStatus `db:"financial_status"`
	ReceivedAt      time.Time       `db:"received_at"`
	ProcessedAt     *time.Time      `db:"processed_at"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// HasAttachment reports whether the message carried an attached document.
func (m *Message) HasAttachment() bool {
	return m.AttachmentName != ""
}
