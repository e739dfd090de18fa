package dto

// IngestMessageRequest is the JSON body for ingesting a message without an
// attachment. With an attachment the same fields arrive as multipart form
// values alongside the file.
type IngestMessageRequest struct {
	Sender     string `json:"sender" form:"sender" validate:"required"`
	Recipients string `json:"recipients" form:"recipients"`
	Subject    string `json:"subject" form:"subject"`
	Body       string `json:"body" form:"body"`
	ReceivedAt string `json:"received_at" form:"received_at"` // RFC3339; defaults to now
}

type MessageResponse struct {
	ID              string                     `json:"id"`
	Sender          string                     `json:"sender"`
	Recipients      string                     `json:"recipients,omitempty"`
	Subject         string                     `json:"subject"`
	Body            string                     `json:"body,omitempty"`
	AttachmentName  string                     `json:"attachment_name,omitempty"`
	Summary         string                     `json:"summary,omitempty"`
	Category        string                     `json:"category,omitempty"`
	Keywords        []string                   `json:"keywords,omitempty"`
	FinancialStatus string                     `json:"financial_status"`
	Financial       *FinancialDocumentResponse `json:"financial,omitempty"`
	ReceivedAt      string                     `json:"received_at"`
	ProcessedAt     string                     `json:"processed_at,omitempty"`
	CreatedAt       string                     `json:"created_at"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}
