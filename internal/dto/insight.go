package dto

type InsightResponse struct {
	ID            string `json:"id"`
	Content       string `json:"content"`
	DocumentCount int    `json:"document_count"`
	CreatedAt     string `json:"created_at"`
}
