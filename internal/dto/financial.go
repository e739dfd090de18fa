package dto

type FinancialDocumentResponse struct {
	ID         string                  `json:"id"`
	Flavor     string                  `json:"flavor"`
	GrandTotal float64                 `json:"grand_total"`
	Currency   string                  `json:"currency"`
	Items      []FinancialItemResponse `json:"items"`
	CreatedAt  string                  `json:"created_at"`
}

type FinancialItemResponse struct {
	Label      string  `json:"label"`
	UnitAmount float64 `json:"unit_amount"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
}
