package finance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// maxPromptChars bounds the document text sent to the collaborator. Longer
// documents are truncated, not chunked, and the cut is not semantically
// aware.
const maxPromptChars = 4000

// candidate is the loosely-typed payload the collaborator returns. Numeric
// fields stay untyped because models deliver them as numbers or as
// comma-formatted strings interchangeably.
type candidate struct {
	Items    []rawItem
	Total    any
	Currency string
}

type rawItem struct {
	Label    string
	Amount   any
	Quantity any
	Total    any
}

func buildPrompt(text string, flavor Flavor) string {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	hint := "The text looks like an invoice, bill, or receipt: list every charged line as its own item."
	if flavor == FlavorPayslip {
		hint = "The text looks like a payslip: list every earning and every deduction as its own item."
	}

	return fmt.Sprintf(`You are a financial document parser. Extract the financial line items from the text below.

IMPORTANT: Return ONLY a valid JSON object, without markdown fences, comments, or explanations.

%s

Text:
%s

Return JSON in exactly this shape:
{
  "items": [
    {"label": "item description", "amount": 100.0, "quantity": 1, "total": 100.0}
  ],
  "total": 100.0,
  "currency": "USD"
}

RULES:
- "amount" is the per-unit value and "total" the line total; omit fields the text does not state
- keep items in the order they appear in the text
- "total" at the top level is the document's stated grand total, if any
- if the text contains no financial line items, return {"items": []}`, hint, text)
}

// parseCandidate turns raw model content into a candidate. Empty content
// maps to ErrExtractionFailed, undecodable content to ErrMalformedResponse,
// and a decoded object without an items list to ErrNoFinancialData.
func parseCandidate(raw string) (*candidate, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil, ErrExtractionFailed
	}

	payload := sliceJSONObject(stripFences(content))
	obj, err := decodeObject(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	rawItems, ok := obj["items"].([]any)
	if !ok {
		return nil, ErrNoFinancialData
	}

	cand := &candidate{
		Total:    obj["total"],
		Currency: stringField(obj, "currency"),
	}
	for _, entry := range rawItems {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		cand.Items = append(cand.Items, rawItem{
			Label:    stringField(m, "label"),
			Amount:   m["amount"],
			Quantity: m["quantity"],
			Total:    m["total"],
		})
	}
	return cand, nil
}

// decodeObject tries strict JSON first, then a repaired variant, then hjson
// as a last resort for near-JSON output.
func decodeObject(payload string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(payload), &obj); err == nil {
		return obj, nil
	}

	if repaired, err := jsonrepair.RepairJSON(payload); err == nil {
		if err := json.Unmarshal([]byte(repaired), &obj); err == nil {
			return obj, nil
		}
	}

	if err := hjson.Unmarshal([]byte(payload), &obj); err == nil {
		return obj, nil
	}

	return nil, errors.New("content is not a JSON object")
}

// stripFences removes markdown code fences models wrap JSON in despite
// instructions.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// sliceJSONObject cuts the response down to the outermost object so that
// prose before or after the JSON does not break decoding.
func sliceJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return content
	}
	return content[start : end+1]
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
