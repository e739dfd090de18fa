package finance

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseCandidatePlainJSON(t *testing.T) {
	raw := `{"items": [{"label": "Widget", "amount": 50, "quantity": 2, "total": 100}], "total": 100, "currency": "EUR"}`
	cand, err := parseCandidate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cand.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cand.Items))
	}
	if cand.Items[0].Label != "Widget" {
		t.Errorf("expected label Widget, got %q", cand.Items[0].Label)
	}
	if cand.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %q", cand.Currency)
	}
	if math.Abs(parseAmount(cand.Total)-100) > 0.0001 {
		t.Errorf("expected total 100, got %v", cand.Total)
	}
}

func TestParseCandidateMarkdownFences(t *testing.T) {
	raw := "```json\n{\"items\": [{\"label\": \"Widget\", \"amount\": 50}], \"total\": 50}\n```"
	cand, err := parseCandidate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cand.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(cand.Items))
	}
}

func TestParseCandidateProseWrappedJSON(t *testing.T) {
	raw := `Here is the extraction you asked for:

{"items": [{"label": "Hosting", "total": 300}], "total": 300, "currency": "USD"}

Let me know if you need anything else.`
	cand, err := parseCandidate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cand.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(cand.Items))
	}
}

func TestParseCandidateCommaFormattedStrings(t *testing.T) {
	raw := `{"items": [{"label": "Basic", "amount": "58,333"}], "total": "58,333", "currency": "INR"}`
	cand, err := parseCandidate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(parseAmount(cand.Items[0].Amount)-58333) > 0.0001 {
		t.Errorf("expected amount 58333, got %v", cand.Items[0].Amount)
	}
}

func TestParseCandidateEmptyContent(t *testing.T) {
	_, err := parseCandidate("   ")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestParseCandidateProseOnly(t *testing.T) {
	_, err := parseCandidate("I am sorry, I cannot help with that request.")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseCandidateMissingItems(t *testing.T) {
	_, err := parseCandidate(`{"total": 500, "currency": "USD"}`)
	if !errors.Is(err, ErrNoFinancialData) {
		t.Errorf("expected ErrNoFinancialData, got %v", err)
	}
}

func TestParseCandidateEmptyItemsList(t *testing.T) {
	cand, err := parseCandidate(`{"items": []}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cand.Items) != 0 {
		t.Errorf("expected no items, got %d", len(cand.Items))
	}
}

func TestParseCandidateRepairsTrailingComma(t *testing.T) {
	// Trailing commas are the most common malformation in model output;
	// the repair pass should recover them.
	raw := `{"items": [{"label": "Widget", "amount": 50,},], "total": 50,}`
	cand, err := parseCandidate(raw)
	if err != nil {
		t.Fatalf("expected repair to recover trailing commas, got %v", err)
	}
	if len(cand.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(cand.Items))
	}
}

func TestBuildPromptTruncatesLongText(t *testing.T) {
	text := strings.Repeat("a", maxPromptChars) + "TAIL-MARKER"
	prompt := buildPrompt(text, FlavorGeneric)
	if strings.Contains(prompt, "TAIL-MARKER") {
		t.Error("expected text beyond the limit to be cut from the prompt")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 100)) {
		t.Error("expected prompt to carry the leading text")
	}
}

func TestBuildPromptFlavorHints(t *testing.T) {
	payslip := buildPrompt("salary statement", FlavorPayslip)
	if !strings.Contains(payslip, "payslip") {
		t.Error("expected payslip hint in prompt")
	}
	generic := buildPrompt("invoice", FlavorGeneric)
	if !strings.Contains(generic, "invoice") {
		t.Error("expected invoice hint in prompt")
	}
}

func TestStripFences(t *testing.T) {
	got := stripFences("```json\n{\"a\": 1}\n```")
	if got != `{"a": 1}` {
		t.Errorf("unexpected fence stripping result: %q", got)
	}
}

func TestSliceJSONObjectNoBraces(t *testing.T) {
	in := "nothing structured here"
	if got := sliceJSONObject(in); got != in {
		t.Errorf("expected input unchanged, got %q", got)
	}
}
