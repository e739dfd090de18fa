package finance

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

type fakeExtractor struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeExtractor) Extract(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestEngineSkipsNonFinancialBody(t *testing.T) {
	fake := &fakeExtractor{}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Let's catch up for coffee tomorrow", false)
	if res.Status != StatusNoData {
		t.Errorf("expected StatusNoData, got %v", res.Status)
	}
	if fake.calls != 0 {
		t.Errorf("expected no collaborator call, got %d", fake.calls)
	}
}

func TestEngineAcceptsInvoiceBody(t *testing.T) {
	fake := &fakeExtractor{
		response: `{"items": [{"label": "Service fee", "amount": 500}], "total": 500, "currency": "USD"}`,
	}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Invoice #1234, Total: $500", false)
	if res.Status != StatusExtracted {
		t.Fatalf("expected StatusExtracted, got %v (err: %v)", res.Status, res.Err)
	}
	if fake.calls != 1 {
		t.Errorf("expected exactly one collaborator call, got %d", fake.calls)
	}
	if res.Document == nil || len(res.Document.Items) != 1 {
		t.Fatalf("expected a document with 1 item, got %+v", res.Document)
	}
	if math.Abs(res.Document.GrandTotal-500) > 0.0001 {
		t.Errorf("expected grand total 500, got %v", res.Document.GrandTotal)
	}
}

func TestEngineShortAttachmentIsUnreadable(t *testing.T) {
	fake := &fakeExtractor{}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "12345", true)
	if res.Status != StatusUnreadable {
		t.Errorf("expected StatusUnreadable, got %v", res.Status)
	}
	if fake.calls != 0 {
		t.Errorf("expected no collaborator call for unreadable attachment, got %d", fake.calls)
	}
}

func TestEngineAttachmentSkipsKeywordScreen(t *testing.T) {
	// Attached text with none of the eligibility keywords still proceeds.
	fake := &fakeExtractor{response: `{"items": []}`}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "quarterly summary of activities and plans", true)
	if fake.calls != 1 {
		t.Fatalf("expected collaborator call for attached document, got %d", fake.calls)
	}
	if res.Status != StatusNoData {
		t.Errorf("expected StatusNoData for empty extraction, got %v", res.Status)
	}
}

func TestEngineCollaboratorErrorDowngraded(t *testing.T) {
	fake := &fakeExtractor{err: errors.New("upstream timeout")}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Invoice total $120 due this week", false)
	if res.Status != StatusFailed {
		t.Fatalf("expected StatusFailed, got %v", res.Status)
	}
	if !errors.Is(res.Err, ErrExtractionFailed) {
		t.Errorf("expected ErrExtractionFailed cause, got %v", res.Err)
	}
}

func TestEngineEmptyResponseFails(t *testing.T) {
	fake := &fakeExtractor{response: "   "}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Invoice total $120 due this week", false)
	if res.Status != StatusFailed {
		t.Fatalf("expected StatusFailed, got %v", res.Status)
	}
	if !errors.Is(res.Err, ErrExtractionFailed) {
		t.Errorf("expected ErrExtractionFailed cause, got %v", res.Err)
	}
}

func TestEngineMalformedResponseFails(t *testing.T) {
	fake := &fakeExtractor{response: "I could not find anything useful in this document"}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Invoice total $120 due this week", false)
	if res.Status != StatusFailed {
		t.Fatalf("expected StatusFailed, got %v", res.Status)
	}
	if !errors.Is(res.Err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse cause, got %v", res.Err)
	}
}

func TestEngineMissingItemsListIsNoData(t *testing.T) {
	fake := &fakeExtractor{response: `{"total": 500, "currency": "USD"}`}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Invoice total $500 attached", false)
	if res.Status != StatusNoData {
		t.Errorf("expected StatusNoData, got %v", res.Status)
	}
	if res.Err != nil {
		t.Errorf("expected no error for the no-data outcome, got %v", res.Err)
	}
}

func TestEnginePayslipFlow(t *testing.T) {
	fake := &fakeExtractor{
		response: `{"items": [
			{"label": "Basic", "amount": "30,000"},
			{"label": "HRA", "amount": "10,000"},
			{"label": "Professional Tax", "amount": 2000},
			{"label": "PF", "amount": 1800}
		], "total": 0, "currency": ""}`,
	}
	engine := NewEngine(fake, nil)

	text := "Payslip for July. Salary breakdown attached. Net payable in Rs. as per contract."
	res := engine.ExtractDocument(context.Background(), text, false)
	if res.Status != StatusExtracted {
		t.Fatalf("expected StatusExtracted, got %v (err: %v)", res.Status, res.Err)
	}
	doc := res.Document
	if doc.Flavor != FlavorPayslip {
		t.Errorf("expected payslip flavor, got %v", doc.Flavor)
	}
	if math.Abs(doc.GrandTotal-36200) > 0.0001 {
		t.Errorf("expected net payable 36200, got %v", doc.GrandTotal)
	}
	if doc.Currency != "INR" {
		t.Errorf("expected INR from rs. marker, got %q", doc.Currency)
	}
	if len(doc.Items) != 4 {
		t.Errorf("expected 4 items, got %d", len(doc.Items))
	}
}

func TestEngineGenericFlowOverridesBadTotal(t *testing.T) {
	fake := &fakeExtractor{
		response: `{"items": [
			{"label": "Widget", "total": 50},
			{"label": "Gadget", "total": 30}
		], "total": 999, "currency": "USD"}`,
	}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Invoice for widgets, total due below", false)
	if res.Status != StatusExtracted {
		t.Fatalf("expected StatusExtracted, got %v (err: %v)", res.Status, res.Err)
	}
	if res.Document.Flavor != FlavorGeneric {
		t.Errorf("expected generic flavor, got %v", res.Document.Flavor)
	}
	if math.Abs(res.Document.GrandTotal-80) > 0.0001 {
		t.Errorf("expected reconciled total 80, got %v", res.Document.GrandTotal)
	}
}

func TestEngineDefaultsCurrencyToUSD(t *testing.T) {
	fake := &fakeExtractor{
		response: `{"items": [{"label": "Service", "amount": 100}], "total": 100}`,
	}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Invoice: 100 for consulting services, payment due", false)
	if res.Status != StatusExtracted {
		t.Fatalf("expected StatusExtracted, got %v", res.Status)
	}
	if res.Document.Currency != "USD" {
		t.Errorf("expected USD fallback, got %q", res.Document.Currency)
	}
}

func TestEnginePromptCarriesDocumentText(t *testing.T) {
	fake := &fakeExtractor{response: `{"items": []}`}
	engine := NewEngine(fake, nil)

	engine.ExtractDocument(context.Background(), "Invoice #77 total $42", false)
	if len(fake.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(fake.prompts))
	}
	if !strings.Contains(fake.prompts[0], "Invoice #77 total $42") {
		t.Error("expected prompt to contain the source text")
	}
}

func TestEngineFencedResponseParses(t *testing.T) {
	fake := &fakeExtractor{
		response: "```json\n{\"items\": [{\"label\": \"Hosting\", \"total\": 300}], \"total\": 300, \"currency\": \"EUR\"}\n```",
	}
	engine := NewEngine(fake, nil)

	res := engine.ExtractDocument(context.Background(), "Invoice for hosting, €300 total", false)
	if res.Status != StatusExtracted {
		t.Fatalf("expected StatusExtracted, got %v (err: %v)", res.Status, res.Err)
	}
	if res.Document.Currency != "EUR" {
		t.Errorf("expected stated EUR, got %q", res.Document.Currency)
	}
}
