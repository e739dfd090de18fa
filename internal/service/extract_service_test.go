package service

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestExtractAttachmentPlainText(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	text, err := s.ExtractAttachment(strings.NewReader("Invoice total: 500 USD\n"), "invoice.txt")
	if err != nil {
		t.Fatalf("ExtractAttachment: %v", err)
	}
	if text != "Invoice total: 500 USD" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractAttachmentHTML(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	html := `<html><head><style>p{color:red}</style></head><body><p>Amount due: 120</p><script>alert(1)</script></body></html>`
	text, err := s.ExtractAttachment(strings.NewReader(html), "statement.html")
	if err != nil {
		t.Fatalf("ExtractAttachment: %v", err)
	}
	if !strings.Contains(text, "Amount due: 120") {
		t.Errorf("expected visible text, got %q", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") {
		t.Errorf("expected script/style content stripped, got %q", text)
	}
}

func TestExtractAttachmentUnsupportedFormat(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	_, err := s.ExtractAttachment(strings.NewReader("\xff\xd8\xff"), "scan.jpg")
	if !errors.Is(err, ErrNoTextContent) {
		t.Errorf("expected ErrNoTextContent, got %v", err)
	}
}

func TestExtractAttachmentEmptyFile(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	_, err := s.ExtractAttachment(strings.NewReader("   \n  "), "empty.txt")
	if !errors.Is(err, ErrNoTextContent) {
		t.Errorf("expected ErrNoTextContent, got %v", err)
	}
}

func TestBodyTextPassesPlainTextThrough(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	got := s.BodyText("  Hello, plain body.  ")
	if got != "Hello, plain body." {
		t.Errorf("unexpected body text: %q", got)
	}
}

func TestBodyTextReducesHTML(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	got := s.BodyText("<div><p>Invoice   #42</p><br><p>Total: $99</p></div>")
	if !strings.Contains(got, "Invoice #42") {
		t.Errorf("expected collapsed whitespace text, got %q", got)
	}
	if !strings.Contains(got, "Total: $99") {
		t.Errorf("expected all paragraphs, got %q", got)
	}
	if strings.Contains(got, "<p>") {
		t.Errorf("expected tags removed, got %q", got)
	}
}

func TestSanitizeUTF8DropsInvalidBytes(t *testing.T) {
	in := "pay\xffslip"
	got := sanitizeUTF8(in)
	if got != "payslip" {
		t.Errorf("expected invalid byte dropped, got %q", got)
	}
}
