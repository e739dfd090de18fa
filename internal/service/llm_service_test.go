package service

import (
	"strings"
	"testing"

	"finbox/internal/models"

	"go.uber.org/zap"
)

func testLLMService() *LLMService {
	return &LLMService{logger: zap.NewNop()}
}

func TestParseAnalysisPlainJSON(t *testing.T) {
	s := testLLMService()

	analysis := s.parseAnalysis(`{"summary": "Monthly payslip for July.", "category": "finance", "keywords": ["payslip", "salary"]}`)
	if analysis.Summary != "Monthly payslip for July." {
		t.Errorf("unexpected summary: %q", analysis.Summary)
	}
	if analysis.Category != "finance" {
		t.Errorf("unexpected category: %q", analysis.Category)
	}
	if len(analysis.Keywords) != 2 {
		t.Errorf("unexpected keywords: %v", analysis.Keywords)
	}
}

func TestParseAnalysisFencedJSON(t *testing.T) {
	s := testLLMService()

	content := "```json\n{\"summary\": \"Team standup notes.\", \"category\": \"work\", \"keywords\": [\"standup\"]}\n```"
	analysis := s.parseAnalysis(content)
	if analysis.Category != "work" {
		t.Errorf("unexpected category: %q", analysis.Category)
	}
	if analysis.Summary != "Team standup notes." {
		t.Errorf("unexpected summary: %q", analysis.Summary)
	}
}

func TestParseAnalysisProseWrappedJSON(t *testing.T) {
	s := testLLMService()

	content := `Here is the analysis you asked for: {"summary": "Flight booking confirmation.", "category": "travel", "keywords": ["flight", "booking"]} Hope this helps!`
	analysis := s.parseAnalysis(content)
	if analysis.Category != "travel" {
		t.Errorf("unexpected category: %q", analysis.Category)
	}
}

func TestParseAnalysisRepairsBrokenJSON(t *testing.T) {
	s := testLLMService()

	content := `{"summary": "Promo newsletter.", "category": "newsletters", "keywords": ["promo",],}`
	analysis := s.parseAnalysis(content)
	if analysis.Category != "newsletters" {
		t.Errorf("expected repaired JSON to parse, got category %q", analysis.Category)
	}
}

func TestParseAnalysisSchemaViolationFallsBack(t *testing.T) {
	s := testLLMService()

	// keywords as a string violates the schema
	content := `{"summary": "Something.", "category": "work", "keywords": "not-a-list"}`
	analysis := s.parseAnalysis(content)
	if analysis.Category != string(models.CategoryGeneral) {
		t.Errorf("expected fallback to general, got %q", analysis.Category)
	}
	if analysis.Summary == "" {
		t.Error("expected fallback to keep raw content as summary")
	}
}

func TestParseAnalysisProseOnlyFallsBack(t *testing.T) {
	s := testLLMService()

	analysis := s.parseAnalysis("I cannot analyze this message.")
	if analysis.Category != string(models.CategoryGeneral) {
		t.Errorf("expected general category, got %q", analysis.Category)
	}
	if !strings.Contains(analysis.Summary, "cannot analyze") {
		t.Errorf("expected raw content kept as summary, got %q", analysis.Summary)
	}
}

func TestParseAnalysisNormalizesUnknownCategory(t *testing.T) {
	s := testLLMService()

	analysis := s.parseAnalysis(`{"summary": "x", "category": "spam", "keywords": []}`)
	if analysis.Category != string(models.CategoryGeneral) {
		t.Errorf("expected unknown category mapped to general, got %q", analysis.Category)
	}

	analysis = s.parseAnalysis(`{"summary": "x", "category": "FINANCE", "keywords": []}`)
	if analysis.Category != string(models.CategoryFinance) {
		t.Errorf("expected case-folded category, got %q", analysis.Category)
	}
}

func TestTrimKeywords(t *testing.T) {
	keywords := trimKeywords([]string{" invoice ", "", "  ", "total", "a", "b", "c", "d", "e", "f", "g", "h", "i"})
	if len(keywords) != 10 {
		t.Errorf("expected cap at 10 keywords, got %d", len(keywords))
	}
	if keywords[0] != "invoice" {
		t.Errorf("expected trimmed keyword, got %q", keywords[0])
	}
}

func TestCleanModelJSON(t *testing.T) {
	got := cleanModelJSON("```json\n{\"a\": 1}\n```")
	if got != `{"a": 1}` {
		t.Errorf("unexpected cleaned content: %q", got)
	}

	got = cleanModelJSON(`noise before {"a": 1} noise after`)
	if got != `{"a": 1}` {
		t.Errorf("unexpected sliced content: %q", got)
	}
}

func TestBuildAnalysisPromptIncludesGuidelines(t *testing.T) {
	guidelines := []*models.CategoryGuideline{
		{Category: models.CategoryFinance, Description: "Money movement", SamplePhrases: "invoice, payslip"},
	}

	prompt := buildAnalysisPrompt("Invoice attached", guidelines)
	if !strings.Contains(prompt, "Money movement") {
		t.Error("expected guideline description in prompt")
	}
	if !strings.Contains(prompt, "invoice, payslip") {
		t.Error("expected sample phrases in prompt")
	}
	if !strings.Contains(prompt, "Invoice attached") {
		t.Error("expected message text in prompt")
	}
	for _, c := range models.Categories {
		if !strings.Contains(prompt, string(c)) {
			t.Errorf("expected category %q listed in prompt", c)
		}
	}
}
