package service

import (
	"strings"
	"testing"
)

func TestBuildGuidelineQueryPrefersSubject(t *testing.T) {
	got := buildGuidelineQuery("Your July payslip", "long body text here")
	if got != "Your July payslip" {
		t.Errorf("unexpected query: %q", got)
	}
}

func TestBuildGuidelineQueryFallsBackToBodyWords(t *testing.T) {
	got := buildGuidelineQuery("", "one two three four five six seven eight nine ten")
	if got != "one two three four five six seven eight" {
		t.Errorf("expected first 8 words, got %q", got)
	}
}

func TestBuildGuidelineQueryCapsLength(t *testing.T) {
	got := buildGuidelineQuery(strings.Repeat("x", 300), "")
	if len(got) > 120 {
		t.Errorf("expected capped length, got %d", len(got))
	}
}

func TestBuildGuidelineQueryEmpty(t *testing.T) {
	if got := buildGuidelineQuery("  ", "   "); got != "" {
		t.Errorf("expected empty query, got %q", got)
	}
}
