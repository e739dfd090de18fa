package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"finbox/internal/models"
	"finbox/pkg/config"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/Role1776/gigago"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// maxAnalysisChars bounds how much message text is sent for analysis.
const maxAnalysisChars = 4000

const analysisSchemaJSON = `{
	"type": "object",
	"required": ["summary", "category", "keywords"],
	"properties": {
		"summary": {"type": "string"},
		"category": {"type": "string"},
		"keywords": {"type": "array", "items": {"type": "string"}}
	}
}`

var analysisSchema = jsonschema.MustCompileString("analysis.json", analysisSchemaJSON)

type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	config *config.GigaChatConfig
	logger *zap.Logger
}

func buildSystemInstruction() string {
	return `You are an email intelligence assistant for a personal inbox service. You analyze email messages and the text of their attached documents.

Your tasks:
1. Summarization: a short, factual summary of the message (one or two sentences).
2. Categorization: exactly one category from the list given in the request.
3. Keyword extraction: the most distinctive keywords of the message.
4. Financial extraction: when asked, extract line items, the total and the currency from invoices, bills, receipts and payslips.

Rules:
- Always return strictly valid JSON in exactly the requested shape, without markdown fences and without commentary before or after.
- Never invent amounts, items or facts that are not present in the source text.
- Amounts may appear with thousands separators (for example "29,167"); keep them as written in the source.
- If the text contains no financial line items, return {"items": []}.`
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.3

	return &LLMService{
		client: client,
		model:  model,
		config: cfg,
		logger: logger,
	}, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// MessageAnalysis is the structured outcome of analyzing one message.
type MessageAnalysis struct {
	Summary  string   `json:"summary"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// AnalyzeMessage produces summary, category and keywords for a message.
// Guidelines, when present, steer the categorizer with seeded examples.
// The response is schema-validated; on violation the method degrades to
// safe defaults instead of failing, so summaries are never lost to a
// malformed model reply.
func (s *LLMService) AnalyzeMessage(ctx context.Context, subject, body string, guidelines []*models.CategoryGuideline) (*MessageAnalysis, error) {
	text := strings.TrimSpace(subject)
	if body = strings.TrimSpace(body); body != "" {
		if text != "" {
			text += "\n\n"
		}
		text += body
	}
	if text == "" {
		return &MessageAnalysis{Category: string(models.CategoryGeneral)}, nil
	}
	if len(text) > maxAnalysisChars {
		text = text[:maxAnalysisChars]
	}

	prompt := buildAnalysisPrompt(text, guidelines)

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from LLM")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	analysis := s.parseAnalysis(content)

	s.logger.Info("Message analysis completed",
		zap.String("category", analysis.Category),
		zap.Int("keywords", len(analysis.Keywords)),
	)

	return analysis, nil
}

func buildAnalysisPrompt(text string, guidelines []*models.CategoryGuideline) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following email message.\n\n")
	sb.WriteString("Categories:\n")
	for _, c := range models.Categories {
		sb.WriteString("- ")
		sb.WriteString(string(c))
		sb.WriteString("\n")
	}

	if len(guidelines) > 0 {
		sb.WriteString("\nCategory guidelines:\n")
		for _, g := range guidelines {
			sb.WriteString(fmt.Sprintf("- %s: %s", g.Category, g.Description))
			if g.SamplePhrases != "" {
				sb.WriteString(fmt.Sprintf(" (typical phrases: %s)", g.SamplePhrases))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nMessage:\n")
	sb.WriteString(text)
	sb.WriteString(`

Return ONLY a valid JSON object in exactly this shape:
{"summary": "one or two factual sentences", "category": "one category from the list", "keywords": ["3 to 8 distinctive keywords"]}

Rules:
- No markdown fences, no commentary before or after the JSON.
- The category must be exactly one value from the list above.`)

	return sb.String()
}

// parseAnalysis coerces the model reply into a MessageAnalysis. It never
// fails: fence stripping, object slicing and json-repair are tried in
// order, and a reply that still violates the schema degrades to the raw
// content as summary with the general category.
func (s *LLMService) parseAnalysis(content string) *MessageAnalysis {
	cleaned := cleanModelJSON(content)

	data := []byte(cleaned)
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		if repaired, repairErr := jsonrepair.RepairJSON(cleaned); repairErr == nil {
			data = []byte(repaired)
			err = json.Unmarshal(data, &v)
		}
		if err != nil {
			s.logger.Warn("Analysis response is not JSON, falling back to raw summary")
			return fallbackAnalysis(content)
		}
	}

	if err := analysisSchema.Validate(v); err != nil {
		s.logger.Warn("Analysis response violates schema, falling back", zap.Error(err))
		return fallbackAnalysis(content)
	}

	var analysis MessageAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return fallbackAnalysis(content)
	}

	analysis.Summary = strings.TrimSpace(analysis.Summary)
	analysis.Category = normalizeCategory(analysis.Category)
	analysis.Keywords = trimKeywords(analysis.Keywords)

	return &analysis
}

func fallbackAnalysis(content string) *MessageAnalysis {
	summary := strings.TrimSpace(content)
	if len(summary) > 300 {
		summary = summary[:300]
	}
	return &MessageAnalysis{
		Summary:  summary,
		Category: string(models.CategoryGeneral),
	}
}

func normalizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	for _, c := range models.Categories {
		if category == string(c) {
			return category
		}
	}
	return string(models.CategoryGeneral)
}

func trimKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		out = append(out, kw)
		if len(out) == 10 {
			break
		}
	}
	return out
}

// cleanModelJSON strips markdown fences and slices the outermost JSON
// object out of a model reply.
func cleanModelJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	return content
}

// Extract sends a financial-extraction prompt and returns the raw model
// reply. Satisfies finance.Extractor.
func (s *LLMService) Extract(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateInsight asks the model for spending observations over a
// pre-formatted digest of extracted documents. Returns plain text.
func (s *LLMService) GenerateInsight(ctx context.Context, digest string) (string, error) {
	prompt := fmt.Sprintf(`Here is a digest of financial documents extracted from a user's inbox:

%s

Write 2-4 short observations about this spending: notable totals, recurring charges, anything worth the user's attention. Plain text, one observation per line, no JSON, no markdown.`, digest)

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
