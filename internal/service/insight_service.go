package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finbox/internal/dto"
	"finbox/internal/models"
	"finbox/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoFinancialHistory means the user has no extracted documents yet, so
// there is nothing to generate insights from.
var ErrNoFinancialHistory = errors.New("no extracted financial documents")

// insightItemLimit caps how many recent line items feed one insight run.
const insightItemLimit = 200

type InsightService struct {
	insightRepo *repository.InsightRepository
	finRepo     *repository.FinancialRepository
	llmService  *LLMService
	logger      *zap.Logger
}

func NewInsightService(
	insightRepo *repository.InsightRepository,
	finRepo *repository.FinancialRepository,
	llmService *LLMService,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		insightRepo: insightRepo,
		finRepo:     finRepo,
		llmService:  llmService,
		logger:      logger,
	}
}

// Generate asks the model for observations over the user's recent extracted
// documents and persists the outcome.
func (s *InsightService) Generate(ctx context.Context, userID uuid.UUID) (*dto.InsightResponse, error) {
	rows, err := s.finRepo.ListItemsByUser(ctx, userID, repository.MessageFilter{Limit: insightItemLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load financial history: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoFinancialHistory
	}

	digest, docCount := buildInsightDigest(rows)

	content, err := s.llmService.GenerateInsight(ctx, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insight: %w", err)
	}

	insight := &models.Insight{
		ID:            uuid.New(),
		UserID:        userID,
		Content:       sanitizeUTF8(content),
		DocumentCount: docCount,
		CreatedAt:     time.Now(),
	}

	if err := s.insightRepo.Create(ctx, insight); err != nil {
		return nil, fmt.Errorf("failed to store insight: %w", err)
	}

	s.logger.Info("Insight generated",
		zap.String("user_id", userID.String()),
		zap.Int("documents", docCount),
	)

	return toInsightResponse(insight), nil
}

func (s *InsightService) List(ctx context.Context, userID uuid.UUID, limit int) ([]dto.InsightResponse, error) {
	if limit <= 0 {
		limit = 20
	}

	insights, err := s.insightRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.InsightResponse, len(insights))
	for i, insight := range insights {
		responses[i] = *toInsightResponse(insight)
	}

	return responses, nil
}

// buildInsightDigest renders line items grouped per document into the plain
// text digest handed to the model, and counts the distinct documents.
func buildInsightDigest(rows []*repository.LineItemExport) (string, int) {
	var sb strings.Builder
	var current uuid.UUID
	docCount := 0

	for _, row := range rows {
		if row.MessageID != current {
			if docCount > 0 {
				sb.WriteString("\n")
			}
			current = row.MessageID
			docCount++
			sb.WriteString(fmt.Sprintf("[%s] %q (%s, %s %.2f):\n",
				row.ReceivedAt.Format("2006-01-02"), row.Subject, row.Flavor, row.Currency, row.GrandTotal))
		}
		sb.WriteString(fmt.Sprintf("  - %s: %.2f", row.Label, row.LineTotal))
		if row.Quantity > 1 {
			sb.WriteString(fmt.Sprintf(" (x%d)", row.Quantity))
		}
		sb.WriteString("\n")
	}

	return sb.String(), docCount
}

func toInsightResponse(insight *models.Insight) *dto.InsightResponse {
	return &dto.InsightResponse{
		ID:            insight.ID.String(),
		Content:       insight.Content,
		DocumentCount: insight.DocumentCount,
		CreatedAt:     insight.CreatedAt.Format(time.RFC3339),
	}
}
