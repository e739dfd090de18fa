package service

import (
	"context"
	"strings"

	"finbox/internal/models"
	"finbox/internal/repository"

	"go.uber.org/zap"
)

// GuidelineService selects category guidelines relevant to a message so the
// analyzer prompt carries seeded examples instead of bare category names.
type GuidelineService struct {
	guidelineRepo *repository.GuidelineRepository
	limit         int
	logger        *zap.Logger
}

func NewGuidelineService(guidelineRepo *repository.GuidelineRepository, limit int, logger *zap.Logger) *GuidelineService {
	if limit <= 0 {
		limit = 5
	}
	return &GuidelineService{
		guidelineRepo: guidelineRepo,
		limit:         limit,
		logger:        logger,
	}
}

// ForMessage returns guidelines matching the message, falling back to the
// full list when nothing matches. Lookup failures degrade to no guidelines;
// the analyzer works without them.
func (s *GuidelineService) ForMessage(ctx context.Context, subject, body string) []*models.CategoryGuideline {
	query := buildGuidelineQuery(subject, body)
	if query == "" {
		return nil
	}

	results, err := s.guidelineRepo.SearchRelevant(ctx, query, s.limit)
	if err != nil {
		s.logger.Warn("Guideline search failed", zap.Error(err))
		return nil
	}

	if len(results) == 0 {
		all, err := s.guidelineRepo.List(ctx)
		if err != nil {
			s.logger.Warn("Guideline list failed", zap.Error(err))
			return nil
		}
		if len(all) > s.limit {
			all = all[:s.limit]
		}
		return all
	}

	s.logger.Debug("Guideline search completed",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)

	return results
}

// buildGuidelineQuery picks the most indicative words of a message to match
// against guideline descriptions and sample phrases. The subject carries the
// most signal; the body contributes its first words only.
func buildGuidelineQuery(subject, body string) string {
	query := strings.TrimSpace(subject)
	if query == "" {
		words := strings.Fields(body)
		if len(words) > 8 {
			words = words[:8]
		}
		query = strings.Join(words, " ")
	}
	if len(query) > 120 {
		query = query[:120]
	}
	return strings.TrimSpace(query)
}
