package handlers

import (
	"finbox/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InsightHandler struct {
	insightService *service.InsightService
	logger         *zap.Logger
}

func NewInsightHandler(insightService *service.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		logger:         logger,
	}
}

// GenerateInsight godoc
// @Summary Generate a spending insight
// @Description Summarize the user's extracted financial history into a short set of observations
// @Tags insights
// @Produce json
// @Security Bearer
// @Success 201 {object} dto.InsightResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/insights/generate [post]
func (h *InsightHandler) GenerateInsight(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	resp, err := h.insightService.Generate(c.Context(), userID)
	if err != nil {
		if err == service.ErrNoFinancialHistory {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No extracted financial documents to analyze",
			})
		}
		h.logger.Error("Failed to generate insight", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate insight",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListInsights godoc
// @Summary List generated insights
// @Description Get the user's previously generated insights, newest first
// @Tags insights
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Security Bearer
// @Success 200 {array} dto.InsightResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/insights [get]
func (h *InsightHandler) ListInsights(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 20)

	insights, err := h.insightService.List(c.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list insights", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list insights",
		})
	}

	return c.JSON(insights)
}
