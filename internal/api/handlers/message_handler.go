package handlers

import (
	"io"
	"time"

	"finbox/internal/dto"
	"finbox/internal/models"
	"finbox/internal/repository"
	"finbox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messageService *service.MessageService
	logger         *zap.Logger
}

func NewMessageHandler(messageService *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// IngestMessage godoc
// @Summary Ingest a message
// @Description Store an inbound message, optionally with a document attachment (PDF, HTML or text)
// @Tags messages
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param sender formData string true "Sender address"
// @Param subject formData string false "Subject line"
// @Param body formData string false "Message body"
// @Param received_at formData string false "Received timestamp (RFC3339)"
// @Param attachment formData file false "Attached document"
// @Security Bearer
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/messages [post]
func (h *MessageHandler) IngestMessage(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.IngestMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Sender == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Sender is required",
		})
	}

	var attachment io.Reader
	var attachmentName string
	if file, err := c.FormFile("attachment"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to open attachment",
			})
		}
		defer src.Close()
		attachment = src
		attachmentName = file.Filename
	}

	resp, err := h.messageService.Ingest(c.Context(), userID, &req, attachment, attachmentName)
	if err != nil {
		h.logger.Error("Failed to ingest message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to ingest message",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ProcessMessage godoc
// @Summary Process a message
// @Description Run analysis on a stored message: summary, category, keywords and financial extraction
// @Tags messages
// @Produce json
// @Param id path string true "Message ID"
// @Security Bearer
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/messages/{id}/process [post]
func (h *MessageHandler) ProcessMessage(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	resp, err := h.messageService.Process(c.Context(), userID, messageID)
	if err != nil {
		if err == service.ErrMessageNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Message not found",
			})
		}
		h.logger.Error("Failed to process message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	return c.JSON(resp)
}

// ListMessages godoc
// @Summary List user's messages
// @Description Get a filtered list of the user's messages
// @Tags messages
// @Produce json
// @Param category query string false "Category filter"
// @Param status query string false "Financial status filter"
// @Param financial query bool false "Only messages with extracted financial data"
// @Param search query string false "Substring search over subject and body"
// @Param from query string false "Received after (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Received before (RFC3339 or YYYY-MM-DD)"
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {object} dto.MessageListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/messages [get]
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	filter, err := parseMessageFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp, err := h.messageService.List(c.Context(), userID, filter)
	if err != nil {
		h.logger.Error("Failed to list messages", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list messages",
		})
	}

	return c.JSON(resp)
}

// GetMessage godoc
// @Summary Get a message
// @Description Get a single message with its analysis and any extracted financial document
// @Tags messages
// @Produce json
// @Param id path string true "Message ID"
// @Security Bearer
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/messages/{id} [get]
func (h *MessageHandler) GetMessage(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	resp, err := h.messageService.Get(c.Context(), userID, messageID)
	if err != nil {
		if err == service.ErrMessageNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Message not found",
			})
		}
		h.logger.Error("Failed to get message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get message",
		})
	}

	return c.JSON(resp)
}

// DeleteMessage godoc
// @Summary Delete a message
// @Description Delete a message and its extracted financial data
// @Tags messages
// @Param id path string true "Message ID"
// @Security Bearer
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	if err := h.messageService.Delete(c.Context(), userID, messageID); err != nil {
		if err == service.ErrMessageNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Message not found",
			})
		}
		h.logger.Error("Failed to delete message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete message",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

func parseMessageFilter(c *fiber.Ctx) (repository.MessageFilter, error) {
	filter := repository.MessageFilter{
		Search:        c.Query("search"),
		FinancialOnly: c.QueryBool("financial", false),
		Limit:         c.QueryInt("limit", 50),
		Offset:        c.QueryInt("offset", 0),
	}

	if category := c.Query("category"); category != "" {
		parsed, ok := models.ParseCategory(category)
		if !ok {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid category")
		}
		filter.Category = parsed
	}

	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseFinancialStatus(status)
		if !ok {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid status")
		}
		filter.Status = parsed
	}

	if from := c.Query("from"); from != "" {
		t, err := parseQueryTime(from)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid from date")
		}
		filter.From = &t
	}

	if to := c.Query("to"); to != "" {
		t, err := parseQueryTime(to)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid to date")
		}
		filter.To = &t
	}

	return filter, nil
}

func parseQueryTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
