package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"finbox/internal/dto"
	"finbox/internal/finance"
	"finbox/internal/models"
	"finbox/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageService struct {
	msgRepo          *repository.MessageRepository
	finRepo          *repository.FinancialRepository
	guidelineService *GuidelineService
	llmService       *LLMService
	extractService   *ExtractService
	engine           *finance.Engine
	logger           *zap.Logger
}

func NewMessageService(
	msgRepo *repository.MessageRepository,
	finRepo *repository.FinancialRepository,
	guidelineService *GuidelineService,
	llmService *LLMService,
	extractService *ExtractService,
	engine *finance.Engine,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		msgRepo:          msgRepo,
		finRepo:          finRepo,
		guidelineService: guidelineService,
		llmService:       llmService,
		extractService:   extractService,
		engine:           engine,
		logger:           logger,
	}
}

// Ingest stores a new message. An optional attachment is reduced to plain
// text up front; an attachment without a recoverable text layer is stored
// with empty text and surfaces as unreadable at processing time.
func (s *MessageService) Ingest(ctx context.Context, userID uuid.UUID, req *dto.IngestMessageRequest, attachment io.Reader, attachmentName string) (*dto.MessageResponse, error) {
	body := s.extractService.BodyText(req.Body)

	var attachmentText string
	if attachment != nil && attachmentName != "" {
		text, err := s.extractService.ExtractAttachment(attachment, attachmentName)
		switch {
		case errors.Is(err, ErrNoTextContent):
			s.logger.Warn("Attachment yielded no text",
				zap.String("file", attachmentName), zap.Error(err))
		case err != nil:
			return nil, fmt.Errorf("failed to extract attachment: %w", err)
		default:
			attachmentText = text
		}
	} else {
		attachmentName = ""
	}

	receivedAt := time.Now()
	if req.ReceivedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, req.ReceivedAt); err == nil {
			receivedAt = parsed
		}
	}

	now := time.Now()
	msg := &models.Message{
		ID:              uuid.New(),
		UserID:          userID,
		Sender:          sanitizeUTF8(req.Sender),
		Recipients:      sanitizeUTF8(req.Recipients),
		Subject:         sanitizeUTF8(req.Subject),
		Body:            body,
		AttachmentName:  attachmentName,
		AttachmentText:  attachmentText,
		FinancialStatus: models.FinancialStatusPending,
		ReceivedAt:      receivedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.logger.Info("Message ingested",
		zap.String("message_id", msg.ID.String()),
		zap.Bool("has_attachment", msg.HasAttachment()),
	)

	return s.toResponse(msg, nil), nil
}

// Process runs analysis and financial extraction for a message. Re-running
// recomputes everything and replaces the previous financial document
// wholesale. A financial-extraction failure never blocks persisting the
// summary, category and keywords.
func (s *MessageService) Process(ctx context.Context, userID, messageID uuid.UUID) (*dto.MessageResponse, error) {
	msg, err := s.msgRepo.GetByID(ctx, messageID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	guidelines := s.guidelineService.ForMessage(ctx, msg.Subject, msg.Body)

	analysis, err := s.llmService.AnalyzeMessage(ctx, msg.Subject, msg.Body, guidelines)
	if err != nil {
		s.logger.Warn("Message analysis failed, keeping defaults",
			zap.String("message_id", msg.ID.String()), zap.Error(err))
		analysis = &MessageAnalysis{Category: string(models.CategoryGeneral)}
	}

	// Attached text takes precedence over the body for financial extraction;
	// an attachment that yielded no text surfaces as unreadable.
	text := msg.Body
	attached := false
	if msg.HasAttachment() {
		text = msg.AttachmentText
		attached = true
	}

	result := s.engine.ExtractDocument(ctx, text, attached)
	status := financialStatusFor(result)

	var financialDoc *models.FinancialDocument
	if result.Status == finance.StatusExtracted {
		financialDoc = buildFinancialDocument(msg.ID, result.Document)
	}

	if err := s.finRepo.Replace(ctx, msg.ID, financialDoc); err != nil {
		s.logger.Error("Failed to store financial document",
			zap.String("message_id", msg.ID.String()), zap.Error(err))
		status = models.FinancialStatusFailed
		financialDoc = nil
	}

	processedAt := time.Now()
	msg.Summary = sanitizeUTF8(analysis.Summary)
	msg.Category = models.MessageCategory(analysis.Category)
	msg.Keywords = analysis.Keywords
	msg.FinancialStatus = status
	msg.ProcessedAt = &processedAt

	if err := s.msgRepo.UpdateAnalysis(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}

	s.logger.Info("Message processed",
		zap.String("message_id", msg.ID.String()),
		zap.String("category", string(msg.Category)),
		zap.String("financial_status", string(status)),
	)

	return s.toResponse(msg, financialDoc), nil
}

func (s *MessageService) Get(ctx context.Context, userID, messageID uuid.UUID) (*dto.MessageResponse, error) {
	msg, err := s.msgRepo.GetByID(ctx, messageID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	var financialDoc *models.FinancialDocument
	if msg.FinancialStatus == models.FinancialStatusExtracted {
		financialDoc, err = s.finRepo.GetByMessageID(ctx, msg.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	return s.toResponse(msg, financialDoc), nil
}

func (s *MessageService) List(ctx context.Context, userID uuid.UUID, filter repository.MessageFilter) (*dto.MessageListResponse, error) {
	messages, err := s.msgRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.msgRepo.Count(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		responses[i] = *s.toResponse(msg, nil)
	}

	return &dto.MessageListResponse{
		Messages: responses,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}

func (s *MessageService) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	err := s.msgRepo.Delete(ctx, messageID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrMessageNotFound
	}
	return err
}

func financialStatusFor(result finance.Result) models.FinancialStatus {
	switch result.Status {
	case finance.StatusExtracted:
		return models.FinancialStatusExtracted
	case finance.StatusUnreadable:
		return models.FinancialStatusUnreadable
	case finance.StatusFailed:
		return models.FinancialStatusFailed
	default:
		return models.FinancialStatusNone
	}
}

func buildFinancialDocument(messageID uuid.UUID, doc *finance.Document) *models.FinancialDocument {
	record := &models.FinancialDocument{
		ID:         uuid.New(),
		MessageID:  messageID,
		Flavor:     string(doc.Flavor),
		GrandTotal: doc.GrandTotal,
		Currency:   doc.Currency,
		CreatedAt:  time.Now(),
	}

	for i, item := range doc.Items {
		record.Items = append(record.Items, models.FinancialLineItem{
			ID:         uuid.New(),
			DocumentID: record.ID,
			Position:   i,
			Label:      sanitizeUTF8(item.Label),
			UnitAmount: item.UnitAmount,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal,
		})
	}

	return record
}

func (s *MessageService) toResponse(msg *models.Message, financialDoc *models.FinancialDocument) *dto.MessageResponse {
	resp := &dto.MessageResponse{
		ID:              msg.ID.String(),
		Sender:          msg.Sender,
		Recipients:      msg.Recipients,
		Subject:         msg.Subject,
		Body:            msg.Body,
		AttachmentName:  msg.AttachmentName,
		Summary:         msg.Summary,
		Category:        string(msg.Category),
		Keywords:        msg.Keywords,
		FinancialStatus: string(msg.FinancialStatus),
		ReceivedAt:      msg.ReceivedAt.Format(time.RFC3339),
		CreatedAt:       msg.CreatedAt.Format(time.RFC3339),
	}
	if msg.ProcessedAt != nil {
		resp.ProcessedAt = msg.ProcessedAt.Format(time.RFC3339)
	}
	if financialDoc != nil {
		resp.Financial = toFinancialResponse(financialDoc)
	}
	return resp
}

func toFinancialResponse(doc *models.FinancialDocument) *dto.FinancialDocumentResponse {
	resp := &dto.FinancialDocumentResponse{
		ID:         doc.ID.String(),
		Flavor:     doc.Flavor,
		GrandTotal: doc.GrandTotal,
		Currency:   doc.Currency,
		CreatedAt:  doc.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range doc.Items {
		resp.Items = append(resp.Items, dto.FinancialItemResponse{
			Label:      item.Label,
			UnitAmount: item.UnitAmount,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal,
		})
	}
	return resp
}
