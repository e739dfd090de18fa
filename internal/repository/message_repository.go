package repository

import (
	"context"
	"time"

	"finbox/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// MessageFilter narrows message listings and exports. Zero values mean
// "no constraint"; Limit 0 means no limit.
type MessageFilter struct {
	Category      models.MessageCategory
	Status        models.FinancialStatus
	FinancialOnly bool
	Search        string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

func (f MessageFilter) apply(query squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f.Category != "" {
		query = query.Where(squirrel.Eq{"category": f.Category})
	}
	if f.Status != "" {
		query = query.Where(squirrel.Eq{"financial_status": f.Status})
	}
	if f.FinancialOnly {
		query = query.Where(squirrel.Eq{"financial_status": models.FinancialStatusExtracted})
	}
	if f.Search != "" {
		query = query.Where(squirrel.Or{
			squirrel.ILike{"subject": "%" + f.Search + "%"},
			squirrel.ILike{"body": "%" + f.Search + "%"},
		})
	}
	if f.From != nil {
		query = query.Where(squirrel.GtOrEq{"received_at": *f.From})
	}
	if f.To != nil {
		query = query.Where(squirrel.LtOrEq{"received_at": *f.To})
	}
	return query
}

type MessageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMessageRepository(db *pgxpool.Pool, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := squirrel.Insert("messages").
		Columns("id", "user_id", "sender", "recipients", "subject", "body",
			"attachment_name", "attachment_text", "summary", "category", "keywords",
			"financial_status", "received_at", "processed_at", "created_at", "updated_at").
		Values(msg.ID, msg.UserID, msg.Sender, msg.Recipients, msg.Subject, msg.Body,
			msg.AttachmentName, msg.AttachmentText, msg.Summary, msg.Category, msg.Keywords,
			msg.FinancialStatus, msg.ReceivedAt, msg.ProcessedAt, msg.CreatedAt, msg.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *MessageRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Message, error) {
	query := squirrel.Select("id", "user_id", "sender", "recipients", "subject", "body",
		"attachment_name", "attachment_text", "summary", "category", "keywords",
		"financial_status", "received_at", "processed_at", "created_at", "updated_at").
		From("messages").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var msg models.Message
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&msg.ID, &msg.UserID, &msg.Sender, &msg.Recipients, &msg.Subject, &msg.Body,
		&msg.AttachmentName, &msg.AttachmentText, &msg.Summary, &msg.Category, &msg.Keywords,
		&msg.FinancialStatus, &msg.ReceivedAt, &msg.ProcessedAt, &msg.CreatedAt, &msg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

func (r *MessageRepository) List(ctx context.Context, userID uuid.UUID, filter MessageFilter) ([]*models.Message, error) {
	query := squirrel.Select("id", "user_id", "sender", "recipients", "subject", "body",
		"attachment_name", "attachment_text", "summary", "category", "keywords",
		"financial_status", "received_at", "processed_at", "created_at", "updated_at").
		From("messages").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("received_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	query = filter.apply(query)
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID, &msg.UserID, &msg.Sender, &msg.Recipients, &msg.Subject, &msg.Body,
			&msg.AttachmentName, &msg.AttachmentText, &msg.Summary, &msg.Category, &msg.Keywords,
			&msg.FinancialStatus, &msg.ReceivedAt, &msg.ProcessedAt, &msg.CreatedAt, &msg.UpdatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

func (r *MessageRepository) Count(ctx context.Context, userID uuid.UUID, filter MessageFilter) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From("messages").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	query = filter.apply(query)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateAnalysis persists the processing outcome for a message.
func (r *MessageRepository) UpdateAnalysis(ctx context.Context, msg *models.Message) error {
	query := squirrel.Update("messages").
		Set("summary", msg.Summary).
		Set("category", msg.Category).
		Set("keywords", msg.Keywords).
		Set("financial_status", msg.FinancialStatus).
		Set("processed_at", msg.ProcessedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": msg.ID, "user_id": msg.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *MessageRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := squirrel.Delete("messages").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
