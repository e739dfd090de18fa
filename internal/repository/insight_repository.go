package repository

import (
	"context"

	"finbox/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type InsightRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInsightRepository(db *pgxpool.Pool, logger *zap.Logger) *InsightRepository {
	return &InsightRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InsightRepository) Create(ctx context.Context, insight *models.Insight) error {
	query := squirrel.Insert("insights").
		Columns("id", "user_id", "content", "document_count", "created_at").
		Values(insight.ID, insight.UserID, insight.Content, insight.DocumentCount, insight.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *InsightRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Insight, error) {
	query := squirrel.Select("id", "user_id", "content", "document_count", "created_at").
		From("insights").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []*models.Insight
	for rows.Next() {
		var insight models.Insight
		if err := rows.Scan(
			&insight.ID, &insight.UserID, &insight.Content, &insight.DocumentCount, &insight.CreatedAt,
		); err != nil {
			return nil, err
		}
		insights = append(insights, &insight)
	}

	return insights, rows.Err()
}
