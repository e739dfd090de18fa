package repository

import (
	"context"

	"finbox/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type GuidelineRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewGuidelineRepository(db *pgxpool.Pool, logger *zap.Logger) *GuidelineRepository {
	return &GuidelineRepository{
		db:     db,
		logger: logger,
	}
}

func (r *GuidelineRepository) Create(ctx context.Context, g *models.CategoryGuideline) error {
	query := squirrel.Insert("category_guidelines").
		Columns("id", "category", "description", "sample_phrases", "created_at", "updated_at").
		Values(g.ID, g.Category, g.Description, g.SamplePhrases, g.CreatedAt, g.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *GuidelineRepository) List(ctx context.Context) ([]*models.CategoryGuideline, error) {
	query := squirrel.Select("id", "category", "description", "sample_phrases", "created_at", "updated_at").
		From("category_guidelines").
		OrderBy("category ASC").
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

	var guidelines []*models.CategoryGuideline
	for rows.Next() {
		var g models.CategoryGuideline
		if err := rows.Scan(
			&g.ID, &g.Category, &g.Description, &g.SamplePhrases, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		guidelines = append(guidelines, &g)
	}

	return guidelines, rows.Err()
}

// SearchRelevant finds guidelines whose description or sample phrases match
// the query text. Plain ILIKE matching keeps the analyzer prompt focused
// without a search engine.
func (r *GuidelineRepository) SearchRelevant(ctx context.Context, queryText string, limit int) ([]*models.CategoryGuideline, error) {
	query := squirrel.Select("id", "category", "description", "sample_phrases", "created_at", "updated_at").
		From("category_guidelines").
		Where(squirrel.Or{
			squirrel.ILike{"description": "%" + queryText + "%"},
			squirrel.ILike{"sample_phrases": "%" + queryText + "%"},
		}).
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

	var guidelines []*models.CategoryGuideline
	for rows.Next() {
		var g models.CategoryGuideline
		if err := rows.Scan(
			&g.ID, &g.Category, &g.Description, &g.SamplePhrases, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		guidelines = append(guidelines, &g)
	}

	return guidelines, rows.Err()
}
