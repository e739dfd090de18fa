package repository

import (
	"context"
	"time"

	"finbox/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// LineItemExport is one exported line item joined with its message context.
type LineItemExport struct {
	MessageID  uuid.UUID
	Subject    string
	Sender     string
	ReceivedAt time.Time
	Category   models.MessageCategory
	Flavor     string
	Currency   string
	GrandTotal float64
	Position   int
	Label      string
	UnitAmount float64
	Quantity   int
	LineTotal  float64
}

type FinancialRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFinancialRepository(db *pgxpool.Pool, logger *zap.Logger) *FinancialRepository {
	return &FinancialRepository{
		db:     db,
		logger: logger,
	}
}

// Replace removes any financial document previously extracted for the message
// and stores the new one, all in a single transaction. A nil doc just clears
// the previous result.
func (r *FinancialRepository) Replace(ctx context.Context, messageID uuid.UUID, doc *models.FinancialDocument) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	deleteItems := squirrel.Delete("financial_line_items").
		Where(squirrel.Expr(
			"document_id IN (SELECT id FROM financial_documents WHERE message_id = ?)", messageID)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := deleteItems.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return err
	}

	deleteDoc := squirrel.Delete("financial_documents").
		Where(squirrel.Eq{"message_id": messageID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err = deleteDoc.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return err
	}

	if doc != nil {
		insertDoc := squirrel.Insert("financial_documents").
			Columns("id", "message_id", "flavor", "grand_total", "currency", "created_at").
			Values(doc.ID, doc.MessageID, doc.Flavor, doc.GrandTotal, doc.Currency, doc.CreatedAt).
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err = insertDoc.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		if len(doc.Items) > 0 {
			insertItems := squirrel.Insert("financial_line_items").
				Columns("id", "document_id", "position", "label", "unit_amount", "quantity", "line_total").
				PlaceholderFormat(squirrel.Dollar)

			for _, item := range doc.Items {
				insertItems = insertItems.Values(item.ID, item.DocumentID, item.Position,
					item.Label, item.UnitAmount, item.Quantity, item.LineTotal)
			}

			sql, args, err = insertItems.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *FinancialRepository) GetByMessageID(ctx context.Context, messageID uuid.UUID) (*models.FinancialDocument, error) {
	query := squirrel.Select("id", "message_id", "flavor", "grand_total", "currency", "created_at").
		From("financial_documents").
		Where(squirrel.Eq{"message_id": messageID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.FinancialDocument
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.MessageID, &doc.Flavor, &doc.GrandTotal, &doc.Currency, &doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	itemsQuery := squirrel.Select("id", "document_id", "position", "label", "unit_amount", "quantity", "line_total").
		From("financial_line_items").
		Where(squirrel.Eq{"document_id": doc.ID}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err = itemsQuery.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.FinancialLineItem
		if err := rows.Scan(
			&item.ID, &item.DocumentID, &item.Position, &item.Label,
			&item.UnitAmount, &item.Quantity, &item.LineTotal,
		); err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, item)
	}

	return &doc, rows.Err()
}

// ListItemsByUser returns line items joined with their message context,
// honoring the message filter. Used by exports and insights.
func (r *FinancialRepository) ListItemsByUser(ctx context.Context, userID uuid.UUID, filter MessageFilter) ([]*LineItemExport, error) {
	query := squirrel.Select("m.id", "m.subject", "m.sender", "m.received_at", "m.category",
		"fd.flavor", "fd.currency", "fd.grand_total",
		"fli.position", "fli.label", "fli.unit_amount", "fli.quantity", "fli.line_total").
		From("financial_line_items fli").
		Join("financial_documents fd ON fd.id = fli.document_id").
		Join("messages m ON m.id = fd.message_id").
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("m.received_at DESC", "fli.position ASC").
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

	var items []*LineItemExport
	for rows.Next() {
		var row LineItemExport
		if err := rows.Scan(
			&row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Category,
			&row.Flavor, &row.Currency, &row.GrandTotal,
			&row.Position, &row.Label, &row.UnitAmount, &row.Quantity, &row.LineTotal,
		); err != nil {
			return nil, err
		}
		items = append(items, &row)
	}

	return items, rows.Err()
}
