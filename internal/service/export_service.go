package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"finbox/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var exportHeaders = []string{
	"Received", "Subject", "Sender", "Category",
	"Flavor", "Currency", "Item", "Unit Amount", "Quantity", "Line Total", "Document Total",
}

// ExportService renders extracted line items as CSV or XLSX, one row per
// line item with its message context.
type ExportService struct {
	finRepo *repository.FinancialRepository
	logger  *zap.Logger
}

func NewExportService(finRepo *repository.FinancialRepository, logger *zap.Logger) *ExportService {
	return &ExportService{
		finRepo: finRepo,
		logger:  logger,
	}
}

func (s *ExportService) ExportCSV(ctx context.Context, userID uuid.UUID, filter repository.MessageFilter) ([]byte, error) {
	rows, err := s.finRepo.ListItemsByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}

	data, err := writeCSV(rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("CSV export completed",
		zap.String("user_id", userID.String()),
		zap.Int("rows", len(rows)),
	)

	return data, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, userID uuid.UUID, filter repository.MessageFilter) ([]byte, error) {
	rows, err := s.finRepo.ListItemsByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}

	data, err := writeXLSX(rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("XLSX export completed",
		zap.String("user_id", userID.String()),
		zap.Int("rows", len(rows)),
	)

	return data, nil
}

func writeCSV(rows []*repository.LineItemExport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.ReceivedAt.Format("2006-01-02"),
			row.Subject,
			row.Sender,
			string(row.Category),
			row.Flavor,
			row.Currency,
			row.Label,
			strconv.FormatFloat(row.UnitAmount, 'f', 2, 64),
			strconv.Itoa(row.Quantity),
			strconv.FormatFloat(row.LineTotal, 'f', 2, 64),
			strconv.FormatFloat(row.GrandTotal, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv write: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}

	return buf.Bytes(), nil
}

func writeXLSX(rows []*repository.LineItemExport) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Line Items"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowNum := 2
	for _, row := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, row.ReceivedAt.Format("2006-01-02"))
		write(2, row.Subject)
		write(3, row.Sender)
		write(4, string(row.Category))
		write(5, row.Flavor)
		write(6, row.Currency)
		write(7, row.Label)
		write(8, row.UnitAmount)
		write(9, row.Quantity)
		write(10, row.LineTotal)
		write(11, row.GrandTotal)

		rowNum++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 36)
	_ = f.SetColWidth(sheet, "C", "C", 24)
	_ = f.SetColWidth(sheet, "D", "F", 12)
	_ = f.SetColWidth(sheet, "G", "G", 30)
	_ = f.SetColWidth(sheet, "H", "K", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	return buf.Bytes(), nil
}
