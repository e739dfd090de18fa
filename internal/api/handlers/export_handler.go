package handlers

import (
	"fmt"
	"time"

	"finbox/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// ExportCSV godoc
// @Summary Export line items as CSV
// @Description Download the user's extracted financial line items as a CSV file
// @Tags export
// @Produce text/csv
// @Param category query string false "Category filter"
// @Param from query string false "Received after (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Received before (RFC3339 or YYYY-MM-DD)"
// @Security Bearer
// @Success 200 {file} file
// @Failure 401 {object} map[string]string
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *fiber.Ctx) error {
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
	filter.Limit = 0
	filter.Offset = 0

	data, err := h.exportService.ExportCSV(c.Context(), userID, filter)
	if err != nil {
		h.logger.Error("Failed to export CSV", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export CSV",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, exportFileName("csv"))
	return c.Send(data)
}

// ExportXLSX godoc
// @Summary Export line items as XLSX
// @Description Download the user's extracted financial line items as an Excel workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param category query string false "Category filter"
// @Param from query string false "Received after (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Received before (RFC3339 or YYYY-MM-DD)"
// @Security Bearer
// @Success 200 {file} file
// @Failure 401 {object} map[string]string
// @Router /api/v1/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *fiber.Ctx) error {
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
	filter.Limit = 0
	filter.Offset = 0

	data, err := h.exportService.ExportXLSX(c.Context(), userID, filter)
	if err != nil {
		h.logger.Error("Failed to export XLSX", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export XLSX",
		})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, exportFileName("xlsx"))
	return c.Send(data)
}

func exportFileName(ext string) string {
	name := fmt.Sprintf("finbox_items_%s.%s", time.Now().Format("2006-01-02"), ext)
	return fmt.Sprintf("attachment; filename=%q", name)
}
