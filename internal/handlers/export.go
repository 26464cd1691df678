// internal/handlers/export.go
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
	"github.com/ninco/ninco-be/internal/core/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	stockExportHeaders = []string{"Store ID", "Store", "Product ID", "Product", "Quantity"}
	salesExportHeaders = []string{"Day", "Store ID", "Invoices", "Units", "Revenue"}
)

// ExportHandler streams spreadsheet exports
type ExportHandler struct {
	stock   ports.StockService
	reports ports.ReportRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewExportHandler creates a new export handler
func NewExportHandler(stock ports.StockService, reports ports.ReportRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		stock:   stock,
		reports: reports,
		logger:  logger.With(slog.String("handler", "export")),
		now:     time.Now,
	}
}

// ExportStock handles GET /api/v1/export/stock?store_id=
func (h *ExportHandler) ExportStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := queryInt64(r, "store_id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	var entries []domain.StockEntry
	if storeID != nil {
		entries, err = h.stock.ListByStore(ctx, *storeID)
	} else {
		entries, err = h.stock.ListAll(ctx)
	}
	if err != nil {
		respondServiceError(w, r, h.logger, err, "export stock")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.StoreID, 10),
			e.StoreName,
			strconv.FormatInt(e.ProductID, 10),
			e.ProductName,
			strconv.Itoa(e.Quantity),
		})
	}

	data, err := buildWorkbook("Stock", stockExportHeaders, rows)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate stock export", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to generate export")
		return
	}

	h.writeFile(w, r, "stock", data, len(rows))
}

// ExportSales handles GET /api/v1/export/sales?from=&to=&store_id=
func (h *ExportHandler) ExportSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, to := services.DashboardWindow(h.now())
	fromQ, err := queryTime(r, "from")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	toQ, err := queryTime(r, "to")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	storeID, err := queryInt64(r, "store_id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if fromQ != nil {
		from = *fromQ
	}
	if toQ != nil {
		to = *toQ
	}
	if !from.Before(to) {
		respondError(w, h.logger, http.StatusBadRequest, "from must be before to")
		return
	}

	days, err := h.reports.DailySales(ctx, from, to, storeID)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "export sales")
		return
	}

	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Day.Format(dateLayout),
			strconv.FormatInt(d.StoreID, 10),
			strconv.FormatInt(d.Invoices, 10),
			strconv.FormatInt(d.Units, 10),
			d.Revenue.StringFixed(2),
		})
	}

	data, err := buildWorkbook("Sales", salesExportHeaders, rows)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate sales export", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to generate export")
		return
	}

	h.writeFile(w, r, "sales", data, len(rows))
}

func (h *ExportHandler) writeFile(w http.ResponseWriter, r *http.Request, name string, data []byte, rows int) {
	filename := fmt.Sprintf("%s_export_%s.xlsx", name, h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write export", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "export completed",
		slog.String("filename", filename),
		slog.Int("rows", rows))
}

func buildWorkbook(sheetName string, headers []string, rows [][]string) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().Value = v
		}
	}

	for i := range headers {
		sheet.SetColWidth(i+1, i+1, 18)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer.Bytes(), nil
}
