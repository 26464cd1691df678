// internal/handlers/sale.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

const idempotencyHeader = "Idempotency-Key"

// SaleHandler handles checkout and invoice requests
type SaleHandler struct {
	service ports.SaleService
	logger  *slog.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(service ports.SaleService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "sale")),
	}
}

// Checkout handles POST /api/v1/sales
func (h *SaleHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Kind:  string(domain.KindValidation),
		})
		return
	}

	sale, err := h.service.Checkout(r.Context(), req, r.Header.Get(idempotencyHeader))
	if err != nil {
		respondServiceError(w, r, h.logger, err, "checkout")
		return
	}

	h.logger.InfoContext(r.Context(), "sale completed",
		slog.Int64("invoice_id", sale.InvoiceID),
		slog.Int64("store_id", sale.StoreID),
		slog.String("total", sale.Total.StringFixed(2)))

	w.Header().Set("Location", "/api/v1/invoices/"+strconv.FormatInt(sale.InvoiceID, 10))
	respondJSON(w, h.logger, http.StatusCreated, sale)
}

// ListInvoices handles GET /api/v1/invoices
func (h *SaleHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	filter, err := parseInvoiceFilter(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.service.ListInvoices(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list invoices")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, list)
}

// GetInvoice handles GET /api/v1/invoices/{id}
func (h *SaleHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get invoice")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, struct {
		*domain.Invoice
		Total string `json:"total"`
	}{invoice, invoice.Total().StringFixed(2)})
}

// GetReceipt handles GET /api/v1/invoices/{id}/receipt
func (h *SaleHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := h.service.RenderReceipt(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "render receipt")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(receipt)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(receipt); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write receipt", slog.String("error", err.Error()))
	}
}

func parseInvoiceFilter(r *http.Request) (domain.InvoiceFilter, error) {
	var (
		filter domain.InvoiceFilter
		err    error
	)
	if filter.StoreID, err = queryInt64(r, "store_id"); err != nil {
		return filter, err
	}
	if filter.From, err = queryTime(r, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		return filter, err
	}
	if filter.Page, err = queryInt(r, "page"); err != nil {
		return filter, err
	}
	if filter.PageSize, err = queryInt(r, "page_size"); err != nil {
		return filter, err
	}
	return filter, nil
}
