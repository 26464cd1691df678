// internal/handlers/stock.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

// StockHandler handles stock-related HTTP requests
type StockHandler struct {
	service ports.StockService
	logger  *slog.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(service ports.StockService, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "stock")),
	}
}

// RestockRequest is the body of POST /api/v1/stores/{id}/stock.
type RestockRequest struct {
	Items []domain.StockAdjustment `json:"items"`
}

// ListAll handles GET /api/v1/stock
func (h *StockHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list stock")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"stock": nonNil(entries),
		"count": len(entries),
	})
}

// ListByStore handles GET /api/v1/stores/{id}/stock
func (h *StockHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.service.ListByStore(r.Context(), storeID)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list store stock")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"store_id": storeID,
		"stock":    nonNil(entries),
		"count":    len(entries),
	})
}

// GetQuantity handles GET /api/v1/stores/{id}/stock/{productId}
func (h *StockHandler) GetQuantity(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	productID, err := pathID(r, "productId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	qty, err := h.service.CurrentQuantity(r.Context(), storeID, productID)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get quantity")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"store_id":   storeID,
		"product_id": productID,
		"quantity":   qty,
	})
}

// Restock handles POST /api/v1/stores/{id}/stock
func (h *StockHandler) Restock(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	var req RestockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Restock(r.Context(), storeID, req.Items); err != nil {
		respondServiceError(w, r, h.logger, err, "restock")
		return
	}

	h.logger.InfoContext(r.Context(), "store restocked",
		slog.Int64("store_id", storeID),
		slog.Int("lines", len(req.Items)))

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"store_id": storeID,
		"applied":  len(req.Items),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
