// internal/handlers/catalog.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

// CatalogHandler serves products, stores and employees
type CatalogHandler struct {
	service ports.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service ports.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "catalog")),
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list products")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, nonNil(products))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get product")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := decodeJSON(r, &product); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	product.ID = 0

	if err := h.service.CreateProduct(r.Context(), &product); err != nil {
		respondServiceError(w, r, h.logger, err, "create product")
		return
	}

	h.logger.InfoContext(r.Context(), "product created", slog.Int64("product_id", product.ID))
	respondJSON(w, h.logger, http.StatusCreated, product)
}

// ListStores handles GET /api/v1/stores
func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListStores(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list stores")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, nonNil(stores))
}

// GetStore handles GET /api/v1/stores/{id}
func (h *CatalogHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	store, err := h.service.GetStore(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get store")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, store)
}

// CreateStore handles POST /api/v1/stores
func (h *CatalogHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var store domain.Store
	if err := decodeJSON(r, &store); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	store.ID = 0

	if err := h.service.CreateStore(r.Context(), &store); err != nil {
		respondServiceError(w, r, h.logger, err, "create store")
		return
	}

	h.logger.InfoContext(r.Context(), "store created", slog.Int64("store_id", store.ID))
	respondJSON(w, h.logger, http.StatusCreated, store)
}

// UpdateStore handles PUT /api/v1/stores/{id}
func (h *CatalogHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	var store domain.Store
	if err := decodeJSON(r, &store); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	store.ID = id

	if err := h.service.UpdateStore(r.Context(), &store); err != nil {
		respondServiceError(w, r, h.logger, err, "update store")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, store)
}

// GetEmployee handles GET /api/v1/employees/{id}
func (h *CatalogHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	employee, err := h.service.GetEmployee(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get employee")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, employee)
}

// ListEmployees handles GET /api/v1/employees
func (h *CatalogHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	storeID, err := queryInt64(r, "store_id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	employees, err := h.service.ListEmployees(r.Context(), storeID)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list employees")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"employees": nonNil(employees),
		"count":     len(employees),
	})
}

// CreateEmployee handles POST /api/v1/employees
func (h *CatalogHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var employee domain.Employee
	if err := decodeJSON(r, &employee); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	employee.ID = 0

	if err := h.service.CreateEmployee(r.Context(), &employee); err != nil {
		respondServiceError(w, r, h.logger, err, "create employee")
		return
	}

	h.logger.InfoContext(r.Context(), "employee created", slog.Int64("employee_id", employee.ID))
	respondJSON(w, h.logger, http.StatusCreated, employee)
}
