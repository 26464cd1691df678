// internal/handlers/router.go
package handlers

import "net/http"

const apiV1 = "/api/v1"

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Health    *HealthHandler
	Sales     *SaleHandler
	Stock     *StockHandler
	Catalog   *CatalogHandler
	Imports   *ImportHandler
	Exports   *ExportHandler
	Dashboard *DashboardHandler
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// NewRouter registers all routes on a new ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	if h.Health != nil {
		mux.HandleFunc("GET /health", h.Health.Health)
		mux.HandleFunc("GET /ready", h.Health.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", h.Health.Health)
	}

	// Sales
	mux.HandleFunc("POST "+apiV1+"/sales", h.Sales.Checkout)
	mux.HandleFunc("GET "+apiV1+"/invoices", h.Sales.ListInvoices)
	mux.HandleFunc("GET "+apiV1+"/invoices/{id}", h.Sales.GetInvoice)
	mux.HandleFunc("GET "+apiV1+"/invoices/{id}/receipt", h.Sales.GetReceipt)

	// Stock
	mux.HandleFunc("GET "+apiV1+"/stock", h.Stock.ListAll)
	mux.HandleFunc("GET "+apiV1+"/stores/{id}/stock", h.Stock.ListByStore)
	mux.HandleFunc("GET "+apiV1+"/stores/{id}/stock/{productId}", h.Stock.GetQuantity)
	mux.HandleFunc("POST "+apiV1+"/stores/{id}/stock", h.Stock.Restock)

	// Catalog
	mux.HandleFunc("GET "+apiV1+"/products", h.Catalog.ListProducts)
	mux.HandleFunc("POST "+apiV1+"/products", h.Catalog.CreateProduct)
	mux.HandleFunc("GET "+apiV1+"/products/{id}", h.Catalog.GetProduct)
	mux.HandleFunc("GET "+apiV1+"/stores", h.Catalog.ListStores)
	mux.HandleFunc("POST "+apiV1+"/stores", h.Catalog.CreateStore)
	mux.HandleFunc("GET "+apiV1+"/stores/{id}", h.Catalog.GetStore)
	mux.HandleFunc("PUT "+apiV1+"/stores/{id}", h.Catalog.UpdateStore)
	mux.HandleFunc("GET "+apiV1+"/employees", h.Catalog.ListEmployees)
	mux.HandleFunc("POST "+apiV1+"/employees", h.Catalog.CreateEmployee)
	mux.HandleFunc("GET "+apiV1+"/employees/{id}", h.Catalog.GetEmployee)

	// Imports
	mux.HandleFunc("POST "+apiV1+"/stores/{id}/stock/imports", h.Imports.Upload)
	mux.HandleFunc("GET "+apiV1+"/imports/{id}", h.Imports.Status)

	// Exports and reporting
	mux.HandleFunc("GET "+apiV1+"/export/stock", h.Exports.ExportStock)
	mux.HandleFunc("GET "+apiV1+"/export/sales", h.Exports.ExportSales)
	mux.HandleFunc("GET "+apiV1+"/dashboard", h.Dashboard.GetDashboard)

	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	return mux
}
