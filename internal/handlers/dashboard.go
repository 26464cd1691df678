// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ninco/ninco-be/internal/core/ports"
	"github.com/ninco/ninco-be/internal/core/services"
)

// DashboardHandler handles dashboard operations
type DashboardHandler struct {
	reports ports.ReportService
	logger  *slog.Logger
	now     func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reports ports.ReportService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		reports: reports,
		logger:  logger.With(slog.String("handler", "dashboard")),
		now:     time.Now,
	}
}

// GetDashboard handles GET /api/v1/dashboard?from=&to=
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
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
	if fromQ != nil {
		from = *fromQ
	}
	if toQ != nil {
		to = *toQ
	}

	dashboard, err := h.reports.Dashboard(r.Context(), from, to)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "load dashboard")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dashboard)
}
