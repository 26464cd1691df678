// internal/core/ports/report.go
package ports

import (
	"context"
	"time"

	"github.com/ninco/ninco-be/internal/core/domain"
)

// ReportRepository runs read-only sales aggregates.
type ReportRepository interface {
	DailySales(ctx context.Context, from, to time.Time, storeID *int64) ([]domain.DailySales, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.TopProduct, error)
}

// ReportService builds the dashboard.
type ReportService interface {
	Dashboard(ctx context.Context, from, to time.Time) (*domain.Dashboard, error)
	RefreshDashboard(ctx context.Context) error
}
