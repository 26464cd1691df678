// internal/core/services/report.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

const (
	dashboardDays        = 7
	dashboardTopProducts = 10
)

// ReportService builds the sales dashboard.
type ReportService struct {
	reports           ports.ReportRepository
	ledger            ports.StockLedger
	cache             ports.CacheRepository
	ttl               time.Duration
	lowStockThreshold int
	now               func() time.Time
	logger            *slog.Logger
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service
func NewReportService(reports ports.ReportRepository, ledger ports.StockLedger, cache ports.CacheRepository,
	ttl time.Duration, lowStockThreshold int, logger *slog.Logger) *ReportService {
	return &ReportService{
		reports:           reports,
		ledger:            ledger,
		cache:             cache,
		ttl:               ttl,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
		logger:            logger.With(slog.String("service", "report")),
	}
}

// DashboardWindow returns the default period: the last seven days including today, in UTC.
func DashboardWindow(now time.Time) (from, to time.Time) {
	to = now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	from = to.AddDate(0, 0, -dashboardDays)
	return from, to
}

// Dashboard returns the cached summary for [from, to).
func (s *ReportService) Dashboard(ctx context.Context, from, to time.Time) (*domain.Dashboard, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", domain.ErrInvalidInput)
	}

	var dashboard domain.Dashboard
	err := s.cache.GetOrSet(ctx, dashboardKey(from, to), &dashboard, func() (interface{}, error) {
		return s.build(ctx, from, to)
	}, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return &dashboard, nil
}

// RefreshDashboard recomputes the default window and overwrites its cache entry.
func (s *ReportService) RefreshDashboard(ctx context.Context) error {
	from, to := DashboardWindow(s.now())

	dashboard, err := s.build(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to build dashboard: %w", err)
	}
	if err := s.cache.SetWithTTL(ctx, dashboardKey(from, to), dashboard, s.ttl); err != nil {
		return fmt.Errorf("failed to cache dashboard: %w", err)
	}

	s.logger.InfoContext(ctx, "dashboard refreshed",
		slog.Time("from", from),
		slog.Time("to", to),
		slog.String("revenue", dashboard.TotalRevenue.StringFixed(2)))

	return nil
}

func (s *ReportService) build(ctx context.Context, from, to time.Time) (*domain.Dashboard, error) {
	daily, err := s.reports.DailySales(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}

	top, err := s.reports.TopProducts(ctx, from, to, dashboardTopProducts)
	if err != nil {
		return nil, err
	}

	stock, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		From:         from,
		To:           to,
		TotalRevenue: decimal.Zero,
		Daily:        daily,
		TopProducts:  top,
		LowStock:     make([]domain.StockEntry, 0),
		GeneratedAt:  s.now().UTC(),
	}
	for _, d := range daily {
		dashboard.TotalRevenue = dashboard.TotalRevenue.Add(d.Revenue)
		dashboard.TotalInvoices += d.Invoices
		dashboard.TotalUnits += d.Units
	}
	for _, e := range stock {
		if e.Quantity < s.lowStockThreshold {
			dashboard.LowStock = append(dashboard.LowStock, e)
		}
	}

	return dashboard, nil
}
