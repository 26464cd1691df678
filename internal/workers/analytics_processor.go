// internal/workers/analytics_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ninco/ninco-be/internal/core/ports"
)

// AnalyticsProcessor precomputes the sales dashboard.
type AnalyticsProcessor struct {
	reports ports.ReportService
	logger  *slog.Logger
}

// NewAnalyticsProcessor creates a new analytics processor
func NewAnalyticsProcessor(reports ports.ReportService, logger *slog.Logger) *AnalyticsProcessor {
	return &AnalyticsProcessor{
		reports: reports,
		logger:  logger.With(slog.String("processor", "analytics")),
	}
}

// ProcessTask handles report:daily_sales.
func (p *AnalyticsProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	p.logger.InfoContext(ctx, "refreshing dashboard")

	if err := p.reports.RefreshDashboard(ctx); err != nil {
		return fmt.Errorf("failed to refresh dashboard: %w", err)
	}
	return nil
}
