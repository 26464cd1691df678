// internal/workers/import_processor.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

// ImportProcessor applies uploaded stock files.
type ImportProcessor struct {
	jobs    ports.ImportJobRepository
	storage ports.FileStorage
	stock   ports.StockService
	logger  *slog.Logger
}

// NewImportProcessor creates a new stock import processor
func NewImportProcessor(jobs ports.ImportJobRepository, storage ports.FileStorage, stock ports.StockService, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		jobs:    jobs,
		storage: storage,
		stock:   stock,
		logger:  logger.With(slog.String("processor", "stock_import")),
	}
}

// ProcessTask handles stock:import.
func (p *ImportProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload StockImportPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}

	job, err := p.jobs.FindByID(ctx, payload.JobID)
	if err != nil {
		return fmt.Errorf("failed to load import job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("import job %s not found: %w", payload.JobID, asynq.SkipRetry)
	}
	if job.Status == domain.ImportCompleted {
		p.logger.InfoContext(ctx, "import already completed", slog.String("job_id", job.ID.String()))
		return nil
	}

	p.logger.InfoContext(ctx, "processing stock import",
		slog.String("job_id", job.ID.String()),
		slog.Int64("store_id", job.StoreID),
		slog.String("file_type", string(job.FileType)))

	if err := p.jobs.UpdateStatus(ctx, job.ID, domain.ImportProcessing, 0, nil); err != nil {
		return fmt.Errorf("failed to mark import processing: %w", err)
	}

	data, err := p.storage.Download(ctx, job.FileKey)
	if err != nil {
		return p.fail(ctx, job, fmt.Errorf("failed to download file: %w", err), false)
	}

	adjustments, err := ParseStockFile(job.FileType, data)
	if err != nil {
		return p.fail(ctx, job, err, true)
	}

	applied, err := p.stock.ApplyImport(ctx, job.ID, job.StoreID, adjustments)
	if err != nil {
		permanent := errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound)
		return p.fail(ctx, job, fmt.Errorf("failed to restock: %w", err), permanent)
	}
	if !applied {
		p.logger.InfoContext(ctx, "import already completed", slog.String("job_id", job.ID.String()))
		return nil
	}

	p.logger.InfoContext(ctx, "stock import completed",
		slog.String("job_id", job.ID.String()),
		slog.Int("rows", len(adjustments)),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}

// fail records cause on the job. Permanent failures are not retried.
func (p *ImportProcessor) fail(ctx context.Context, job *domain.ImportJob, cause error, permanent bool) error {
	msg := cause.Error()
	if err := p.jobs.UpdateStatus(ctx, job.ID, domain.ImportFailed, 0, &msg); err != nil {
		p.logger.ErrorContext(ctx, "failed to mark import failed",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
	}

	p.logger.WarnContext(ctx, "stock import failed",
		slog.String("job_id", job.ID.String()),
		slog.String("error", msg))

	if permanent {
		return fmt.Errorf("%v: %w", cause, asynq.SkipRetry)
	}
	return cause
}
