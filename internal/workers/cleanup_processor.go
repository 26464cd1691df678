// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ninco/ninco-be/internal/core/ports"
)

// CleanupProcessor removes finished import jobs and their uploaded files.
type CleanupProcessor struct {
	jobs      ports.ImportJobRepository
	storage   ports.FileStorage
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(jobs ports.ImportJobRepository, storage ports.FileStorage, retention time.Duration, logger *slog.Logger) *CleanupProcessor {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &CleanupProcessor{
		jobs:      jobs,
		storage:   storage,
		retention: retention,
		now:       time.Now,
		logger:    logger.With(slog.String("processor", "cleanup")),
	}
}

// ProcessTask handles cleanup:imports.
func (p *CleanupProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	cutoff := p.now().Add(-p.retention)
	p.logger.InfoContext(ctx, "cleaning up import jobs", slog.Time("before", cutoff))

	jobs, err := p.jobs.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete import jobs: %w", err)
	}

	var filesDeleted int
	for _, job := range jobs {
		if err := p.storage.Delete(ctx, job.FileKey); err != nil {
			p.logger.WarnContext(ctx, "failed to delete import file",
				slog.String("key", job.FileKey),
				slog.String("error", err.Error()))
			continue
		}
		filesDeleted++
	}

	p.logger.InfoContext(ctx, "import jobs cleaned up",
		slog.Int("jobs_deleted", len(jobs)),
		slog.Int("files_deleted", filesDeleted))

	return nil
}
