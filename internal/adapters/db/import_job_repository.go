// internal/adapters/db/import_job_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

const importJobColumns = `job_id, store_id, file_key, file_type, status, rows_processed, error, created_at, updated_at`

// ImportJobRepository persists stock import jobs.
type ImportJobRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.ImportJobRepository = (*ImportJobRepository)(nil)

// NewImportJobRepository creates a new import job repository
func NewImportJobRepository(db *Database, logger *slog.Logger) *ImportJobRepository {
	return &ImportJobRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "import_job")),
	}
}

func scanImportJob(row pgx.Row) (*domain.ImportJob, error) {
	j := &domain.ImportJob{}
	err := row.Scan(&j.ID, &j.StoreID, &j.FileKey, &j.FileType, &j.Status,
		&j.RowsProcessed, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Create inserts job, assigning an id when it has none.
func (r *ImportJobRepository) Create(ctx context.Context, job *domain.ImportJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = domain.ImportPending
	}

	query := `
		INSERT INTO import_jobs (job_id, store_id, file_key, file_type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, job.ID, job.StoreID, job.FileKey, job.FileType, job.Status).
		Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("store %d: %w", job.StoreID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to create import job: %w", err)
	}

	r.logger.InfoContext(ctx, "import job created",
		slog.String("job_id", job.ID.String()),
		slog.Int64("store_id", job.StoreID),
		slog.String("file_type", string(job.FileType)))

	return nil
}

// FindByID returns the job, or nil if it does not exist.
func (r *ImportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE job_id = $1`

	j, err := scanImportJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find import job: %w", err)
	}
	return j, nil
}

// UpdateStatus moves a job to status, recording processed rows and an
// optional error message.
func (r *ImportJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ImportStatus, rows int, errMsg *string) error {
	query := `
		UPDATE import_jobs
		SET status = $2, rows_processed = $3, error = $4, updated_at = NOW()
		WHERE job_id = $1`

	tag, err := r.db.Exec(ctx, query, id, status, rows, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update import job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import job %s: %w", id, domain.ErrNotFound)
	}

	r.logger.DebugContext(ctx, "import job updated",
		slog.String("job_id", id.String()),
		slog.String("status", string(status)),
		slog.Int("rows", rows))

	return nil
}

// DeleteFinishedBefore removes completed and failed jobs last touched before
// the cutoff and returns them so their files can be removed.
func (r *ImportJobRepository) DeleteFinishedBefore(ctx context.Context, before time.Time) ([]domain.ImportJob, error) {
	query := `
		DELETE FROM import_jobs
		WHERE status IN ('completed', 'failed') AND updated_at < $1
		RETURNING ` + importJobColumns

	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to delete import jobs: %w", err)
	}

	return ScanMany(rows, func(row pgx.Rows) (*domain.ImportJob, error) {
		j, err := scanImportJob(row)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import job: %w", err)
		}
		return j, nil
	})
}
