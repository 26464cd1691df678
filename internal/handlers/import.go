// internal/handlers/import.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
	"github.com/ninco/ninco-be/internal/workers"
)

const megabyte = 1 << 20

// ImportLimits bounds uploaded stock files.
type ImportLimits struct {
	PDFMaxBytes       int64
	ExcelMaxBytes     int64
	ProcessingTimeout time.Duration
}

// ImportHandler accepts stock files and tracks their import jobs
type ImportHandler struct {
	jobs    ports.ImportJobRepository
	storage ports.FileStorage
	tasks   ports.TaskEnqueuer
	catalog ports.CatalogService
	limits  ImportLimits
	logger  *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(
	jobs ports.ImportJobRepository,
	storage ports.FileStorage,
	tasks ports.TaskEnqueuer,
	catalog ports.CatalogService,
	limits ImportLimits,
	logger *slog.Logger,
) *ImportHandler {
	if limits.PDFMaxBytes <= 0 {
		limits.PDFMaxBytes = 10 * megabyte
	}
	if limits.ExcelMaxBytes <= 0 {
		limits.ExcelMaxBytes = 5 * megabyte
	}
	return &ImportHandler{
		jobs:    jobs,
		storage: storage,
		tasks:   tasks,
		catalog: catalog,
		limits:  limits,
		logger:  logger.With(slog.String("handler", "import")),
	}
}

// Upload handles POST /api/v1/stores/{id}/stock/imports
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	maxBytes := max(h.limits.PDFMaxBytes, h.limits.ExcelMaxBytes)
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+megabyte)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, h.logger, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respondError(w, h.logger, http.StatusBadRequest, "failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	fileType, contentType, limit, ok := h.classifyUpload(ext)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "only .xlsx and .pdf files are allowed")
		return
	}
	if header.Size > limit {
		respondError(w, h.logger, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("%s files are limited to %d MB", fileType, limit/megabyte))
		return
	}

	if _, err := h.catalog.GetStore(ctx, storeID); err != nil {
		respondServiceError(w, r, h.logger, err, "load store")
		return
	}

	job := &domain.ImportJob{
		ID:       uuid.New(),
		StoreID:  storeID,
		FileType: fileType,
		Status:   domain.ImportPending,
	}
	job.FileKey = fmt.Sprintf("imports/store-%d/%s%s", storeID, job.ID, ext)

	if _, err := h.storage.Upload(ctx, job.FileKey, io.LimitReader(file, limit), contentType); err != nil {
		h.logger.ErrorContext(ctx, "failed to store upload",
			slog.String("key", job.FileKey),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to store upload")
		return
	}

	if err := h.jobs.Create(ctx, job); err != nil {
		h.discard(r, job.FileKey)
		respondServiceError(w, r, h.logger, err, "create import job")
		return
	}

	task, err := workers.NewStockImportTask(job.ID, h.limits.ProcessingTimeout)
	if err == nil {
		_, err = h.tasks.EnqueueContext(ctx, task)
	}
	if err != nil {
		msg := "failed to queue import"
		if uerr := h.jobs.UpdateStatus(ctx, job.ID, domain.ImportFailed, 0, &msg); uerr != nil {
			h.logger.ErrorContext(ctx, "failed to mark import job failed",
				slog.String("job_id", job.ID.String()),
				slog.String("error", uerr.Error()))
		}
		h.discard(r, job.FileKey)
		h.logger.ErrorContext(ctx, "failed to enqueue import",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, msg)
		return
	}

	h.logger.InfoContext(ctx, "stock import queued",
		slog.String("job_id", job.ID.String()),
		slog.Int64("store_id", storeID),
		slog.String("file_type", string(fileType)))

	w.Header().Set("Location", "/api/v1/imports/"+job.ID.String())
	respondJSON(w, h.logger, http.StatusAccepted, job)
}

// Status handles GET /api/v1/imports/{id}
func (h *ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid id")
		return
	}

	job, err := h.jobs.FindByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get import job")
		return
	}
	if job == nil {
		respondError(w, h.logger, http.StatusNotFound, "import job not found")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, job)
}

func (h *ImportHandler) classifyUpload(ext string) (domain.ImportFileType, string, int64, bool) {
	switch ext {
	case ".xlsx":
		return domain.ImportXLSX,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			h.limits.ExcelMaxBytes, true
	case ".pdf":
		return domain.ImportPDF, "application/pdf", h.limits.PDFMaxBytes, true
	default:
		return "", "", 0, false
	}
}

func (h *ImportHandler) discard(r *http.Request, key string) {
	if err := h.storage.Delete(r.Context(), key); err != nil {
		h.logger.WarnContext(r.Context(), "failed to delete orphaned upload",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
