// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ninco/ninco-be/internal/core/ports"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// CachePinger is the slice of the cache the readiness check needs.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// QueueInspector reports task queue state. *asynq.Inspector satisfies it.
type QueueInspector interface {
	Queues() ([]string, error)
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version     string
	Environment string
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        ports.Database
	cache     CachePinger
	queues    QueueInspector
	build     BuildInfo
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. queues may be nil.
func NewHealthHandler(
	database ports.Database,
	cache CachePinger,
	queues QueueInspector,
	build BuildInfo,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:        database,
		cache:     cache,
		queues:    queues,
		build:     build,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus is the liveness payload
type HealthStatus struct {
	Status      string     `json:"status"`
	Version     string     `json:"version"`
	Environment string     `json:"environment"`
	Uptime      string     `json:"uptime"`
	Timestamp   time.Time  `json:"timestamp"`
	System      SystemInfo `json:"system"`
}

// ReadinessStatus is the readiness payload
type ReadinessStatus struct {
	Ready    bool                   `json:"ready"`
	Services map[string]ServiceInfo `json:"services"`
}

// ServiceInfo represents the status of a service dependency
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SystemInfo represents system-level information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// Health handles GET /health. It only reports that the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusOK, HealthStatus{
		Status:      statusHealthy,
		Version:     h.build.Version,
		Environment: h.build.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		System:      systemInfo(),
	})
}

// Readiness handles GET /ready by probing every dependency.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := ReadinessStatus{Ready: true, Services: make(map[string]ServiceInfo)}

	status.Services["database"] = h.checkDatabase(ctx)
	status.Services["cache"] = h.ping(ctx, "cache", h.cache.Ping)
	if h.queues != nil {
		status.Services["queue"] = h.checkQueues(ctx)
	}

	for _, svc := range status.Services {
		if svc.Status != statusHealthy {
			status.Ready = false
		}
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	h.write(w, r, code, status)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ServiceInfo {
	info := h.ping(ctx, "database", h.db.Ping)
	if info.Status == statusHealthy {
		info.Details = h.db.Health(ctx)
	}
	return info
}

func (h *HealthHandler) ping(ctx context.Context, name string, ping func(context.Context) error) ServiceInfo {
	start := time.Now()
	if err := ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, name+" health check failed",
			slog.String("error", err.Error()))
		return ServiceInfo{Status: statusUnhealthy, Message: err.Error()}
	}
	return ServiceInfo{Status: statusHealthy, ResponseTime: time.Since(start).String()}
}

func (h *HealthHandler) checkQueues(ctx context.Context) ServiceInfo {
	start := time.Now()

	queues, err := h.queues.Queues()
	if err != nil {
		h.logger.ErrorContext(ctx, "queue health check failed",
			slog.String("error", err.Error()))
		return ServiceInfo{Status: statusUnhealthy, Message: err.Error()}
	}

	stats := make(map[string]interface{}, len(queues))
	for _, queue := range queues {
		qInfo, err := h.queues.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		stats[queue] = map[string]interface{}{
			"size":     qInfo.Size,
			"active":   qInfo.Active,
			"pending":  qInfo.Pending,
			"retry":    qInfo.Retry,
			"archived": qInfo.Archived,
		}
	}

	return ServiceInfo{
		Status:       statusHealthy,
		ResponseTime: time.Since(start).String(),
		Details:      map[string]interface{}{"queues": stats},
	}
}

func (h *HealthHandler) write(w http.ResponseWriter, r *http.Request, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode health response",
			slog.String("error", err.Error()))
	}
}

func systemInfo() SystemInfo {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAllocMB: memStats.Alloc / 1024 / 1024,
		NumGC:         memStats.NumGC,
	}
}
