package handlers

import (
	"net/http"
	"time"

	"github.com/darshanpatil2511/BullFin-AI/internal/infra/database/postgres"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	dbPool    *postgres.Pool
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dbPool *postgres.Pool, version string) *HealthHandler {
	return &HealthHandler{
		dbPool:    dbPool,
		startTime: time.Now(),
		version:   version,
	}
}

// ReadyResponse represents a readiness check response
type ReadyResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Timestamp     time.Time         `json:"timestamp"`
	Checks        map[string]string `json:"checks"`
	Message       string            `json:"message,omitempty"`
}

// Health returns simple liveness check
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Ready returns readiness check with dependency checks
// GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ready"
	statusCode := http.StatusOK
	message := ""

	dbHealth := h.dbPool.Health(r.Context())
	if dbHealth.Status == "healthy" || dbHealth.Status == "degraded" {
		checks["database"] = "ok"
	} else {
		checks["database"] = "error"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		message = dbHealth.Error
	}

	writeJSON(w, statusCode, ReadyResponse{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now(),
		Checks:        checks,
		Message:       message,
	})
}
