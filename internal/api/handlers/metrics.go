package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
	"github.com/darshanpatil2511/BullFin-AI/internal/infra/external/quant"
	"github.com/darshanpatil2511/BullFin-AI/internal/service/metrics"
)

// MetricsHandler proxies analysis requests to the metrics orchestrator
type MetricsHandler struct {
	svc *metrics.Service
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(svc *metrics.Service) *MetricsHandler {
	return &MetricsHandler{
		svc: svc,
	}
}

type metricsRequest struct {
	Portfolio portfolio.Portfolio `json:"portfolio"`
}

// Compute runs one analysis request.
// POST /api/metrics, body {"portfolio": [...]}.
func (h *MetricsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req metricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.ComputeMetrics(r.Context(), req.Portfolio)
	if err != nil {
		h.writeComputeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeComputeError maps orchestrator failures onto the wire contract.
// Engine-reported failures keep their original status and message.
func (h *MetricsHandler) writeComputeError(w http.ResponseWriter, err error) {
	if errors.Is(err, portfolio.ErrMissingPortfolio) {
		writeError(w, http.StatusBadRequest, "Missing portfolio data.")
		return
	}

	var statusErr *quant.StatusError
	if errors.As(err, &statusErr) {
		writeError(w, statusErr.Status, statusErr.Message)
		return
	}

	var upstream *metrics.UpstreamError
	if errors.As(err, &upstream) {
		status := http.StatusBadGateway
		if upstream.Timeout {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, upstream.Error())
		return
	}

	log.Error().Err(err).Msg("Unexpected metrics failure")
	writeError(w, http.StatusInternalServerError, err.Error())
}
