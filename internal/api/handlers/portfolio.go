package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
	"github.com/darshanpatil2511/BullFin-AI/internal/service/ingest"
)

// maxUploadSize caps portfolio CSV uploads at 8 MiB.
const maxUploadSize = 8 << 20

// PortfolioHandler handles portfolio ingestion requests
type PortfolioHandler struct {
	repo portfolio.HoldingRepository
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(repo portfolio.HoldingRepository) *PortfolioHandler {
	return &PortfolioHandler{
		repo: repo,
	}
}

// uploadResponse mirrors the original upload contract.
type uploadResponse struct {
	Inserted int                 `json:"inserted"`
	Data     portfolio.Portfolio `json:"data"`
	BatchID  string              `json:"batchId"`
}

// Upload ingests a CSV portfolio file.
// POST /api/upload-portfolio, multipart form, file under the "file" key.
func (h *PortfolioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `No file uploaded; ensure form-data key is "file".`)
		return
	}
	defer file.Close()

	rows, err := ingest.ReadCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.normalizeAndPersist(w, r, rows)
}

// manualEntryRequest carries manually typed form rows.
type manualEntryRequest struct {
	Rows []ingest.RawRow `json:"rows"`
}

// ManualEntry ingests manually entered portfolio rows.
// POST /api/portfolio
func (h *PortfolioHandler) ManualEntry(w http.ResponseWriter, r *http.Request) {
	var req manualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "No rows provided")
		return
	}

	h.normalizeAndPersist(w, r, req.Rows)
}

// GetBatch returns a persisted batch in its original input order.
// GET /api/portfolio/{batchId}
func (h *PortfolioHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := uuid.Parse(mux.Vars(r)["batchId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch id")
		return
	}

	holdings, err := h.repo.GetBatch(r.Context(), batchID)
	if err != nil {
		log.Error().Err(err).Str("batch_id", batchID.String()).Msg("Failed to read portfolio batch")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(holdings) == 0 {
		writeError(w, http.StatusNotFound, "Batch not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"batchId": batchID.String(),
		"data":    holdings,
	})
}

// normalizeAndPersist is the shared tail of both ingestion paths: validate
// the raw rows, then commit them as one batch.
func (h *PortfolioHandler) normalizeAndPersist(w http.ResponseWriter, r *http.Request, rows []ingest.RawRow) {
	holdings, err := ingest.NormalizeRows(rows)
	if err != nil {
		var rowErrs ingest.RowErrors
		if errors.As(err, &rowErrs) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":     "invalid portfolio rows",
				"rowErrors": rowErrs,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := h.repo.InsertBatch(r.Context(), holdings)
	if err != nil {
		log.Error().Err(err).Int("rows", len(holdings)).Msg("Failed to persist portfolio batch")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Inserted: batch.InsertedCount,
		Data:     batch.Holdings,
		BatchID:  batch.BatchID.String(),
	})
}
