package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
	"github.com/darshanpatil2511/BullFin-AI/internal/service/analysis"
)

// ReturnsHandler serves the derived-view endpoints. These are pure functions
// of the request body: the caller (the UI session) holds the MetricsResult
// and its horizon/comparison selections and posts them back here.
type ReturnsHandler struct{}

// NewReturnsHandler creates a new ReturnsHandler
func NewReturnsHandler() *ReturnsHandler {
	return &ReturnsHandler{}
}

// returnsRequest is the shared request shape of the returns endpoints.
// Symbols carries the shareProfits ordering (JSON objects lose it) and is
// the stable tie-break order for ranking.
type returnsRequest struct {
	ShareProfits portfolio.ShareProfits `json:"shareProfits"`
	Symbols      []string               `json:"symbols"`
	Portfolio    portfolio.Portfolio    `json:"portfolio"`
	Horizon      string                 `json:"horizon"`
	N            int                    `json:"n"`
	SymbolA      string                 `json:"symbolA"`
	SymbolB      string                 `json:"symbolB"`
}

func decodeReturnsRequest(w http.ResponseWriter, r *http.Request) (*returnsRequest, portfolio.Horizon, bool) {
	var req returnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, "", false
	}

	horizon, err := portfolio.ParseHorizon(req.Horizon)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unrecognized horizon: "+req.Horizon)
		return nil, "", false
	}

	return &req, horizon, true
}

// Derive returns the per-symbol derived views for one horizon.
// POST /api/returns/derive
func (h *ReturnsHandler) Derive(w http.ResponseWriter, r *http.Request) {
	req, horizon, ok := decodeReturnsRequest(w, r)
	if !ok {
		return
	}

	views, err := analysis.Derive(req.ShareProfits, req.Portfolio, horizon)
	if err != nil {
		writeDeriveError(w, err)
		return
	}

	// Money fields round to 2 decimal places here, at the presentation
	// boundary only.
	rounded := make(map[string]portfolio.DerivedHoldingView, len(views))
	for symbol, view := range views {
		rounded[symbol] = view.Rounded()
	}
	writeJSON(w, http.StatusOK, map[string]any{"views": rounded})
}

// Top returns the top-N ranking for one horizon.
// POST /api/returns/top
func (h *ReturnsHandler) Top(w http.ResponseWriter, r *http.Request) {
	req, horizon, ok := decodeReturnsRequest(w, r)
	if !ok {
		return
	}

	n := req.N
	if n == 0 {
		n = analysis.DefaultTopN
	}

	ranked, err := analysis.TopN(req.ShareProfits, req.Symbols, horizon, n)
	if err != nil {
		writeDeriveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"top": ranked})
}

// Compare returns the two-way comparison of two chosen symbols.
// POST /api/returns/compare
func (h *ReturnsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	req, horizon, ok := decodeReturnsRequest(w, r)
	if !ok {
		return
	}

	view, err := analysis.Compare(req.ShareProfits, req.Portfolio, horizon, req.SymbolA, req.SymbolB)
	if err != nil {
		writeDeriveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis.CompareView{
		A: view.A.Rounded(),
		B: view.B.Rounded(),
	})
}

func writeDeriveError(w http.ResponseWriter, err error) {
	if errors.Is(err, portfolio.ErrUnknownHorizon) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
