// Package apiin handles incoming reconcile API requests.
package apiin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nathantilsley/release-watch/api"
	"github.com/nathantilsley/release-watch/internal/reconcile/domain"
	"github.com/nathantilsley/release-watch/internal/reconcile/ports"
)

const maxRequestBytes = 8 << 20

// Handler serves POST /reconcile.
type Handler struct {
	useCase ports.ReconcileUseCase
	values  ports.ValuesSourcePort
	logger  *slog.Logger
}

// NewHandler creates a new reconcile handler.
func NewHandler(uc ports.ReconcileUseCase, values ports.ValuesSourcePort, logger *slog.Logger) *Handler {
	return &Handler{useCase: uc, values: values, logger: logger}
}

// ServeHTTP decodes the request, resolves the values text (inline or fetched),
// runs the reconciliation, and writes the change ledger. A document parse
// failure maps to 422 so callers can show the position to the operator.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req api.ReconcileRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.logger.Error("invalid reconcile request", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Images) == 0 {
		http.Error(w, "images map is required", http.StatusBadRequest)
		return
	}

	values := req.Values
	if values == "" && req.ValuesURL != "" {
		fetched, err := h.values.Fetch(r.Context(), req.ValuesURL)
		if err != nil {
			h.logger.Error("failed to fetch values document", "url", req.ValuesURL, "error", err)
			http.Error(w, "failed to fetch values document", http.StatusBadGateway)
			return
		}
		values = fetched
	}
	if values == "" {
		http.Error(w, "either values or valuesUrl is required", http.StatusBadRequest)
		return
	}

	result, err := h.useCase.Reconcile(r.Context(), values, req.Images)
	if err != nil {
		if domain.IsParseError(err) {
			h.logger.Info("rejecting malformed values document", "error", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("reconciliation failed", "error", err)
		http.Error(w, "reconciliation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(api.ReconcileResponse{
		Changes:       result.Changes,
		UpdatedValues: result.UpdatedText,
		Diff:          result.Diff,
	}); err != nil {
		h.logger.Error("failed to write reconcile response", "error", err)
	}
}
