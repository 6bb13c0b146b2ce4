// Package apiin handles incoming validation API requests.
package apiin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nathantilsley/release-watch/api"
	"github.com/nathantilsley/release-watch/internal/validate/domain"
	"github.com/nathantilsley/release-watch/internal/validate/ports"
)

const maxRequestBytes = 8 << 20

// Handler serves POST /validation.
type Handler struct {
	useCase ports.ValidateUseCase
	source  ports.PayloadSourcePort
	logger  *slog.Logger
}

// NewHandler creates a new validation handler.
func NewHandler(uc ports.ValidateUseCase, source ports.PayloadSourcePort, logger *slog.Logger) *Handler {
	return &Handler{useCase: uc, source: source, logger: logger}
}

// ServeHTTP resolves the raw payload (inline object or fetched from a URL),
// normalizes it, optionally applies the missing-only filter, and writes the
// canonical payload. Filtering happens on the response copy only.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req api.ValidationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.logger.Error("invalid validation request", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var rawJSON string
	switch {
	case req.Payload != nil:
		inline, err := json.Marshal(req.Payload)
		if err != nil {
			http.Error(w, "invalid inline payload", http.StatusBadRequest)
			return
		}
		rawJSON = string(inline)
	case req.URL != "":
		fetched, err := h.source.Fetch(r.Context(), req.URL)
		if err != nil {
			h.logger.Error("failed to fetch validation payload", "url", req.URL, "error", err)
			http.Error(w, "failed to fetch validation payload", http.StatusBadGateway)
			return
		}
		rawJSON = fetched
	default:
		http.Error(w, "either payload or url is required", http.StatusBadRequest)
		return
	}

	payload, err := h.useCase.Normalize(r.Context(), rawJSON)
	if err != nil {
		if domain.IsPayloadError(err) {
			h.logger.Info("rejecting malformed validation payload", "error", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("payload normalization failed", "error", err)
		http.Error(w, "normalization failed", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("missingOnly") == "true" {
		payload = domain.FilterMissing(payload)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write validation response", "error", err)
	}
}
