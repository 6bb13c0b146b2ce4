// Package apiin handles incoming release listing requests.
package apiin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nathantilsley/release-watch/internal/track/domain"
	"github.com/nathantilsley/release-watch/internal/track/ports"
)

// Handler serves GET /releases.
type Handler struct {
	useCase      ports.ReleaseUseCase // nil when GitHub is not configured
	defaultOwner string
	defaultRepo  string
	logger       *slog.Logger
}

// NewHandler creates a new release listing handler. useCase may be nil, in
// which case every request is answered with 503.
func NewHandler(useCase ports.ReleaseUseCase, defaultOwner, defaultRepo string, logger *slog.Logger) *Handler {
	return &Handler{useCase: useCase, defaultOwner: defaultOwner, defaultRepo: defaultRepo, logger: logger}
}

type releasesResponse struct {
	Releases []domain.ChartRelease `json:"releases"`
	Latest   *domain.ChartRelease  `json:"latest,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.useCase == nil {
		http.Error(w, "release tracking is not configured", http.StatusServiceUnavailable)
		return
	}

	owner := r.URL.Query().Get("owner")
	repo := r.URL.Query().Get("repo")
	if owner == "" {
		owner = h.defaultOwner
	}
	if repo == "" {
		repo = h.defaultRepo
	}
	if owner == "" || repo == "" {
		http.Error(w, "owner and repo are required", http.StatusBadRequest)
		return
	}

	releases, err := h.useCase.ListReleases(r.Context(), owner, repo)
	if err != nil {
		h.logger.Error("failed to list releases", "owner", owner, "repo", repo, "error", err)
		http.Error(w, "failed to list releases", http.StatusBadGateway)
		return
	}

	resp := releasesResponse{Releases: releases}
	if latest, ok := domain.Latest(releases); ok {
		resp.Latest = &latest
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to write releases response", "error", err)
	}
}
