// Package app orchestrates chart release tracking.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/nathantilsley/release-watch/internal/track/domain"
	"github.com/nathantilsley/release-watch/internal/track/ports"
)

// TrackService implements ports.ReleaseUseCase on top of a release source.
type TrackService struct {
	source ports.ReleaseSourcePort
	logger *slog.Logger
	tracer trace.Tracer
}

// NewTrackService creates a new TrackService.
func NewTrackService(source ports.ReleaseSourcePort, logger *slog.Logger, tracer trace.Tracer) *TrackService {
	return &TrackService{source: source, logger: logger, tracer: tracer}
}

// ListReleases returns the published releases of the given chart repository.
func (s *TrackService) ListReleases(ctx context.Context, owner, repo string) ([]domain.ChartRelease, error) {
	ctx, span := s.tracer.Start(ctx, "track.releases")
	defer span.End()

	releases, err := s.source.ListReleases(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("listing chart releases: %w", err)
	}

	s.logger.Info("listed chart releases", "owner", owner, "repo", repo, "count", len(releases))
	return releases, nil
}
