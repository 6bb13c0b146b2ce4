package ports

import (
	"context"

	"github.com/nathantilsley/release-watch/internal/track/domain"
)

// ReleaseUseCase is the driving port for listing published chart releases.
type ReleaseUseCase interface {
	ListReleases(ctx context.Context, owner, repo string) ([]domain.ChartRelease, error)
}
