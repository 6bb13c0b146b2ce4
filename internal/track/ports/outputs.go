package ports

import (
	"context"

	"github.com/nathantilsley/release-watch/internal/track/domain"
)

// ReleaseSourcePort abstracts listing published releases of the watched chart
// repository.
type ReleaseSourcePort interface {
	ListReleases(ctx context.Context, owner, repo string) ([]domain.ChartRelease, error)
}
