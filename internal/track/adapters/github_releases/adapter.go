// Package githubreleases lists chart releases from a GitHub repository.
package githubreleases

import (
	"context"
	"fmt"
	"log/slog"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/nathantilsley/release-watch/internal/track/domain"
)

const releasesPerPage = 100

// Adapter implements ports.ReleaseSourcePort using the GitHub releases API.
type Adapter struct {
	client    *gogithub.Client
	chartName string
	logger    *slog.Logger
}

// New creates a new GitHub release source. chartName is used to strip
// chart-name prefixes from release tags ("my-chart-1.4.2" -> "1.4.2").
func New(client *gogithub.Client, chartName string, logger *slog.Logger) *Adapter {
	return &Adapter{client: client, chartName: chartName, logger: logger}
}

// ListReleases returns the repository's published releases, newest first,
// with draft releases excluded.
func (a *Adapter) ListReleases(ctx context.Context, owner, repo string) ([]domain.ChartRelease, error) {
	opts := &gogithub.ListOptions{PerPage: releasesPerPage}

	var releases []domain.ChartRelease
	for {
		page, resp, err := a.client.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing releases for %s/%s: %w", owner, repo, err)
		}
		for _, r := range page {
			if r.GetDraft() {
				continue
			}
			releases = append(releases, domain.ChartRelease{
				Version:     domain.NormalizeVersion(r.GetTagName(), a.chartName),
				Name:        r.GetName(),
				PublishedAt: r.GetPublishedAt().Time,
				Prerelease:  r.GetPrerelease(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	a.logger.Debug("fetched releases from github", "owner", owner, "repo", repo, "count", len(releases))
	return releases, nil
}
