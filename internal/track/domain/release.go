// Package domain holds the chart release model for the tracking context.
package domain

import (
	"strings"
	"time"
)

// ChartRelease is one published release of the watched Helm chart.
type ChartRelease struct {
	Version     string    `json:"version"`
	Name        string    `json:"name,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Prerelease  bool      `json:"prerelease,omitempty"`
}

// NormalizeVersion strips a leading "v" or chart-name prefix from a release
// tag, so "my-chart-1.4.2" and "v1.4.2" both become "1.4.2".
func NormalizeVersion(tag, chartName string) string {
	v := tag
	if chartName != "" {
		v = strings.TrimPrefix(v, chartName+"-")
	}
	return strings.TrimPrefix(v, "v")
}

// Latest returns the most recently published release, or ok=false when the
// list is empty. Prereleases are skipped unless nothing else exists.
func Latest(releases []ChartRelease) (ChartRelease, bool) {
	var best ChartRelease
	var found bool
	for _, r := range releases {
		if r.Prerelease {
			continue
		}
		if !found || r.PublishedAt.After(best.PublishedAt) {
			best, found = r, true
		}
	}
	if found {
		return best, true
	}
	for _, r := range releases {
		if !found || r.PublishedAt.After(best.PublishedAt) {
			best, found = r, true
		}
	}
	return best, found
}
