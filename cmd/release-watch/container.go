// Package main provides the release-watch server: it reconciles values
// documents against desired image tags, normalizes image validation payloads,
// and lists published chart releases.
package main

import (
	"context"
	"fmt"
	"log/slog"

	reconcileapi "github.com/nathantilsley/release-watch/internal/reconcile/adapters/api_in"
	linediff "github.com/nathantilsley/release-watch/internal/reconcile/adapters/line_diff"
	valuesfetch "github.com/nathantilsley/release-watch/internal/reconcile/adapters/values_fetch"
	yamldoc "github.com/nathantilsley/release-watch/internal/reconcile/adapters/yaml_doc"
	reconcileapp "github.com/nathantilsley/release-watch/internal/reconcile/app"
	trackapi "github.com/nathantilsley/release-watch/internal/track/adapters/api_in"
	githubreleases "github.com/nathantilsley/release-watch/internal/track/adapters/github_releases"
	trackapp "github.com/nathantilsley/release-watch/internal/track/app"
	trackports "github.com/nathantilsley/release-watch/internal/track/ports"
	validateapi "github.com/nathantilsley/release-watch/internal/validate/adapters/api_in"
	payloadfetch "github.com/nathantilsley/release-watch/internal/validate/adapters/payload_fetch"
	validateapp "github.com/nathantilsley/release-watch/internal/validate/app"

	"github.com/nathantilsley/release-watch/internal/platform/config"
	ghclient "github.com/nathantilsley/release-watch/internal/platform/github"
	"github.com/nathantilsley/release-watch/internal/platform/telemetry"
)

// Container holds all application dependencies.
type Container struct {
	Config    config.Config
	Logger    *slog.Logger
	Telemetry *telemetry.Telemetry

	ReconcileHandler *reconcileapi.Handler
	ValidateHandler  *validateapi.Handler
	ReleasesHandler  *trackapi.Handler
}

// NewContainer builds and wires all dependencies.
func NewContainer(ctx context.Context, cfg config.Config, log *slog.Logger) (*Container, error) {
	tel, err := telemetry.New(ctx, cfg.OTelEnabled)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	// Reconciliation pipeline
	parser := yamldoc.New()
	differ := linediff.New()
	valuesSource := valuesfetch.New()
	reconcileSvc := reconcileapp.NewReconcileService(parser, differ, log, tel.Meter, tel.Tracer)
	reconcileHandler := reconcileapi.NewHandler(reconcileSvc, valuesSource, log)

	// Validation pipeline
	payloadSource := payloadfetch.New()
	validateSvc := validateapp.NewValidationService(log, tel.Tracer)
	validateHandler := validateapi.NewHandler(validateSvc, payloadSource, log)

	// Release tracking (optional; needs the GitHub App credential block)
	var releasesUC trackports.ReleaseUseCase
	if cfg.GitHubConfigured() {
		client, err := ghclient.NewClient(cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("creating github client: %w", err)
		}
		releaseSource := githubreleases.New(client, cfg.ChartName, log)
		releasesUC = trackapp.NewTrackService(releaseSource, log, tel.Tracer)
		log.Info("release tracking enabled", "chartRepo", cfg.ChartRepoOwner+"/"+cfg.ChartRepoName)
	} else {
		log.Info("github app not configured, release tracking disabled")
	}
	releasesHandler := trackapi.NewHandler(releasesUC, cfg.ChartRepoOwner, cfg.ChartRepoName, log)

	return &Container{
		Config:           cfg,
		Logger:           log,
		Telemetry:        tel,
		ReconcileHandler: reconcileHandler,
		ValidateHandler:  validateHandler,
		ReleasesHandler:  releasesHandler,
	}, nil
}
