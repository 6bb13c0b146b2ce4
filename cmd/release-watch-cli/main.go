// Command release-watch-cli reconciles a local values file against an image
// map without running the server, and can list chart releases ad hoc.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v68/github"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/nathantilsley/release-watch/internal/platform/logger"
	linediff "github.com/nathantilsley/release-watch/internal/reconcile/adapters/line_diff"
	yamldoc "github.com/nathantilsley/release-watch/internal/reconcile/adapters/yaml_doc"
	"github.com/nathantilsley/release-watch/internal/reconcile/app"
	"github.com/nathantilsley/release-watch/internal/reconcile/domain"
	trackdomain "github.com/nathantilsley/release-watch/internal/track/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		write    = flag.Bool("write", false, "Rewrite the values file in place instead of printing the result")
		logLevel = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
		releases = flag.String("releases", "", "List chart releases for owner/repo and exit (uses GITHUB_TOKEN if set)")
		chart    = flag.String("chart", "", "Chart name, used to strip prefixes from release tags")
	)
	flag.Parse()

	if *releases != "" {
		return listReleases(*releases, *chart)
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: release-watch-cli [flags] <values.yaml> <images.json>\n")
		fmt.Fprintf(os.Stderr, "\nThe images file maps dotted keys to desired image state:\n")
		fmt.Fprintf(os.Stderr, "  {\"api\": {\"repository\": \"registry.example.com/api\", \"tag\": \"1.4.2\"}}\n")
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
		return fmt.Errorf("expected values file and images file")
	}

	valuesPath, imagesPath := args[0], args[1]

	valuesText, err := os.ReadFile(valuesPath)
	if err != nil {
		return fmt.Errorf("reading values file: %w", err)
	}

	imagesText, err := os.ReadFile(imagesPath)
	if err != nil {
		return fmt.Errorf("reading images file: %w", err)
	}
	var images map[string]domain.TagTarget
	if err := json.Unmarshal(imagesText, &images); err != nil {
		return fmt.Errorf("parsing images file: %w", err)
	}

	svc := app.NewReconcileService(
		yamldoc.New(),
		linediff.New(),
		logger.New(*logLevel),
		noopmetric.NewMeterProvider().Meter("release-watch-cli"),
		nooptrace.NewTracerProvider().Tracer("release-watch-cli"),
	)

	result, err := svc.Reconcile(context.Background(), string(valuesText), images)
	if err != nil {
		return err
	}

	for _, c := range result.Changes {
		old := "-"
		if c.OldTag != nil {
			old = *c.OldTag
		}
		fmt.Printf("%-10s %-40s %s -> %s\n", c.Status, c.Path, old, c.NewTag)
	}

	updated, unchanged, missing := domain.CountByStatus(result.Changes)
	fmt.Printf("\n%d updated, %d unchanged, %d missing\n", updated, unchanged, missing)

	if result.Diff != "" {
		fmt.Printf("\n%s\n", result.Diff)
	}

	if *write {
		if err := os.WriteFile(valuesPath, []byte(result.UpdatedText), 0o644); err != nil {
			return fmt.Errorf("writing values file: %w", err)
		}
		fmt.Printf("\nWrote %s\n", valuesPath)
	}

	return nil
}

func listReleases(repoSlug, chartName string) error {
	parts := strings.SplitN(repoSlug, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid -releases value %q, expected owner/repo", repoSlug)
	}

	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}

	ctx := context.Background()
	page, _, err := client.Repositories.ListReleases(ctx, parts[0], parts[1], &github.ListOptions{PerPage: 50})
	if err != nil {
		return fmt.Errorf("listing releases: %w", err)
	}

	for _, r := range page {
		if r.GetDraft() {
			continue
		}
		version := trackdomain.NormalizeVersion(r.GetTagName(), chartName)
		marker := ""
		if r.GetPrerelease() {
			marker = " (prerelease)"
		}
		fmt.Printf("%-20s %s%s\n", version, r.GetPublishedAt().Format("2006-01-02"), marker)
	}
	return nil
}
