// Package config provides application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Port     int
	LogLevel string

	// Chart release tracking (optional). When the GitHub App block is absent
	// the /releases surface is disabled and everything else still works.
	ChartRepoOwner       string // from CHART_REPO ("owner/name")
	ChartRepoName        string
	ChartName            string // used to strip chart-name prefixes from release tags
	GitHubAppID          int64
	GitHubInstallationID int64
	GitHubPrivateKey     string // PEM file contents

	// OpenTelemetry (optional)
	OTelEnabled bool // OTEL_ENABLED feature flag
}

// GitHubConfigured reports whether the full GitHub App credential block is present.
func (c Config) GitHubConfigured() bool {
	return c.GitHubAppID != 0 && c.GitHubInstallationID != 0 && c.GitHubPrivateKey != ""
}

// Load reads configuration from environment variables, validates what is
// present, and applies defaults for Port (8080) and LogLevel ("info").
func Load() (Config, error) {
	cfg := Config{
		Port:     8080,
		LogLevel: "info",
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = p
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if err := loadChartConfig(&cfg); err != nil {
		return Config{}, err
	}

	if err := loadGitHubConfig(&cfg); err != nil {
		return Config{}, err
	}

	cfg.OTelEnabled = os.Getenv("OTEL_ENABLED") == "true"

	return cfg, nil
}

func loadChartConfig(cfg *Config) error {
	repo := os.Getenv("CHART_REPO")
	if repo == "" {
		return nil // release tracking is optional
	}

	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid CHART_REPO %q: expected owner/name", repo)
	}
	cfg.ChartRepoOwner = parts[0]
	cfg.ChartRepoName = parts[1]
	cfg.ChartName = getEnvOrDefault("CHART_NAME", parts[1])
	return nil
}

func loadGitHubConfig(cfg *Config) error {
	cfg.GitHubPrivateKey = os.Getenv("GITHUB_PRIVATE_KEY")

	appID := os.Getenv("GITHUB_APP_ID")
	installID := os.Getenv("GITHUB_INSTALLATION_ID")
	if appID == "" && installID == "" && cfg.GitHubPrivateKey == "" {
		return nil // GitHub integration is optional
	}

	var err error
	cfg.GitHubAppID, err = parseRequiredInt64("GITHUB_APP_ID")
	if err != nil {
		return err
	}

	cfg.GitHubInstallationID, err = parseRequiredInt64("GITHUB_INSTALLATION_ID")
	if err != nil {
		return err
	}

	if cfg.GitHubPrivateKey == "" {
		return fmt.Errorf("GITHUB_PRIVATE_KEY is required when GITHUB_APP_ID is set")
	}

	return nil
}

func parseRequiredInt64(envKey string) (int64, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return 0, fmt.Errorf("%s is required", envKey)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return id, nil
}

func getEnvOrDefault(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}
