// Package valuesfetch retrieves raw values document text over HTTP.
package valuesfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxValuesBytes bounds how much document text is read. Hand-authored values
// files are small; anything near this limit is not a values file.
const maxValuesBytes = 4 << 20

// Adapter implements ports.ValuesSourcePort over an instrumented HTTP client.
type Adapter struct {
	client *http.Client
}

// New creates a new values fetcher. Outbound requests are traced via otelhttp.
func New() *Adapter {
	return &Adapter{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

// Fetch downloads raw values text from url. The text is returned as-is;
// sanitization happens at parse time.
func (a *Adapter) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building values request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching values document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching values document: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxValuesBytes))
	if err != nil {
		return "", fmt.Errorf("reading values document: %w", err)
	}
	return string(body), nil
}
