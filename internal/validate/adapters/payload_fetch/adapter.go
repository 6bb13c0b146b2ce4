// Package payloadfetch retrieves validation payload text over HTTP.
package payloadfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxPayloadBytes bounds how much payload text is read; validation payloads
// for even very large charts stay well under this.
const maxPayloadBytes = 8 << 20

// Adapter implements ports.PayloadSourcePort over an instrumented HTTP client.
type Adapter struct {
	client *http.Client
}

// New creates a new payload fetcher. Outbound requests are traced via otelhttp.
func New() *Adapter {
	return &Adapter{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

// Fetch downloads the raw payload text from url.
func (a *Adapter) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building payload request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching validation payload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching validation payload: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return "", fmt.Errorf("reading validation payload: %w", err)
	}
	return string(body), nil
}
