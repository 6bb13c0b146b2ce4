package apiin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nathantilsley/release-watch/internal/platform/logger"
	"github.com/nathantilsley/release-watch/internal/track/domain"
)

type mockReleaseUseCase struct {
	gotOwner, gotRepo string
	releases          []domain.ChartRelease
	err               error
}

func (m *mockReleaseUseCase) ListReleases(_ context.Context, owner, repo string) ([]domain.ChartRelease, error) {
	m.gotOwner, m.gotRepo = owner, repo
	return m.releases, m.err
}

func get(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerListsReleasesWithLatest(t *testing.T) {
	src := &mockReleaseUseCase{releases: []domain.ChartRelease{
		{Version: "1.0.0", PublishedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		{Version: "1.1.0", PublishedAt: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
	}}
	h := NewHandler(src, "my-org", "my-chart", logger.New("error"))

	rec := get(t, h, "/releases")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if src.gotOwner != "my-org" || src.gotRepo != "my-chart" {
		t.Errorf("listed %s/%s, want defaults my-org/my-chart", src.gotOwner, src.gotRepo)
	}

	var resp struct {
		Releases []domain.ChartRelease `json:"releases"`
		Latest   *domain.ChartRelease  `json:"latest"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Releases) != 2 {
		t.Errorf("got %d releases, want 2", len(resp.Releases))
	}
	if resp.Latest == nil || resp.Latest.Version != "1.1.0" {
		t.Errorf("latest = %+v, want 1.1.0", resp.Latest)
	}
}

func TestHandlerQueryOverridesDefaults(t *testing.T) {
	src := &mockReleaseUseCase{}
	h := NewHandler(src, "my-org", "my-chart", logger.New("error"))

	rec := get(t, h, "/releases?owner=other-org&repo=other-chart")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if src.gotOwner != "other-org" || src.gotRepo != "other-chart" {
		t.Errorf("listed %s/%s, want query overrides", src.gotOwner, src.gotRepo)
	}
}

func TestHandlerUnconfiguredSourceIs503(t *testing.T) {
	h := NewHandler(nil, "", "", logger.New("error"))
	if rec := get(t, h, "/releases"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandlerMissingRepoIs400(t *testing.T) {
	h := NewHandler(&mockReleaseUseCase{}, "", "", logger.New("error"))
	if rec := get(t, h, "/releases"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerSourceFailureIs502(t *testing.T) {
	h := NewHandler(&mockReleaseUseCase{err: errors.New("boom")}, "my-org", "my-chart", logger.New("error"))
	if rec := get(t, h, "/releases"); rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
