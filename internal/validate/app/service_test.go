package app

import (
	"context"
	"testing"

	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/nathantilsley/release-watch/internal/platform/logger"
	"github.com/nathantilsley/release-watch/internal/validate/domain"
)

func newService() *ValidationService {
	return NewValidationService(
		logger.New("error"),
		nooptrace.NewTracerProvider().Tracer("test"),
	)
}

const basePayload = `{
  "version": "1.4.2",
  "host": "registry.example.com",
  "namespace": "releases",
  "images": [
    {
      "sourceRepository": "docker.io/library/api",
      "sourceTag": "1.0",
      "targetImageName": "api",
      "paths": ["api.image"],
      "variants": [
        {"name": "original", "tag": "1.0", "image": "api:1.0", "status": "found"},
        {"name": "amd64", "tag": "1.0-amd64", "image": "api:1.0-amd64", "status": "found"},
        {"name": "arm64", "tag": "1.0-arm64", "image": "api:1.0-arm64", "status": "missing"}
      ]
    }
  ]
}`

func TestNormalizeDerivesStatusFromVariants(t *testing.T) {
	payload, err := newService().Normalize(context.Background(), basePayload)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if payload.Version != "1.4.2" {
		t.Errorf("version = %q, want %q", payload.Version, "1.4.2")
	}
	if len(payload.Images) != 1 {
		t.Fatalf("got %d images, want 1", len(payload.Images))
	}
	rec := payload.Images[0]
	if rec.Status != domain.OverallPartial {
		t.Errorf("status = %q, want partial (original found, arm64 missing)", rec.Status)
	}
	if len(rec.Variants) != 3 {
		t.Errorf("got %d variants, want 3", len(rec.Variants))
	}
}

func TestNormalizeIgnoresWireStatus(t *testing.T) {
	forged := `{
  "version": "1.4.2",
  "images": [
    {
      "targetImageName": "api",
      "status": "all_found",
      "variants": [
        {"name": "original", "status": "missing"},
        {"name": "amd64", "status": "missing"}
      ]
    }
  ]
}`
	payload, err := newService().Normalize(context.Background(), forged)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got := payload.Images[0].Status; got != domain.OverallMissing {
		t.Errorf("status = %q, want %q despite forged wire status", got, domain.OverallMissing)
	}
}

func TestNormalizeUnknownVariantStatusIsInconclusive(t *testing.T) {
	raw := `{
  "version": "1.4.2",
  "images": [
    {
      "targetImageName": "api",
      "variants": [
        {"name": "original", "status": "found"},
        {"name": "amd64", "status": "present"}
      ]
    }
  ]
}`
	payload, err := newService().Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	rec := payload.Images[0]
	if rec.Variants[1].Status != domain.CheckError {
		t.Errorf("variant status = %q, want %q", rec.Variants[1].Status, domain.CheckError)
	}
	if rec.Status != domain.OverallError {
		t.Errorf("overall status = %q, want %q", rec.Status, domain.OverallError)
	}
}

func TestNormalizeMergesDuplicateTargetImages(t *testing.T) {
	raw := `{
  "version": "1.4.2",
  "images": [
    {
      "targetImageName": "api",
      "paths": ["api.image"],
      "variants": [{"name": "original", "status": "found"}]
    },
    {
      "targetImageName": "api",
      "paths": ["canary.image", "api.image"],
      "variants": [{"name": "original", "status": "found"}]
    }
  ]
}`
	payload, err := newService().Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(payload.Images) != 1 {
		t.Fatalf("got %d images, want 1 merged record", len(payload.Images))
	}
	paths := payload.Images[0].Paths
	if len(paths) != 2 || paths[0] != "api.image" || paths[1] != "canary.image" {
		t.Errorf("merged paths = %v, want [api.image canary.image]", paths)
	}
}

func TestNormalizeRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed JSON", `{"version": `},
		{"missing version", `{"images": []}`},
		{"missing images", `{"version": "1.0.0"}`},
		{"not an object", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService().Normalize(context.Background(), tt.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !domain.IsPayloadError(err) {
				t.Errorf("error %T is not a PayloadError", err)
			}
		})
	}
}

func TestNormalizeEmptyImagesListIsValid(t *testing.T) {
	payload, err := newService().Normalize(context.Background(), `{"version": "1.0.0", "images": []}`)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(payload.Images) != 0 {
		t.Errorf("got %d images, want 0", len(payload.Images))
	}
}

func TestNormalizeImageWithoutVariantsIsError(t *testing.T) {
	raw := `{"version": "1.0.0", "images": [{"targetImageName": "api", "variants": []}]}`
	payload, err := newService().Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got := payload.Images[0].Status; got != domain.OverallError {
		t.Errorf("status = %q, want %q for unprobed image", got, domain.OverallError)
	}
}
