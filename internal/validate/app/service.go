package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/nathantilsley/release-watch/api"
	"github.com/nathantilsley/release-watch/internal/validate/domain"
)

// ValidationService implements ports.ValidateUseCase. It turns the raw JSON
// produced by the validation job into canonical records: statuses recomputed
// from variants, duplicate target images merged, unknown variant statuses
// downgraded to inconclusive.
type ValidationService struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewValidationService creates a new ValidationService.
func NewValidationService(logger *slog.Logger, tracer trace.Tracer) *ValidationService {
	return &ValidationService{logger: logger, tracer: tracer}
}

// Normalize parses rawJSON and produces the canonical payload. Malformed JSON
// or missing required top-level fields (version, images) fail the whole call
// with a *domain.PayloadError.
func (s *ValidationService) Normalize(ctx context.Context, rawJSON string) (domain.ValidationPayload, error) {
	_, span := s.tracer.Start(ctx, "validation.normalize")
	defer span.End()

	dec := json.NewDecoder(strings.NewReader(rawJSON))
	var wire api.ValidationPayload
	if err := dec.Decode(&wire); err != nil {
		return domain.ValidationPayload{}, domain.NewPayloadError("malformed JSON", err)
	}
	if wire.Version == "" {
		return domain.ValidationPayload{}, domain.NewPayloadError("missing required field \"version\"", nil)
	}
	if wire.Images == nil {
		return domain.ValidationPayload{}, domain.NewPayloadError("missing required field \"images\"", nil)
	}

	payload := domain.ValidationPayload{
		Version:   wire.Version,
		CheckedAt: wire.CheckedAt,
		Host:      wire.Host,
		Namespace: wire.Namespace,
		Images:    make([]domain.ValidationRecord, 0, len(wire.Images)),
	}

	// The same logical image may appear under several document paths; merge
	// by target image name, unioning the paths.
	byTarget := make(map[string]int)
	for _, img := range wire.Images {
		record := normalizeRecord(img)

		if idx, seen := byTarget[record.TargetImageName]; seen && record.TargetImageName != "" {
			merged := &payload.Images[idx]
			merged.Paths = unionPaths(merged.Paths, record.Paths)
			s.logger.Debug("merged duplicate image record",
				"target", record.TargetImageName,
				"paths", len(merged.Paths),
			)
			continue
		}
		byTarget[record.TargetImageName] = len(payload.Images)
		payload.Images = append(payload.Images, record)
	}

	found, partial, missing, errored := domain.CountByOverallStatus(payload.Images)
	s.logger.Info("normalized validation payload",
		"version", payload.Version,
		"images", len(payload.Images),
		"allFound", found,
		"partial", partial,
		"missing", missing,
		"error", errored,
	)
	return payload, nil
}

// normalizeRecord maps one wire image onto the domain record. The wire status
// field is deliberately ignored; the overall status is always derived.
func normalizeRecord(img api.ValidationImage) domain.ValidationRecord {
	variants := make([]domain.VariantCheck, 0, len(img.Variants))
	for _, v := range img.Variants {
		variants = append(variants, domain.VariantCheck{
			Name:       domain.VariantName(v.Name),
			Tag:        v.Tag,
			Image:      v.Image,
			Status:     domain.NormalizeCheckStatus(v.Status),
			CheckedAt:  v.CheckedAt,
			HTTPStatus: v.HTTPStatus,
			Error:      v.Error,
		})
	}
	return domain.ValidationRecord{
		SourceRepository: img.SourceRepository,
		SourceTag:        img.SourceTag,
		TargetImageName:  img.TargetImageName,
		Paths:            append([]string(nil), img.Paths...),
		Variants:         variants,
		Status:           domain.Aggregate(variants),
	}
}

func unionPaths(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[p] = struct{}{}
	}
	for _, p := range extra {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			existing = append(existing, p)
		}
	}
	return existing
}
