package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathantilsley/release-watch/internal/reconcile/domain"
	"github.com/nathantilsley/release-watch/internal/reconcile/ports"
)

const imageKey = "image"
const tagKey = "tag"

// ReconcileService implements ports.ReconcileUseCase by orchestrating the full
// reconciliation workflow: parse the values document, resolve each image entry
// to a path, rewrite the tag in place, and serialize the minimally-changed text.
type ReconcileService struct {
	parser  ports.DocumentParserPort
	differ  ports.DiffPort
	logger  *slog.Logger
	tracer  trace.Tracer
	changes metric.Int64Counter
}

// NewReconcileService creates a new ReconcileService wired with its driven ports.
func NewReconcileService(
	parser ports.DocumentParserPort,
	differ ports.DiffPort,
	logger *slog.Logger,
	meter metric.Meter,
	tracer trace.Tracer,
) *ReconcileService {
	changes, err := meter.Int64Counter("reconcile.changes",
		metric.WithDescription("Tag change records produced, by status"),
	)
	if err != nil {
		logger.Warn("failed to create changes counter", "error", err)
	}
	return &ReconcileService{
		parser:  parser,
		differ:  differ,
		logger:  logger,
		tracer:  tracer,
		changes: changes,
	}
}

// Reconcile rewrites tag values in rawText to match the image map and returns
// the ordered change ledger together with the updated text. A parse failure
// aborts the whole call before any image is processed.
func (s *ReconcileService) Reconcile(
	ctx context.Context,
	rawText string,
	images map[string]domain.TagTarget,
) (domain.ReconcileResult, error) {
	ctx, span := s.tracer.Start(ctx, "reconcile")
	defer span.End()

	doc, err := s.parser.Parse(rawText)
	if err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("parsing values document: %w", err)
	}

	original, err := doc.Serialize()
	if err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("serializing values document: %w", err)
	}

	// Go maps have no iteration order; sorting the keys keeps the ledger
	// deterministic across calls.
	keys := make([]string, 0, len(images))
	for k := range images {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	changes := make([]domain.TagChange, 0, len(keys))
	for _, key := range keys {
		change, ok := s.reconcileEntry(doc, key, images[key])
		if !ok {
			s.logger.Debug("skipping entry without usable tag", "key", key)
			continue
		}
		s.logger.Info("reconciled image entry",
			"key", change.Key,
			"path", change.Path,
			"status", change.Status.String(),
		)
		if s.changes != nil {
			s.changes.Add(ctx, 1, metric.WithAttributes(
				attribute.String("status", change.Status.String()),
			))
		}
		changes = append(changes, change)
	}

	updated, err := doc.Serialize()
	if err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("serializing values document: %w", err)
	}

	var diff string
	if s.differ != nil && updated != original {
		diff = s.differ.ComputeDiff("values.yaml (current)", "values.yaml (reconciled)",
			original, updated)
	}

	u, n, m := domain.CountByStatus(changes)
	s.logger.Info("reconciliation complete", "updated", u, "unchanged", n, "missing", m)

	return domain.ReconcileResult{
		Changes:     changes,
		UpdatedText: updated,
		Diff:        diff,
	}, nil
}

// reconcileEntry handles one (key, target) pair. The nested image block
// (<key>.image.tag) is the common chart convention and is tried first; the
// flat <key>.tag form is the fallback. Entries without a usable tag produce
// no record at all.
func (s *ReconcileService) reconcileEntry(
	doc ports.Document,
	key string,
	target domain.TagTarget,
) (domain.TagChange, bool) {
	newTag := domain.NormalizeScalar(target.Tag)
	if newTag == "" {
		return domain.TagChange{}, false
	}

	base := domain.ParsePath(key)
	imagePath := base.Child(imageKey, tagKey)
	directPath := base.Child(tagKey)

	path := imagePath
	if !doc.Has(imagePath) {
		if doc.Has(directPath) {
			path = directPath
		} else {
			return domain.TagChange{
				Key:        key,
				Path:       imagePath.String(),
				Repository: target.Repository,
				OldTag:     nil,
				NewTag:     newTag,
				Status:     domain.StatusMissing,
			}, true
		}
	}

	raw, _ := doc.Get(path)
	oldTag := domain.NormalizeScalar(raw)

	status := domain.StatusUpdated
	if oldTag == newTag {
		status = domain.StatusUnchanged
	}
	if err := doc.Set(path, newTag); err != nil {
		// Set on an existing path only fails for malformed documents the
		// parser already tolerated; surface it as a missing-style record.
		s.logger.Warn("failed to write tag", "key", key, "path", path.String(), "error", err)
	}

	return domain.TagChange{
		Key:        key,
		Path:       path.String(),
		Repository: target.Repository,
		OldTag:     &oldTag,
		NewTag:     newTag,
		Status:     status,
	}, true
}
