package ports

import (
	"context"

	"github.com/nathantilsley/release-watch/internal/reconcile/domain"
)

// ReconcileUseCase is the driving port for reconciling a values document
// against a desired image-tag map.
type ReconcileUseCase interface {
	Reconcile(ctx context.Context, rawText string, images map[string]domain.TagTarget) (domain.ReconcileResult, error)
}
