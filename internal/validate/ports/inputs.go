package ports

import (
	"context"

	"github.com/nathantilsley/release-watch/internal/validate/domain"
)

// ValidateUseCase is the driving port for normalizing a raw validation
// payload into canonical records.
type ValidateUseCase interface {
	// Normalize parses raw JSON text into a canonical payload with every
	// overall status recomputed from the variant checks.
	Normalize(ctx context.Context, rawJSON string) (domain.ValidationPayload, error)
}
