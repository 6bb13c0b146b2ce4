// Package domain holds the image validation model: per-architecture variant
// checks, their aggregation into an overall status, and the validation payload
// produced once per chart version by the external validation job.
package domain

import "time"

// VariantName identifies which form of an image reference was checked.
type VariantName string

const (
	VariantOriginal VariantName = "original" // the reference exactly as published
	VariantAMD64    VariantName = "amd64"
	VariantARM64    VariantName = "arm64"
)

// CheckStatus is the outcome of one registry existence probe.
type CheckStatus string

const (
	CheckFound   CheckStatus = "found"
	CheckMissing CheckStatus = "missing"
	CheckError   CheckStatus = "error" // probe was inconclusive, not a content fact
)

// VariantCheck is one completed registry probe. Immutable once produced by
// the probing collaborator; the core performs no network I/O itself.
type VariantCheck struct {
	Name       VariantName `json:"name"`
	Tag        string      `json:"tag"`
	Image      string      `json:"image"`
	Status     CheckStatus `json:"status"`
	CheckedAt  time.Time   `json:"checkedAt"`
	HTTPStatus int         `json:"httpStatus,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// NormalizeCheckStatus maps an arbitrary wire status string onto the known
// set. Anything unrecognized is treated as an inconclusive probe rather than
// failing the whole payload.
func NormalizeCheckStatus(raw string) CheckStatus {
	switch CheckStatus(raw) {
	case CheckFound, CheckMissing, CheckError:
		return CheckStatus(raw)
	default:
		return CheckError
	}
}
