// Package api defines the wire schemas exchanged with release-watch:
// the validation payload produced by the image validation job and the
// reconcile request/response bodies.
package api

import "time"

// ValidationPayload is the top-level schema of the validation JSON produced
// once per chart version by the validation job.
type ValidationPayload struct {
	Version   string            `json:"version"`
	CheckedAt time.Time         `json:"checkedAt"`
	Host      string            `json:"host"`
	Namespace string            `json:"namespace"`
	Images    []ValidationImage `json:"images"`
}

// ValidationImage is one image entry of the payload. Status is accepted on
// input but always recomputed from the variants during normalization, so a
// tampered payload cannot carry a forged overall status.
type ValidationImage struct {
	SourceRepository string         `json:"sourceRepository"`
	SourceTag        string         `json:"sourceTag"`
	TargetImageName  string         `json:"targetImageName"`
	Paths            []string       `json:"paths"`
	Variants         []ImageVariant `json:"variants"`
	Status           string         `json:"status,omitempty"`
}

// ImageVariant is one per-architecture existence check inside a payload.
type ImageVariant struct {
	Name       string    `json:"name"`
	Tag        string    `json:"tag"`
	Image      string    `json:"image"`
	Status     string    `json:"status"`
	CheckedAt  time.Time `json:"checkedAt"`
	HTTPStatus int       `json:"httpStatus,omitempty"`
	Error      string    `json:"error,omitempty"`
}
