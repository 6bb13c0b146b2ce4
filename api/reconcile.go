package api

import "github.com/nathantilsley/release-watch/internal/reconcile/domain"

// ReconcileRequest is the body of POST /reconcile. Values carries the raw
// values document text (or ValuesURL points at it); Images maps dotted keys
// to desired image state.
type ReconcileRequest struct {
	Values    string                      `json:"values,omitempty"`
	ValuesURL string                      `json:"valuesUrl,omitempty"`
	Images    map[string]domain.TagTarget `json:"images"`
}

// ReconcileResponse is the body returned by POST /reconcile.
type ReconcileResponse struct {
	Changes       []domain.TagChange `json:"changes"`
	UpdatedValues string             `json:"updatedValues"`
	Diff          string             `json:"diff,omitempty"`
}

// ValidationRequest is the body of POST /validation. Exactly one of Payload
// (inline JSON) or URL (fetched by the server) should be set.
type ValidationRequest struct {
	Payload any    `json:"payload,omitempty"`
	URL     string `json:"url,omitempty"`
}
