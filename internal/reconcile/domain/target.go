package domain

import "encoding/json"

// TagTarget is the caller-supplied desired state for one logical image,
// keyed by a dotted path into the values document. Both fields are optional;
// an entry without a usable tag is skipped by the reconciler.
type TagTarget struct {
	Repository string `json:"repository,omitempty"`
	Tag        string `json:"tag,omitempty"`
}

// UnmarshalJSON accepts repository/tag values of any scalar JSON type and
// coerces them through NormalizeScalar, so a numeric tag like 1.21 survives
// the trip from a hand-written JSON body.
func (t *TagTarget) UnmarshalJSON(data []byte) error {
	var raw struct {
		Repository any `json:"repository"`
		Tag        any `json:"tag"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Repository = NormalizeScalar(raw.Repository)
	t.Tag = NormalizeScalar(raw.Tag)
	return nil
}
