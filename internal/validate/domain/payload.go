package domain

import "time"

// ValidationPayload is the full validation result for one chart version,
// created by the external validation job and loaded read-only here.
type ValidationPayload struct {
	Version   string             `json:"version"`
	CheckedAt time.Time          `json:"checkedAt"`
	Host      string             `json:"host"`
	Namespace string             `json:"namespace"`
	Images    []ValidationRecord `json:"images"`
}

// FilterMissing returns a copy of the payload whose record list contains only
// records with an aggregated status of exactly missing. Variant detail is
// never discarded, only record membership, and the input payload is not
// mutated — a cached payload can be filtered per request safely.
func FilterMissing(p ValidationPayload) ValidationPayload {
	out := p
	out.Images = make([]ValidationRecord, 0, len(p.Images))
	for _, r := range p.Images {
		if r.Status == OverallMissing {
			out.Images = append(out.Images, r)
		}
	}
	return out
}
