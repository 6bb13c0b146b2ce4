package domain

// OverallStatus is the aggregated existence verdict for one image across all
// of its checked variants. It is always derived from the variants, never set
// from external input.
type OverallStatus string

const (
	OverallAllFound OverallStatus = "all_found"
	OverallPartial  OverallStatus = "partial"
	OverallMissing  OverallStatus = "missing"
	OverallError    OverallStatus = "error"
)

// ValidationRecord aggregates every check for one logical image. Paths lists
// each document location (dotted key) that referenced the image; the same
// image referenced from several locations is deduplicated into one record.
type ValidationRecord struct {
	SourceRepository string         `json:"sourceRepository"`
	SourceTag        string         `json:"sourceTag"`
	TargetImageName  string         `json:"targetImageName"`
	Paths            []string       `json:"paths"`
	Variants         []VariantCheck `json:"variants"`
	Status           OverallStatus  `json:"status"`
}

// Aggregate computes the overall status of one image from its per-variant
// results. Precedence, in order:
//
//  1. any variant errored — the check is inconclusive, so the record is too
//  2. every variant found
//  3. the original reference found — a multi-architecture manifest satisfies
//     usability even when architecture-specific tags are absent
//  4. every variant missing
//  5. otherwise a genuine mix
//
// An empty variant list means nothing was probed, which is inconclusive.
// Aggregate is total: any combination of inputs maps to exactly one status.
func Aggregate(variants []VariantCheck) OverallStatus {
	if len(variants) == 0 {
		return OverallError
	}

	allFound := true
	allMissing := true
	originalFound := false
	for _, v := range variants {
		switch v.Status {
		case CheckError:
			return OverallError
		case CheckFound:
			allMissing = false
			if v.Name == VariantOriginal {
				originalFound = true
			}
		default:
			allFound = false
		}
	}

	switch {
	case allFound:
		return OverallAllFound
	case originalFound:
		return OverallPartial
	case allMissing:
		return OverallMissing
	default:
		return OverallPartial
	}
}

// CountByOverallStatus returns counts of records grouped by overall status.
func CountByOverallStatus(records []ValidationRecord) (found, partial, missing, errored int) {
	for _, r := range records {
		switch r.Status {
		case OverallAllFound:
			found++
		case OverallPartial:
			partial++
		case OverallMissing:
			missing++
		case OverallError:
			errored++
		}
	}
	return
}
