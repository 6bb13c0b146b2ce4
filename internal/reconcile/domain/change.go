package domain

import "fmt"

// ChangeStatus represents the outcome of reconciling one image entry.
type ChangeStatus int

const (
	StatusUpdated   ChangeStatus = iota // Value at the resolved path was rewritten
	StatusUnchanged                     // Existing value already matched the target tag
	StatusMissing                       // Neither candidate path exists in the document
)

var changeStatusNames = [...]string{
	StatusUpdated:   "updated",
	StatusUnchanged: "unchanged",
	StatusMissing:   "missing",
}

// String returns the string representation of the ChangeStatus.
// Implements the Stringer interface.
func (s ChangeStatus) String() string {
	if s < 0 || int(s) >= len(changeStatusNames) {
		return "unknown"
	}
	return changeStatusNames[s]
}

// MarshalJSON renders the status as its lowercase name so the change ledger
// serializes the way API clients expect.
func (s ChangeStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses a lowercase status name.
func (s *ChangeStatus) UnmarshalJSON(data []byte) error {
	for i, name := range changeStatusNames {
		if string(data) == `"`+name+`"` {
			*s = ChangeStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown change status %s", data)
}

// TagChange is one entry of the change ledger. OldTag is nil when the status
// is missing; Path always reflects the path actually used, or the first
// candidate path when none existed.
type TagChange struct {
	Key        string       `json:"key"`
	Path       string       `json:"path"`
	Repository string       `json:"repository,omitempty"`
	OldTag     *string      `json:"oldTag"`
	NewTag     string       `json:"newTag"`
	Status     ChangeStatus `json:"status"`
}

// ReconcileResult pairs the ordered change ledger with the rewritten document
// text and a unified-diff preview of the edit.
type ReconcileResult struct {
	Changes     []TagChange `json:"changes"`
	UpdatedText string      `json:"updatedValues"`
	Diff        string      `json:"diff,omitempty"`
}

// CountByStatus returns counts of changes grouped by status.
func CountByStatus(changes []TagChange) (updated, unchanged, missing int) {
	for _, c := range changes {
		switch c.Status {
		case StatusUpdated:
			updated++
		case StatusUnchanged:
			unchanged++
		case StatusMissing:
			missing++
		}
	}
	return
}
