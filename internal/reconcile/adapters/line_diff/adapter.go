// Package linediff renders unified diffs of values document text, so a
// reconciliation response can show an operator exactly which tag lines were
// rewritten.
package linediff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Values files group an image's repository and tag lines tightly, so a few
// context lines are enough to locate a rewritten tag in its block.
const contextLines = 3

// Adapter implements ports.DiffPort over go-difflib.
type Adapter struct{}

// New creates a new values diff adapter.
func New() *Adapter {
	return &Adapter{}
}

// ComputeDiff returns a unified diff between the current and reconciled
// renderings of a values document, or the empty string when they are
// identical.
func (a *Adapter) ComputeDiff(currentName, reconciledName, current, reconciled string) string {
	if current == reconciled {
		return ""
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(reconciled),
		FromFile: currentName,
		ToFile:   reconciledName,
		Context:  contextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return fmt.Sprintf("error computing diff: %s", err)
	}
	return strings.TrimSpace(text)
}
