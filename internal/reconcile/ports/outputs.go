package ports

import (
	"context"

	"github.com/nathantilsley/release-watch/internal/reconcile/domain"
)

// Document is a parsed, mutable values document. Implementations must keep
// formatting and comments intact for every node not touched by Set, so the
// serialized output differs from the input only where tags were rewritten.
type Document interface {
	// Has reports whether the path resolves to a node. It returns false,
	// never an error, for any missing intermediate node.
	Has(path domain.Path) bool
	// Get returns the scalar value at the path, or ok=false when the path is
	// missing or does not address a scalar.
	Get(path domain.Path) (value string, ok bool)
	// Set writes a scalar value at the path, creating mapping entries when
	// the tail of the path is absent.
	Set(path domain.Path, value string) error
	// Serialize renders the document back to text.
	Serialize() (string, error)
}

// DocumentParserPort abstracts parsing raw configuration text into a Document,
// separated from the reconciler so the underlying parser/printer can be
// swapped without touching the orchestration.
type DocumentParserPort interface {
	Parse(rawText string) (Document, error)
}

// DiffPort abstracts computing a textual diff between the current and
// reconciled renderings of a values document. Identical inputs yield the
// empty string.
type DiffPort interface {
	ComputeDiff(currentName, reconciledName, current, reconciled string) string
}

// ValuesSourcePort abstracts fetching raw values text from a remote location.
// Whether a caller supplies text inline or a URL to fetch is its own decision.
type ValuesSourcePort interface {
	Fetch(ctx context.Context, url string) (string, error)
}
