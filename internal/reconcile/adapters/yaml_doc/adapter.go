package yamldoc

import (
	"github.com/nathantilsley/release-watch/internal/reconcile/ports"
)

// Adapter implements ports.DocumentParserPort on the yaml.v3-backed Document.
type Adapter struct{}

// New creates a new document parser adapter.
func New() *Adapter {
	return &Adapter{}
}

// Parse sanitizes and parses raw values text into a Document.
func (a *Adapter) Parse(rawText string) (ports.Document, error) {
	doc, err := Parse(rawText)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
