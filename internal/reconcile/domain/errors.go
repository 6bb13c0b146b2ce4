package domain

import (
	"errors"
	"fmt"
)

// ParseError reports the first structural fault encountered while parsing a
// values document. Line is 1-based and zero when the underlying parser did not
// supply a position. A parse failure aborts the whole reconciliation; a
// partially patched values file would be worse than no change.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing values document: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("parsing values document: %s", e.Msg)
}

// NewParseError creates a ParseError with an optional line position.
func NewParseError(line int, msg string) *ParseError {
	return &ParseError{Line: line, Msg: msg}
}

// IsParseError reports whether err is (or wraps) a document ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
