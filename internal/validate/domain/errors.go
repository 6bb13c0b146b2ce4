package domain

import (
	"errors"
	"fmt"
)

// PayloadError reports a validation payload that is not well-formed JSON or
// is missing required top-level fields. Fatal to normalization; no partial
// payload is returned.
type PayloadError struct {
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing validation payload: %s: %s", e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing validation payload: %s", e.Reason)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// NewPayloadError creates a PayloadError with an optional cause.
func NewPayloadError(reason string, err error) *PayloadError {
	return &PayloadError{Reason: reason, Err: err}
}

// IsPayloadError reports whether err is (or wraps) a PayloadError.
func IsPayloadError(err error) bool {
	var pe *PayloadError
	return errors.As(err, &pe)
}
