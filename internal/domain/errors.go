package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound         = errors.New("domain: not found")
	ErrInvalidEnumValue = errors.New("domain: invalid enum value")
	ErrInvalidFormat    = errors.New("domain: invalid format")
	ErrExtractionFailed = errors.New("domain: extraction failed")
)

// FieldError reports a rejected value for one interaction field.
// errors.Is matches the wrapped sentinel.
type FieldError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }
