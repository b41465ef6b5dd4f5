package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a referenced identifier has no row behind it.
// Read paths surface it directly; handlers map it to 404.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing caller input. The ledger
// rejects it before any store access, so a ValidationError never leaves
// partial state behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for one offending field.
func Validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
