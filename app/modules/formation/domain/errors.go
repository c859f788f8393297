package formationdomain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the formation services.
var (
	// ErrNotFound is returned when a referenced entity id no longer
	// resolves during a direct load. Missing references encountered during
	// flattening or playback are skipped instead.
	ErrNotFound = errors.New("referenced entity not found")

	// ErrBusy is returned when playback or reordering is requested while
	// another operation is still in flight.
	ErrBusy = errors.New("another operation is in flight")
)

// ValidationError reports a rejected write. No state is mutated when one
// is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
