package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed or out-of-range input before
	// anything is persisted.
	ErrValidation = errors.New("validation failed")

	// ErrQuoteUnavailable is returned when the price oracle cannot produce a
	// quote. Refresh callers treat it as non-fatal: the cached price stays.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
