// Package apperr holds the error taxonomy shared by services and controllers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation rejects a malformed request before any persistence.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers missing tenant/table/order/session lookups.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a state conflict (e.g. an invalid status transition).
	ErrConflict = errors.New("conflict")
	// ErrOrderNumberExhausted surfaces when order-number allocation still
	// collides after the bounded retry loop.
	ErrOrderNumberExhausted = errors.New("order number allocation exhausted")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}
