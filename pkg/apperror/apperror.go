// Package apperror defines the error taxonomy shared by the rule services and
// the pricing engine. None of these errors are transient.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation_error")
	ErrNotFound     = errors.New("not_found")
	ErrInvalidInput = errors.New("invalid_input")
)

// ValidationError rejects a write because one field failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation_error: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidInputError rejects a calculator call with a structurally invalid argument.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid_input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func InvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// FieldOf returns the offending field of a validation or invalid-input error.
func FieldOf(err error) (string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Field, true
	}
	var ierr *InvalidInputError
	if errors.As(err, &ierr) {
		return ierr.Field, true
	}
	return "", false
}
