// internal/estimation/estimation.go

// Package estimation holds the error contract shared by the pure calculation
// cores in the roi and roas subpackages. The cores validate before computing,
// return no partial results, and never log or retry on their own.
package estimation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel all input validation failures unwrap to.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the offending field and the constraint it violated.
// Field names match the JSON names of the input records.
type InvalidInputError struct {
	Field      string
	Constraint string
}

func NewInvalidInput(field, constraint string) *InvalidInputError {
	return &InvalidInputError{Field: field, Constraint: constraint}
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Constraint)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// IsInvalidInput reports whether err is (or wraps) an input validation failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// AsInvalidInput extracts the typed error when present.
func AsInvalidInput(err error) (*InvalidInputError, bool) {
	var iie *InvalidInputError
	if errors.As(err, &iie) {
		return iie, true
	}
	return nil, false
}
