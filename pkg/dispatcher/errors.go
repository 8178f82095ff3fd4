// Package dispatcher provides standardized error types for command handling.
package dispatcher

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand indicates a command name absent from the handler table.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingField indicates a required request field was absent.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidField indicates a request field carried the wrong shape.
	ErrInvalidField = errors.New("invalid field")
)

// FieldError names the request field that failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsMissingField checks if an error indicates an absent required field.
func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}

// IsUnknownCommand checks if an error indicates an unregistered command.
func IsUnknownCommand(err error) bool {
	return errors.Is(err, ErrUnknownCommand)
}
