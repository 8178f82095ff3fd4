// Package coerce provides standardized error types for value coercion.
package coerce

import (
	"errors"
	"fmt"

	"github.com/graphsmith/graphsmith/pkg/models"
)

var (
	// ErrArityMismatch indicates a structured value had the wrong number of elements.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrUnresolvedReference indicates a class reference named no known type.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrAssignmentRejected indicates the port refused the resolved class on readback.
	ErrAssignmentRejected = errors.New("assignment rejected")

	// ErrUnsupportedType indicates the declared port type has no coercion rule.
	ErrUnsupportedType = errors.New("unsupported port type")

	// ErrInvalidValue indicates the raw value cannot satisfy the declared type.
	ErrInvalidValue = errors.New("invalid value")
)

// CoercionError wraps coercion failures with the declared type and raw shape
// that collided.
type CoercionError struct {
	Declared models.PortType
	Raw      Kind
	Detail   string
	Err      error
}

func (e *CoercionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot coerce %s value to %s port: %s", e.Raw, e.Declared.Category, e.Detail)
	}

	return fmt.Sprintf("cannot coerce %s value to %s port: %v", e.Raw, e.Declared.Category, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

func (e *CoercionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newCoercionError(declared models.PortType, raw Kind, err error, detail string) *CoercionError {
	return &CoercionError{Declared: declared, Raw: raw, Detail: detail, Err: err}
}

// IsArityMismatch checks if an error indicates a structured-value arity problem.
func IsArityMismatch(err error) bool {
	return errors.Is(err, ErrArityMismatch)
}

// IsUnresolvedReference checks if an error indicates an unresolvable class name.
func IsUnresolvedReference(err error) bool {
	return errors.Is(err, ErrUnresolvedReference)
}
