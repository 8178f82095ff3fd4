// Package resolver provides standardized error types for symbol resolution.
package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProgramNotFound indicates no program with the given name is registered.
	ErrProgramNotFound = errors.New("program not found")

	// ErrGraphNotFound indicates a program has no graph with the requested role.
	ErrGraphNotFound = errors.New("graph not found")

	// ErrSymbolNotFound indicates no callable matched after every fallback step.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// SymbolError reports a failed callable resolution together with every type
// that was searched, so callers can see how far the fallback chain got.
type SymbolError struct {
	Name          string
	SearchedTypes []string
	Err           error
}

func (e *SymbolError) Error() string {
	if len(e.SearchedTypes) == 0 {
		return fmt.Sprintf("symbol %q not found", e.Name)
	}

	return fmt.Sprintf("symbol %q not found (searched: %s)", e.Name, strings.Join(e.SearchedTypes, ", "))
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

func (e *SymbolError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsProgramNotFound checks if an error indicates a missing program.
func IsProgramNotFound(err error) bool {
	return errors.Is(err, ErrProgramNotFound)
}

// IsSymbolNotFound checks if an error indicates a failed symbol resolution.
func IsSymbolNotFound(err error) bool {
	return errors.Is(err, ErrSymbolNotFound)
}
