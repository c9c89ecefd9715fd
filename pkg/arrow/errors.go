package arrow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyRegistered is returned when a key is registered twice
	ErrAlreadyRegistered = errors.New("dependency is already registered")

	// ErrNotFound is returned when a key has no registration
	ErrNotFound = errors.New("dependency not found")

	// ErrTypeMismatch is returned when a stored instance does not have the requested type
	ErrTypeMismatch = errors.New("dependency has unexpected type")
)

// RegistrationError describes a failed registration
type RegistrationError struct {
	Key   Key
	Cause error
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	if errors.Is(e.Cause, ErrAlreadyRegistered) {
		return fmt.Sprintf("dependency %s is already registered", e.Key)
	}
	return fmt.Sprintf("failed to register dependency %s: %v", e.Key, e.Cause)
}

// Unwrap returns the underlying cause
func (e *RegistrationError) Unwrap() error {
	return e.Cause
}

// NotFoundError describes a resolution miss together with the registered keys
// that look like the requested one
type NotFoundError struct {
	Key     Key
	Similar []string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	header := fmt.Sprintf("dependency not found for type '%s' with name '%s'", typeName(e.Key.Type), e.Key)
	if len(e.Similar) == 0 {
		return header + ". No similar dependencies registered."
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(".\n\nSimilar registered dependencies:")
	for _, s := range e.Similar {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

// Unwrap makes errors.Is(err, ErrNotFound) work
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ResolutionError wraps a factory failure for a transient dependency
type ResolutionError struct {
	Key   Key
	Cause error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve dependency %s: %v", e.Key, e.Cause)
}

// Unwrap returns the underlying cause
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}
