package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when no value is stored under the key.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when a value cannot be stored, either
	// because the namespace or key is malformed or the value does not encode
	// to JSON. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUnavailable is returned when the backend cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Namespace string // The namespace addressed
	Operation string // The operation that failed (e.g., "set", "get")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Namespace,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Namespace, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given namespace, operation, message, and wrapped error.
func NewStoreError(namespace, operation, message string, err error) *StoreError {
	return &StoreError{
		Namespace: namespace,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
