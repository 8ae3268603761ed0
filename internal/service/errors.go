package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services. The API layer maps them to HTTP
// status codes.
var (
	// ErrRequestNotFound indicates no request with the given ID was accepted.
	ErrRequestNotFound = errors.New("request not found")

	// ErrResultNotFound indicates the request exists (or existed) but has no
	// stored result yet.
	ErrResultNotFound = errors.New("result not found")

	// ErrDispatchFailed indicates the task could not be handed to the
	// dispatcher. No work was started.
	ErrDispatchFailed = errors.New("failed to dispatch request")
)

// ServiceError wraps errors from services with the failed operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "request_generation")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. A nil err yields nil.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
