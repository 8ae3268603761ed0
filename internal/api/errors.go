package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/courier/internal/api/shared"
	"github.com/phrazzld/courier/internal/domain"
	"github.com/phrazzld/courier/internal/events"
	"github.com/phrazzld/courier/internal/service"
	"github.com/phrazzld/courier/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrResultNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrDispatchFailed),
		errors.Is(err, events.ErrNotAccepted),
		errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()

	case errors.Is(err, service.ErrRequestNotFound):
		return "Request not found"

	case errors.Is(err, service.ErrResultNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Result not available"

	case errors.Is(err, service.ErrDispatchFailed),
		errors.Is(err, events.ErrNotAccepted),
		errors.Is(err, store.ErrUnavailable):
		return "Service temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	var opts []shared.ResponseOption
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) && validationErr.Field != "" {
		opts = append(opts, shared.WithField(validationErr.Field))
	}

	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, opts...)
}
