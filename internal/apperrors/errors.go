package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a referenced patient, bill, payment or line item
// does not exist or has already been voided.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a concurrent update was detected while writing derived state.
var ErrConflict = errors.New("conflicting update")

// ErrDuplicateCorrelationID indicates the store rejected a bill correlation id.
// The caller is expected to retry with a fresh id.
var ErrDuplicateCorrelationID = fmt.Errorf("%w: duplicate correlation id", ErrConflict)

// ErrStore indicates the underlying unit of work could not be completed.
var ErrStore = errors.New("store error")

// ErrUnauthorized indicates the acting user could not be resolved.
var ErrUnauthorized = errors.New("unauthorized")

// AppError couples a status code with an underlying sentinel or driver error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError. A 500 code with a non-sentinel cause is
// classified as a store failure so callers can match it with errors.Is.
func NewAppError(code int, message string, err error) *AppError {
	if code >= http.StatusInternalServerError && !isSentinel(err) {
		if err == nil {
			err = ErrStore
		} else {
			err = fmt.Errorf("%w: %w", ErrStore, err)
		}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewConflictError builds a 409 AppError wrapping ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

func isSentinel(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStore)
}

// HTTPStatus maps an error chain to the status code the API layer reports.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns a short machine-readable name for the error class.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrDuplicateCorrelationID):
		return "DuplicateCorrelationId"
	case errors.Is(err, ErrConflict):
		return "ConflictError"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	default:
		return "StoreError"
	}
}
