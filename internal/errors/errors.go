// Package errors provides the application error type used by the HTTP layer.
// Every error sent to an API client is an AppError; anything else is logged
// and reported as ErrInternal.
package errors

import "net/http"

// AppError is an error with a stable code, a client-facing message and the
// HTTP status it maps to.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a copy of sentinel that carries an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a copy of sentinel with a different message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Malformed requests.
var (
	ErrInvalidJSON     = &AppError{Code: "INVALID_JSON", Message: "invalid JSON", StatusCode: http.StatusBadRequest}
	ErrInvalidID       = &AppError{Code: "INVALID_ID", Message: "invalid id", StatusCode: http.StatusBadRequest}
	ErrInvalidInput    = &AppError{Code: "INVALID_INPUT", Message: "invalid input", StatusCode: http.StatusBadRequest}
	ErrPayloadTooLarge = &AppError{Code: "PAYLOAD_TOO_LARGE", Message: "payload too large", StatusCode: http.StatusBadRequest}
)

// ErrValidation is the template for field rule failures; the message is
// replaced by the failing rule's message.
var ErrValidation = &AppError{Code: "VALIDATION_FAILED", Message: "validation failed", StatusCode: http.StatusBadRequest}

// Not found.
var (
	ErrItemNotFound  = &AppError{Code: "ITEM_NOT_FOUND", Message: "item not found", StatusCode: http.StatusNotFound}
	ErrRouteNotFound = &AppError{Code: "ROUTE_NOT_FOUND", Message: "route not found", StatusCode: http.StatusNotFound}
)

// ErrInternal hides unexpected failures from clients.
var ErrInternal = &AppError{Code: "INTERNAL_ERROR", Message: "internal error", StatusCode: http.StatusInternalServerError}
