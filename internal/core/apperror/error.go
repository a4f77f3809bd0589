// Package apperror provides structured error handling for the inventory core.
// All business errors must use AppError so callers can render precise messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the ledger error taxonomy.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidMovement = "INVALID_MOVEMENT"

	// Business rule violations (422)
	CodeInsufficientStock = "INSUFFICIENT_STOCK"

	// Concurrency (409)
	CodeConcurrencyConflict  = "CONCURRENCY_CONFLICT"
	CodeSerializationFailure = "SERIALIZATION_FAILURE"

	// Referential integrity (409)
	CodeReferentialIntegrity = "REFERENTIAL_INTEGRITY_VIOLATION"
	CodeDuplicate            = "DUPLICATE_ENTRY"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the service.
// It implements the error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (ids, quantities, balances)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for the taxonomy ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInvalidMovement creates an invalid movement error (bad type, direction or qty).
func NewInvalidMovement(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidMovement,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInsufficientStock creates a stock shortage error.
// Carries the product, the attempted delta and the balance the caller saw.
func NewInsufficientStock(productID string, delta, available int64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "Insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id": productID,
			"delta":      delta,
			"available":  available,
		},
	}
}

// NewConcurrencyConflict is returned when the ledger transaction could not be
// serialized after bounded retries.
func NewConcurrencyConflict(productID string) *AppError {
	return &AppError{
		Code:       CodeConcurrencyConflict,
		Message:    "Movement could not be applied due to concurrent updates. Please retry.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"product_id": productID},
	}
}

// NewSerializationFailure tags a retryable transaction fault (serialization
// failure, deadlock abort, statement timeout). The ledger engine retries these
// and converts them to ConcurrencyConflict when retries are exhausted.
func NewSerializationFailure(err error) *AppError {
	return &AppError{
		Code:       CodeSerializationFailure,
		Message:    "Transaction could not be serialized",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

// NewReferentialIntegrity creates a blocked structural deletion error.
func NewReferentialIntegrity(entity string, id any, dependents int64) *AppError {
	return &AppError{
		Code:       CodeReferentialIntegrity,
		Message:    fmt.Sprintf("%s is still referenced and cannot be deleted", entity),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id, "dependents": dependents},
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsCode checks whether err carries the given error code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsRetryableTx reports whether the error is a transient transaction fault
// worth retrying from scratch.
func IsRetryableTx(err error) bool {
	return IsCode(err, CodeSerializationFailure)
}
