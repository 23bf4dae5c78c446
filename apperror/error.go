// Package apperror provides the error taxonomy shared by services and handlers.
// Handlers render an AppError as {"error": message, "code": code}.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeDateBlocked       = "DATE_BLOCKED"
	CodeSlotOccupied      = "SLOT_OCCUPIED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeRemoteCall        = "REMOTE_CALL_FAILURE"

	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the standard error type returned by services.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field names, dates, slots)
	Details map[string]any `json:"details,omitempty"`

	HTTPStatus int   `json:"-"`
	Err        error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// Is matches another AppError by code, so errors.Is(err, &AppError{Code: ...}) works.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidation is returned when a required field is missing or malformed.
func NewValidation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// NewDateBlocked is returned when booking on a blocked calendar date.
func NewDateBlocked(date string) *AppError {
	return New(CodeDateBlocked, "date is blocked for new appointments", http.StatusConflict).
		WithDetail("date", date)
}

// NewSlotOccupied is returned when another scheduled appointment holds the slot.
func NewSlotOccupied(date, slot string) *AppError {
	return New(CodeSlotOccupied, "time slot is already booked", http.StatusConflict).
		WithDetail("date", date).
		WithDetail("time", slot)
}

// NewInvalidTransition is returned when leaving a terminal appointment status.
func NewInvalidTransition(from, to string) *AppError {
	return New(CodeInvalidTransition, fmt.Sprintf("cannot change status from %s to %s", from, to), http.StatusConflict).
		WithDetail("from", from).
		WithDetail("to", to)
}

// NewRemoteCall wraps a failure from an external collaborator.
func NewRemoteCall(service string, err error) *AppError {
	return New(CodeRemoteCall, service+" request failed", http.StatusBadGateway).WithCause(err)
}

func NewNotFound(entity string) *AppError {
	return New(CodeNotFound, entity+" not found", http.StatusNotFound)
}

func NewConflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func NewUnauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewInternal(err error) *AppError {
	return New(CodeInternal, "internal server error", http.StatusInternalServerError).WithCause(err)
}

// AsAppError extracts an AppError from the chain, or nil.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	if appErr := AsAppError(err); appErr != nil {
		return appErr.Code == code
	}
	return false
}

// GetHTTPStatus returns the status for err, 500 for anything that is not an AppError.
func GetHTTPStatus(err error) int {
	if appErr := AsAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
