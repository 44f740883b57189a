package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/trelloflash/internal/session"
	"github.com/vytor/trelloflash/internal/trello"
)

// Error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeServiceUnreachable = "SERVICE_UNREACHABLE"
	ErrCodeOutOfRange         = "OUT_OF_RANGE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "UNAUTHORIZED")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewConflictError creates a new CONFLICT error
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewUnauthorizedError signals that the stored Trello token was rejected.
// Clients are expected to ask the user to authorize again.
func NewUnauthorizedError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: "trello rejected the stored credentials, authorize again",
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

// NewServiceUnreachableError signals that Trello could not be reached or
// answered with something unusable.
func NewServiceUnreachableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeServiceUnreachable,
		Message: "trello is not accessible, try again later",
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// NewOutOfRangeError reports a deck position outside the session deck.
func NewOutOfRangeError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeOutOfRange,
		Message: "card position is outside the session deck",
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// FromDomain converts a Trello client or session error into an
// AppError. Errors that are neither kind become internal errors.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch {
	case stderrors.Is(err, trello.ErrUnauthorized):
		return NewUnauthorizedError(err)
	case stderrors.Is(err, trello.ErrServiceUnreachable):
		return NewServiceUnreachableError(err)
	case stderrors.Is(err, session.ErrOutOfRange):
		return NewOutOfRangeError(err)
	default:
		return NewInternalError(err)
	}
}

// As is a convenience wrapper so callers importing this package as
// "errors" can still unwrap AppErrors.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromValidation turns validator output into a VALIDATION_ERROR naming the
// first offending field. Other errors become bad requests.
func FromValidation(err error) *AppError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return NewBadRequestError(err.Error())
	}
	fe := verrs[0]
	reason := fe.Tag()
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min", "gte":
		reason = "must be at least " + fe.Param()
	case "max", "lte":
		reason = "must be at most " + fe.Param()
	case "oneof":
		reason = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return NewValidationError(fe.Field(), reason)
}
