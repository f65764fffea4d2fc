package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types for the application
var (
	// ErrDomainNotAllowed is returned when an email's domain is not on the allow-list
	ErrDomainNotAllowed = errors.New("email domain not allowed")

	// ErrUserNotRegistered is returned when the email is not present in the user sheet
	ErrUserNotRegistered = errors.New("user not registered")

	// ErrUnauthorized is returned when authentication is missing or invalid
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the requester lacks the required privilege
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidField is returned when a record field fails validation
	ErrInvalidField = errors.New("invalid field")

	// ErrNotFound is returned when a business key resolves to no row
	ErrNotFound = errors.New("resource not found")

	// ErrRemoteUnavailable is returned when a row-store call fails
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrSchemaMismatch is returned when a record does not line up with the sheet header
	ErrSchemaMismatch = errors.New("sheet schema mismatch")

	// ErrBadRequest is returned when the request is malformed
	ErrBadRequest = errors.New("bad request")
)

// Auth-specific errors
var (
	// ErrTokenExpired is returned when a JWT token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken is returned when a JWT token is invalid
	ErrInvalidToken = errors.New("invalid token")
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// As is a convenience wrapper around errors.As for AppError
func As(err error, target **AppError) bool {
	return errors.As(err, target)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// New creates a new AppError
func New(err error, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
	}
}

// DomainNotAllowed creates an error for a rejected email domain
func DomainNotAllowed(email string) *AppError {
	return &AppError{
		Err:        ErrDomainNotAllowed,
		Message:    fmt.Sprintf("email %q does not belong to an allowed domain", email),
		StatusCode: http.StatusForbidden,
	}
}

// UserNotRegistered creates an error for an unknown user email
func UserNotRegistered(email string) *AppError {
	return &AppError{
		Err:        ErrUserNotRegistered,
		Message:    fmt.Sprintf("no registered user for %q", email),
		StatusCode: http.StatusUnauthorized,
	}
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return &AppError{
		Err:        ErrForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// InvalidField creates a validation error naming the offending field
func InvalidField(field, reason string) *AppError {
	return &AppError{
		Err:        ErrInvalidField,
		Message:    fmt.Sprintf("invalid field %q: %s", field, reason),
		StatusCode: http.StatusBadRequest,
		Details:    map[string]interface{}{"field": field, "reason": reason},
	}
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

// RemoteUnavailable wraps a failed row-store call
func RemoteUnavailable(err error) *AppError {
	return &AppError{
		Err:        ErrRemoteUnavailable,
		Message:    fmt.Sprintf("row store unavailable: %v", err),
		StatusCode: http.StatusServiceUnavailable,
	}
}

// SchemaMismatch creates an error for a sheet whose columns drifted
func SchemaMismatch(detail string) *AppError {
	return &AppError{
		Err:        ErrSchemaMismatch,
		Message:    fmt.Sprintf("sheet schema mismatch: %s", detail),
		StatusCode: http.StatusBadGateway,
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// FieldName extracts the offending field from an InvalidField error, if any
func FieldName(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Details != nil {
		if f, ok := appErr.Details["field"].(string); ok {
			return f
		}
	}
	return ""
}

// HTTPStatusCode returns the appropriate HTTP status code for an error
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUserNotRegistered),
		errors.Is(err, ErrTokenExpired), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrDomainNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidField), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrSchemaMismatch):
		return http.StatusBadGateway
	case errors.Is(err, ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
