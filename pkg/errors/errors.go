package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Request errors
	ErrorTypeAuthentication   ErrorType = "AUTHENTICATION"
	ErrorTypeForbidden        ErrorType = "FORBIDDEN"
	ErrorTypeValidation       ErrorType = "VALIDATION"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeMethodNotAllowed ErrorType = "METHOD_NOT_ALLOWED"
	ErrorTypeConflict         ErrorType = "CONFLICT"

	// Downstream errors
	ErrorTypeThrottling ErrorType = "THROTTLING"
	ErrorTypeExternal   ErrorType = "EXTERNAL"
	ErrorTypeInternal   ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode overrides the envelope error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail entry
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newError(errType ErrorType, status int, code, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Code:       code,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// Constructor functions for the error taxonomy

// NewAuthenticationError creates an error for a missing, invalid or expired token
func NewAuthenticationError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newError(ErrorTypeAuthentication, http.StatusUnauthorized, CodeUnauthorized, message)
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return newError(ErrorTypeForbidden, http.StatusForbidden, CodeForbidden, message)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, CodeValidation, message)
}

// NewFieldError creates a validation error naming the offending field
func NewFieldError(field, message string) *AppError {
	return NewValidationError(fmt.Sprintf("%s %s", field, message)).WithDetail("field", field)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// NewMethodNotAllowedError creates an error for an unsupported HTTP method
func NewMethodNotAllowedError(method string) *AppError {
	return newError(ErrorTypeMethodNotAllowed, http.StatusMethodNotAllowed, CodeMethodNotAllowed,
		fmt.Sprintf("method %s not allowed", method))
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, CodeConflict, message)
}

// NewThrottlingError creates an error for throttled requests
func NewThrottlingError(message string) *AppError {
	if message == "" {
		message = "too many requests"
	}
	return newError(ErrorTypeThrottling, http.StatusTooManyRequests, CodeThrottling, message)
}

// NewExternalError creates an external service error
func NewExternalError(service string, err error) *AppError {
	return newError(ErrorTypeExternal, http.StatusBadGateway, CodeExternal,
		fmt.Sprintf("external service '%s' error", service)).WithCause(err)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, CodeInternal, message)
}

// NewDatabaseError creates an internal error for an unclassified store failure
func NewDatabaseError(operation string, err error) *AppError {
	return NewInternalError(fmt.Sprintf("database operation '%s' failed", operation)).WithCause(err)
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsAuthentication checks if an error is an authentication error
func IsAuthentication(err error) bool {
	return IsType(err, ErrorTypeAuthentication)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsThrottling checks if an error is a throttling error
func IsThrottling(err error) bool {
	return IsType(err, ErrorTypeThrottling)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}
