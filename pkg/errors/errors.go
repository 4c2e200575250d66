package errors

import (
	"fmt"
	"net/http"
)

// Error codes used across the chat backend
const (
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
	CodeClassificationFailed = "CLASSIFICATION_FAILED"
	CodeGenerationFailed     = "GENERATION_FAILED"
	CodeInternal             = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewNotFoundError reports an absent session or resource (404)
func NewNotFoundError(message string) *AppError {
	return NewError(http.StatusNotFound, CodeNotFound, message)
}

// NewInvalidInputError reports a malformed or empty required field (400)
func NewInvalidInputError(message string) *AppError {
	return NewError(http.StatusBadRequest, CodeInvalidInput, message)
}

// NewStorageUnavailableError reports a cache or database failure (503).
// The underlying error is attached as details for diagnostics.
func NewStorageUnavailableError(message string, cause error) *AppError {
	appErr := NewError(http.StatusServiceUnavailable, CodeStorageUnavailable, message)
	if cause != nil {
		appErr.Details = cause.Error()
	}
	return appErr
}

// NewClassificationFailedError reports an intent-detection model failure (502)
func NewClassificationFailedError(message string, cause error) *AppError {
	appErr := NewError(http.StatusBadGateway, CodeClassificationFailed, message)
	if cause != nil {
		appErr.Details = cause.Error()
	}
	return appErr
}

// NewGenerationFailedError reports a reply-generation model failure (502)
func NewGenerationFailedError(message string, cause error) *AppError {
	appErr := NewError(http.StatusBadGateway, CodeGenerationFailed, message)
	if cause != nil {
		appErr.Details = cause.Error()
	}
	return appErr
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(message string) *AppError {
	return NewError(http.StatusInternalServerError, CodeInternal, message)
}

// Is checks whether err is an AppError carrying the given code
func Is(err error, code string) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Code == code
}

// FromError converts a standard error to an AppError.
// If the error is already an AppError, it is returned as-is.
// Otherwise it is wrapped as an internal server error with the diagnostic
// message kept in details rather than leaked as the message.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalServerError("An unexpected error occurred").WithDetails(err.Error())
}

// GetStatusCode extracts the HTTP status code from an AppError, returns 500 if not an AppError
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorCode extracts the error code from an AppError, returns "UNKNOWN_ERROR" if not an AppError
func GetErrorCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}
