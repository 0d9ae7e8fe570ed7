package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"go-complexity-inspector/internal/analyzer"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation           ErrorType = "validation"
	ErrorTypeNetwork              ErrorType = "network"
	ErrorTypeProcessing           ErrorType = "processing"
	ErrorTypeTimeout              ErrorType = "timeout"
	ErrorTypeNotFound             ErrorType = "not_found"
	ErrorTypeInternal             ErrorType = "internal"
	ErrorTypeInvalidInput         ErrorType = "invalid_input"
	ErrorTypeInvalidConfiguration ErrorType = "invalid_configuration"
	ErrorTypeInsufficientData     ErrorType = "insufficient_data"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
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

func newError(errorType ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       errorType,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message, cause)
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return newError(ErrorTypeNetwork, http.StatusBadGateway, message, cause)
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return newError(ErrorTypeProcessing, http.StatusUnprocessableEntity, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return newError(ErrorTypeTimeout, http.StatusGatewayTimeout, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message, cause)
}

// NewInvalidInputError creates an error for images the pipeline cannot read
func NewInvalidInputError(message string, cause error) *AppError {
	return newError(ErrorTypeInvalidInput, http.StatusBadRequest, message, cause)
}

// NewInvalidConfigurationError creates an error for options that do not fit the image
func NewInvalidConfigurationError(message string, cause error) *AppError {
	return newError(ErrorTypeInvalidConfiguration, http.StatusUnprocessableEntity, message, cause)
}

// NewInsufficientDataError creates an error for masks with too few box-count points
func NewInsufficientDataError(message string, cause error) *AppError {
	return newError(ErrorTypeInsufficientData, http.StatusUnprocessableEntity, message, cause)
}

// FromAnalysis maps an analyzer error onto an AppError.
// AppErrors pass through; unknown errors become processing errors.
func FromAnalysis(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch {
	case stderrors.Is(err, analyzer.ErrInvalidInput):
		return NewInvalidInputError("image cannot be measured", err)
	case stderrors.Is(err, analyzer.ErrInvalidConfiguration):
		return NewInvalidConfigurationError("measurement options do not fit the image", err)
	case stderrors.Is(err, analyzer.ErrInsufficientData):
		return NewInsufficientDataError("too few box sizes contain edges", err)
	default:
		return NewProcessingError("measurement failed", err)
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
