package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"go-complexity-inspector/internal/analyzer"
)

func TestFromAnalysis(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		errorType  ErrorType
		statusCode int
	}{
		{"invalid input", fmt.Errorf("decode: %w", analyzer.ErrInvalidInput), ErrorTypeInvalidInput, http.StatusBadRequest},
		{"invalid configuration", fmt.Errorf("box: %w", analyzer.ErrInvalidConfiguration), ErrorTypeInvalidConfiguration, http.StatusUnprocessableEntity},
		{"insufficient data", fmt.Errorf("fit: %w", analyzer.ErrInsufficientData), ErrorTypeInsufficientData, http.StatusUnprocessableEntity},
		{"unknown", stderrors.New("boom"), ErrorTypeProcessing, http.StatusUnprocessableEntity},
		{"app error passes through", NewTimeoutError("slow", nil), ErrorTypeTimeout, http.StatusGatewayTimeout},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromAnalysis(tc.err)
			if appErr.Type != tc.errorType {
				t.Errorf("Expected type %s, got %s", tc.errorType, appErr.Type)
			}
			if appErr.StatusCode != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, appErr.StatusCode)
			}
			if !stderrors.Is(appErr, tc.err) && appErr != tc.err {
				t.Error("Expected the cause to be preserved")
			}
		})
	}

	if FromAnalysis(nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

func TestWrappedAppError(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewNotFoundError("entry not found", nil))

	if !IsType(err, ErrorTypeNotFound) {
		t.Error("Expected IsType to see through wrapping")
	}
	if got := GetStatusCode(err); got != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", got)
	}
	if got := GetStatusCode(stderrors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("Expected 500 for plain errors, got %d", got)
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := NewValidationError("bad url", stderrors.New("missing scheme"))
	want := "validation: bad url (caused by: missing scheme)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if NewInternalError("oops", nil).Error() != "internal: oops" {
		t.Error("Unexpected message without cause")
	}
}
