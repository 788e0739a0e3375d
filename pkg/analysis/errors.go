package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors for the analysis package.
var (
	// ErrMissingAPIKey indicates no API key was configured for the provider.
	ErrMissingAPIKey = errors.New("analysis: API key is required")

	// ErrEmptyImage indicates Analyze was called without image data.
	ErrEmptyImage = errors.New("analysis: image is empty")

	// ErrAnalysisFailed indicates the inference request failed in
	// transport or at the service.
	ErrAnalysisFailed = errors.New("analysis: request failed")
)

// APIError represents an error response from the inference endpoint.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("analysis: API error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("analysis: API error: %s", e.Message)
}

// Unwrap maps every API error onto ErrAnalysisFailed so callers can use a
// single errors.Is check.
func (e *APIError) Unwrap() error {
	return ErrAnalysisFailed
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}
