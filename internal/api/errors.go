package api

import (
	"encoding/json"
	"fmt"
)

// APIError represents an HTTP error from the upstream service.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// parseErrorResponse builds an *APIError from a non-2xx response body.
// The upstream is loosely specified; the body may carry an error or
// message field, or be arbitrary text.
func parseErrorResponse(statusCode int, body []byte, requestID string) *APIError {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	message := ""
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			message = errResp.Error
		} else if errResp.Message != "" {
			message = errResp.Message
		}
	}
	if message == "" && len(body) > 0 && len(body) <= 256 {
		message = string(body)
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		RequestID:  requestID,
	}
}
