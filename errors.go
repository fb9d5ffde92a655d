package tempmailbox

import (
	"errors"
	"fmt"

	"github.com/tempmailbox/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrInvalidMessageID is returned when a message ID is not a
	// 32-character lowercase hex string. No network call is made.
	ErrInvalidMessageID = errors.New("invalid message ID")

	// ErrInvalidToken is returned when a mailbox token is not a
	// 32-character lowercase hex string. No network call is made.
	ErrInvalidToken = errors.New("invalid mailbox token")

	// ErrPurgeIncomplete is returned when fewer than half of a
	// mailbox's messages could be deleted.
	ErrPurgeIncomplete = errors.New("purge incomplete")

	// ErrNoActiveSession is returned by Monitor operations when no
	// session is open.
	ErrNoActiveSession = errors.New("no active session")
)

// APIError represents an HTTP error from the upstream service.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
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

// wrapError converts internal API errors to public errors so callers
// never depend on the internal package.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			RequestID:  apiErr.RequestID,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}
