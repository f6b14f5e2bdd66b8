package movio

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotAuthenticated indicates no session is stored for an authenticated call
	ErrNotAuthenticated = errors.New("not authenticated: no session token")
	// ErrNotFound indicates an expected record was absent from a successful response
	ErrNotFound = errors.New("record not found")
)

// genericMessage is the single user-facing failure message. The classified
// error keeps the original detail for programmatic handling.
const genericMessage = "Something bad happened; please try again later."

// APIError represents a movio API response with a non-2xx status
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("movio API error: status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// NetworkError represents a request that never produced a response
type NetworkError struct {
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("movio request failed: %v", e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UserMessage maps any client failure to the generic user-facing message.
// A nil error yields an empty string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return genericMessage
}
