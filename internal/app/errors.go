package app

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText rejects an analyze submission before it reaches the server.
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNotAuthenticated is returned when an authenticated call is attempted
	// without a stored credential.
	ErrNotAuthenticated = errors.New("not logged in")
)

// APIError is a non-2xx response with the server's structured detail.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// NetworkError wraps a transport-level failure (connection refused, timeout,
// DNS) as opposed to a response the server actually produced.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// UserMessage renders err the way panels show it: short, no status-code noise
// for the common cases.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == 401 {
			return "session expired, please log in again"
		}
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fmt.Sprintf("request failed (status %d)", apiErr.Status)
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "could not reach the server, check your connection"
	}
	return err.Error()
}
