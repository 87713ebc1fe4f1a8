package transport

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for conditions that carry no extra payload.
var (
	// ErrMissingAPIKey is returned before any network traffic when the
	// client has no application secret configured.
	ErrMissingAPIKey = errors.New("application secret not configured")

	// ErrUnauthorized is returned on HTTP 401.
	ErrUnauthorized = errors.New("unauthorized: application secret rejected")

	// ErrInvalidResponse is returned when a 200 body cannot be decoded
	// into the completion envelope.
	ErrInvalidResponse = errors.New("invalid response envelope")
)

// RateLimitedError is returned on HTTP 429. RetryAfter is zero when the
// server did not include a hint.
type RateLimitedError struct {
	RetryAfter time.Duration
	Limit      int64
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// ClientError is returned on any 4xx other than 401 and 429.
type ClientError struct {
	Status  int
	Message string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error (%d): %s", e.Status, e.Message)
}

// ServerError is returned on any 5xx.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// UnexpectedStatusError is returned for statuses outside the 2xx/4xx/5xx
// branches the client understands.
type UnexpectedStatusError struct {
	Code int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// NetworkError wraps transport-level failures (DNS, timeout, TLS, broken
// connection).
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}
