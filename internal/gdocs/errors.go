package gdocs

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for service responses.
var (
	ErrRateLimited      = errors.New("document service rate limit exceeded")
	ErrPermissionDenied = errors.New("document service permission denied")
	ErrNotFound         = errors.New("document service resource not found")
	ErrUnauthorized     = errors.New("document service rejected credentials")
	ErrAPI              = errors.New("document service error")
	ErrMalformedReply   = errors.New("malformed document service reply")
	ErrNoCredentials    = errors.New("no document service credentials")
)

// statusError maps an HTTP status and the service's error message to a
// sentinel-wrapped error.
func statusError(op string, status int, message string) error {
	var sentinel error
	switch status {
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case http.StatusForbidden:
		sentinel = ErrPermissionDenied
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	default:
		sentinel = ErrAPI
	}
	if message == "" {
		return fmt.Errorf("%s: %w (HTTP %d)", op, sentinel, status)
	}
	return fmt.Errorf("%s: %w (HTTP %d): %s", op, sentinel, status, message)
}
