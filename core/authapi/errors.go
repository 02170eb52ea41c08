package authapi

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthorized matches any 401 response: the server explicitly
	// rejected the presented credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnreachable matches transport-level failures where no structured
	// server response was received.
	ErrUnreachable = errors.New("auth backend unreachable")
	// ErrEmptyBaseURL is returned when constructing a client without a
	// backend URL.
	ErrEmptyBaseURL = errors.New("auth API base URL is empty")
)

// APIError is a structured non-2xx response from the backend.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the server's human-readable message.
	Message string `json:"message"`
	// LockoutUntil is set when the account is temporarily locked after
	// repeated failures.
	LockoutUntil time.Time `json:"lockoutTime"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth API: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("auth API: status %d", e.Status)
}

// IsLockout reports whether the error carries a future unlock time.
func (e *APIError) IsLockout(now time.Time) bool {
	return !e.LockoutUntil.IsZero() && e.LockoutUntil.After(now)
}

// LockoutRemaining returns whole minutes until the lockout lifts, rounded
// up so a 30-second remainder still reads "1 minute". Zero when the error
// is not an active lockout.
func (e *APIError) LockoutRemaining(now time.Time) int {
	if !e.IsLockout(now) {
		return 0
	}
	remaining := e.LockoutUntil.Sub(now)
	minutes := int(remaining / time.Minute)
	if remaining%time.Minute > 0 {
		minutes++
	}
	return minutes
}
