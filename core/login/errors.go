package login

import "errors"

var (
	// ErrEmailRequired is returned when submitting without an email.
	// Caught client-side; no network call is made.
	ErrEmailRequired = errors.New("email is required")
	// ErrPasswordRequired is returned when submitting without a password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrSubmissionInFlight is returned when a submission is already
	// running; the duplicate is dropped, not queued.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrInvalidCode is returned when the second-factor code is not
	// exactly six digits after stripping separators.
	ErrInvalidCode = errors.New("verification code must be 6 digits")
	// ErrNoPendingChallenge is returned when verifying a code without a
	// preceding two-factor challenge.
	ErrNoPendingChallenge = errors.New("no two-factor challenge pending")
)
