package session

import "context"

// Store persists the single current session for one storage scope.
// Implementations must handle concurrent access safely.
type Store interface {
	// Load returns the current session, or ErrNotFound when none exists.
	Load(ctx context.Context) (*Session, error)

	// Save atomically replaces any prior session with the given one.
	Save(ctx context.Context, sess *Session) error

	// Clear removes the session with all its fields together. Clearing
	// an empty store is not an error.
	Clear(ctx context.Context) error
}
