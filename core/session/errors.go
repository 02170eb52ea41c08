package session

import "errors"

var (
	// ErrNotFound is returned when no session exists in the store.
	ErrNotFound = errors.New("session not found")
	// ErrNilSession is returned when saving a nil session.
	ErrNilSession = errors.New("session is nil")
	// ErrSaveSession is returned when persisting a session fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrClearSession is returned when clearing stored session state fails.
	ErrClearSession = errors.New("failed to clear session")
)
