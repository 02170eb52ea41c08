package sessionstore

import "errors"

var (
	// ErrEmptyPath is returned when creating a file store without a path.
	ErrEmptyPath = errors.New("session file path is empty")
	// ErrEmptyConnectionURL is returned when no Redis URL is provided.
	ErrEmptyConnectionURL = errors.New("redis connection URL is empty")
	// ErrRedisConnString is returned when the Redis URL is malformed.
	ErrRedisConnString = errors.New("failed to parse redis connection URL")
	// ErrRedisNotReady is returned when Redis does not answer a ping
	// within the configured attempts.
	ErrRedisNotReady = errors.New("redis is not ready")
	// ErrSessionStale is returned when saving a session whose deadline
	// has already passed.
	ErrSessionStale = errors.New("session deadline already passed")
)
