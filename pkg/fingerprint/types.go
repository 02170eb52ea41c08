package fingerprint

import "errors"

// options configures fingerprint generation behavior.
type options struct {
	includePlatform   bool
	includeLocale     bool
	includeDisplay    bool
	includeTimezone   bool
	includeRenderHash bool
}

// Option is a functional option for configuring fingerprint generation.
type Option func(*options)

// WithoutPlatform excludes the platform identifier from the fingerprint.
func WithoutPlatform() Option {
	return func(o *options) {
		o.includePlatform = false
	}
}

// WithoutLocale excludes the locale from the fingerprint.
// Useful when users are expected to switch languages.
func WithoutLocale() Option {
	return func(o *options) {
		o.includeLocale = false
	}
}

// WithoutDisplay excludes display geometry from the fingerprint.
// Useful for clients on external monitors or resizable virtual displays.
func WithoutDisplay() Option {
	return func(o *options) {
		o.includeDisplay = false
	}
}

// WithoutTimezone excludes the UTC offset from the fingerprint.
// Useful for travelling users whose offset changes with location.
func WithoutTimezone() Option {
	return func(o *options) {
		o.includeTimezone = false
	}
}

// WithoutRenderHash excludes the rendering-probe hash from the fingerprint.
func WithoutRenderHash() Option {
	return func(o *options) {
		o.includeRenderHash = false
	}
}

// defaultOptions includes every component; stability across environment
// changes is traded for maximum distinguishing power.
func defaultOptions() *options {
	return &options{
		includePlatform:   true,
		includeLocale:     true,
		includeDisplay:    true,
		includeTimezone:   true,
		includeRenderHash: true,
	}
}

func applyOptions(opts ...Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validation errors that can be checked with errors.Is()
var (
	// ErrInvalidFingerprint indicates the stored fingerprint has invalid format.
	ErrInvalidFingerprint = errors.New("invalid fingerprint format")

	// ErrMismatch indicates the fingerprint doesn't match the current environment.
	// This could indicate a stolen refresh token or legitimate changes to
	// the client's configuration.
	ErrMismatch = errors.New("fingerprint mismatch")
)
