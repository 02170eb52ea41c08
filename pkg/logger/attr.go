package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Error returns an "error" attribute, or a zero attribute for nil
// so slog drops it from the record.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple errors under an "errors" key, skipping nils.
// Returns a zero attribute when no non-nil errors remain.
func Errors(errs ...error) slog.Attr {
	attrs := make([]any, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		attrs = append(attrs, slog.Any(strconv.Itoa(len(attrs)), err))
	}
	if len(attrs) == 0 {
		return slog.Attr{}
	}
	return slog.Group("errors", attrs...)
}

// Group wraps attributes under a single key.
func Group(key string, attrs ...slog.Attr) slog.Attr {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return slog.Group(key, args...)
}

// Duration returns a "duration" attribute.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component tags a record with the emitting component name.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names a domain event, e.g. "session_refreshed" or "logout".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Count returns an integer counter attribute under the given key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
