// Package logger provides slog logger construction and reusable attribute
// helpers for consistent structured logging across the authkit packages.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "debug", Format: "json"}, os.Stderr)
//	log.Info("session verified", logger.Component("guard"))
//
// Attribute helpers keep log call sites terse and field names stable:
//
//	log.Error("refresh failed",
//		logger.Error(err),
//		logger.Duration(time.Since(start)),
//	)
//
// All helpers return zero-value slog.Attr for nil/empty input, which slog
// drops silently, so call sites never need nil checks.
package logger
