// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/gymdesk/authkit/core/config"
//
//	type BackendConfig struct {
//		BaseURL string        `env:"AUTH_API_BASE_URL,required"`
//		Timeout time.Duration `env:"AUTH_API_TIMEOUT" envDefault:"15s"`
//	}
//
//	func main() {
//		var cfg BackendConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 BackendConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 BackendConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently, so every component package can
// declare its own Config struct without coordination.
package config
