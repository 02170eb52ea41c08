package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParseFailed wraps env parsing failures so callers can branch on the
// category without matching message text.
var ErrParseFailed = errors.New("failed to parse environment variables")

var (
	dotenvOnce sync.Once

	cacheMu sync.RWMutex
	cache   = map[reflect.Type]any{}
)

// Load populates cfg from environment variables, loading .env files on
// first use. The result is cached per concrete type; subsequent calls for
// the same type return the cached value.
func Load(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("config: Load expects a non-nil pointer, got %T", cfg)
	}

	// Missing .env is not an error; explicit environment always wins.
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	typ := v.Elem().Type()

	cacheMu.RLock()
	cached, ok := cache[typ]
	cacheMu.RUnlock()
	if ok {
		v.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParseFailed, err)
	}

	cacheMu.Lock()
	cache[typ] = v.Elem().Interface()
	cacheMu.Unlock()

	return nil
}

// MustLoad is Load that panics on failure. Intended for application startup
// where a missing required variable should abort immediately.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
