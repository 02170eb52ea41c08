package guard

import "time"

// Config holds the guard's timer settings.
type Config struct {
	// RefreshInterval is how often the access token is silently renewed
	// while authenticated. Kept shorter than the session timeout so a
	// healthy session never lapses.
	RefreshInterval time.Duration `env:"AUTH_REFRESH_INTERVAL" envDefault:"25m"`

	// IdleTimeout is the inactivity ceiling; breaching it ends the session.
	IdleTimeout time.Duration `env:"AUTH_IDLE_TIMEOUT" envDefault:"30m"`

	// IdleCheckInterval is how often idle time is compared against the ceiling.
	IdleCheckInterval time.Duration `env:"AUTH_IDLE_CHECK_INTERVAL" envDefault:"60s"`
}

// withDefaults fills unset fields with production values.
func (c Config) withDefaults() Config {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 25 * time.Minute
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 30 * time.Minute
	}
	if c.IdleCheckInterval <= 0 {
		c.IdleCheckInterval = 60 * time.Second
	}
	return c
}
