package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// TTL is the session lifetime; visitors are anonymous, so one idle
	// timeout covers everything.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// CleanupInterval for expired sessions in the memory store (0 disables).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// SecureCookies enables the Secure flag on session cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns the defaults used when no Config option is given.
func DefaultConfig() Config {
	return Config{
		CookieName:      "sid",
		TTL:             time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}
