package session

import (
	"log/slog"
	"time"
)

// minTimeout is the lower bound for the idle timeout. Shorter values make
// form-heavy pages unusable, so configuration below the floor is raised.
const minTimeout = 10 * time.Minute

// Config holds session store configuration.
type Config struct {
	// Timeout is the idle timeout after which a session expires. Values
	// below ten minutes are raised to the floor.
	Timeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"30m"`
	// File is the path of the flat-file session archive.
	File string `env:"SESSION_FILE" envDefault:".sessions"`
}

// DefaultConfig returns the default session store configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Minute,
		File:    ".sessions",
	}
}

// Option is a functional option for configuring the session store.
type Option func(*Store)

// WithConfig replaces the whole store configuration.
func WithConfig(cfg Config) Option {
	return func(s *Store) {
		s.cfg = cfg
	}
}

// WithTimeout sets the idle timeout. Values below the floor are raised.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.cfg.Timeout = timeout
	}
}

// WithArchive sets the archive used by SaveAll and Load.
func WithArchive(a Archive) Option {
	return func(s *Store) {
		s.archive = a
	}
}

// WithLogger sets the logger used for archive and expiry diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}
