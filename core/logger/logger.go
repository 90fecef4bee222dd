package logger

import (
	"io"
	"log/slog"
	"os"
)

type settings struct {
	writer  io.Writer
	level   slog.Level
	json    bool
	appName string
}

// Option configures the logger returned by New.
type Option func(*settings)

// WithDevelopment configures human-readable text output at debug level,
// tagged with the application name.
func WithDevelopment(appName string) Option {
	return func(s *settings) {
		s.json = false
		s.level = slog.LevelDebug
		s.appName = appName
	}
}

// WithProduction configures JSON output at info level, tagged with the
// application name.
func WithProduction(appName string) Option {
	return func(s *settings) {
		s.json = true
		s.level = slog.LevelInfo
		s.appName = appName
	}
}

// WithLevel overrides the minimum level.
func WithLevel(level slog.Level) Option {
	return func(s *settings) {
		s.level = level
	}
}

// WithWriter overrides the output destination. Defaults to stdout.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.writer = w
		}
	}
}

// New creates a slog.Logger. With no options it logs text at info level to
// stdout.
func New(opts ...Option) *slog.Logger {
	s := settings{
		writer: os.Stdout,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(&s)
	}

	ho := &slog.HandlerOptions{Level: s.level}
	var handler slog.Handler
	if s.json {
		handler = slog.NewJSONHandler(s.writer, ho)
	} else {
		handler = slog.NewTextHandler(s.writer, ho)
	}

	log := slog.New(handler)
	if s.appName != "" {
		log = log.With(slog.String("app", s.appName))
	}
	return log
}
