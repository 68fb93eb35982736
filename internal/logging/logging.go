// Package logging configures zerolog for the application.
//
// The terminal UI owns stdout, so events go to a JSON log file. Commands
// without a UI (serve, export) may also mirror events to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/projectpilot/internal/model"
)

// Component field name used by component loggers.
const Component = "component"

// Options controls where log events are written.
type Options struct {
	// Console mirrors events to stderr in human-readable form.
	Console bool
}

// New builds a logger from configuration. The returned closer releases the
// log file; it is never nil.
func New(cfg model.LogConfig, opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		writers = append(writers, f)
		closer = f
	}

	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	return NewWithWriter(out, level), closer, nil
}

// NewWithWriter returns a timestamped logger writing JSON to w.
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ForComponent returns a child logger tagged with the component name.
func ForComponent(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(Component, name).Logger()
}

// ParseLevel maps a config level string to a zerolog level. An empty
// string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
