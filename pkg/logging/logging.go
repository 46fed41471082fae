// Package logging wraps decred/slog into the small per-subsystem
// backend the rest of this module expects (one slog.Logger per
// component, all writing through a shared backend).
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/decred/slog"
)

// Config controls how a Backend writes and filters log output.
type Config struct {
	// DebugLevel is one of trace, debug, info, warn, error, critical, off.
	DebugLevel string
	// Writer defaults to os.Stdout when nil.
	Writer io.Writer
}

// Backend hands out per-subsystem loggers sharing one slog.Backend and
// log level.
type Backend struct {
	backend *slog.Backend
	level   slog.Level
}

// New creates a Backend from cfg.
func New(cfg Config) (*Backend, error) {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	level, ok := slog.LevelFromString(cfg.DebugLevel)
	if !ok {
		return nil, fmt.Errorf("karata: unrecognized log level %q", cfg.DebugLevel)
	}
	return &Backend{
		backend: slog.NewBackend(w),
		level:   level,
	}, nil
}

// Logger returns a named logger at the backend's configured level, one
// per subsystem (SERVER, GAME, CLIENT, ...).
func (b *Backend) Logger(subsystem string) slog.Logger {
	l := b.backend.Logger(subsystem)
	l.SetLevel(b.level)
	return l
}
