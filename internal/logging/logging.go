// Package logging configures the structured loggers shared by every
// component. Output is discarded until Init is called.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Standard attribute keys.
const (
	FieldComponent  = "component"
	FieldCollection = "collection"
	FieldPath       = "path"
	FieldKind       = "kind"
)

// L is the process-wide logger. It discards output until Init is called.
var L = Nop()

// Options configures Init.
type Options struct {
	Level  string    // debug, info, warn or error; default info
	Format string    // text or json; default text
	Output io.Writer // default os.Stderr
}

// New builds a logger from opts without touching L.
func New(opts Options) (*slog.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(out, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, hopts)), nil
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", opts.Format)
	}
}

// Init replaces L. Call from main before any component is constructed.
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	L = l
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", level)
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Component tags logger with a component name. A nil logger falls back to L.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = L
	}
	return logger.With(FieldComponent, name)
}
