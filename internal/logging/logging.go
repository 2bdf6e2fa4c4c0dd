// Package logging provides structured logging for CargoFocus built on
// zerolog, with context propagation for trace IDs and audit records.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config describes the desired logger behavior. It is typically produced by
// config.LoggingConfig.ToLoggingConfig after file and flag overrides have
// been applied.
type Config struct {
	// Level is a zerolog level name ("trace".."panic"). Unknown values
	// fall back to "info".
	Level string
	// Format selects "console" (human-readable, colorized when attached to
	// a terminal) or "json" (machine-readable, the default).
	Format string
	// Output selects "stderr", "stdout", or "file".
	Output string
	// File is the log file path when Output is "file".
	File string
	// Caller adds file:line caller annotations to each event.
	Caller bool
}

// LogPathResult reports where the logger ended up writing, including
// fallback details when a configured file could not be opened.
type LogPathResult struct {
	Logger         zerolog.Logger
	FilePath       string
	UsingFile      bool
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if any. Safe to call on a
// console-only result.
func (r *LogPathResult) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger builds a logger from cfg, discarding file-path details.
// Callers that need to close the file handle should use NewLoggerWithPath.
func NewLogger(cfg Config) zerolog.Logger {
	result := NewLoggerWithPath(cfg)
	return result.Logger
}

// NewLoggerWithPath builds a logger from cfg and reports the resolved output
// path. When a file output cannot be opened the logger falls back to stderr
// and the result carries the reason, so the CLI can warn without failing
// the command.
func NewLoggerWithPath(cfg Config) LogPathResult {
	result := LogPathResult{}

	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer
	switch cfg.Output {
	case "file":
		file, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if openErr != nil {
			result.FallbackUsed = true
			result.FallbackReason = openErr.Error()
			out = os.Stderr
		} else {
			result.UsingFile = true
			result.FilePath = cfg.File
			result.file = file
			out = file
		}
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	result.Logger = ctx.Logger().Hook(traceHook{})

	return result
}

// ComponentLogger derives a child logger tagged with a component name, so
// every event it emits carries component=<name>.
func ComponentLogger(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// FromContext returns the logger attached to ctx via zerolog's context
// support, or a disabled logger when none is attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// PrintLogPathMessage tells the user where log output is going when it is
// not the terminal.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user a configured log file could not be
// used and output reverted to stderr.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: log file unavailable (%s), logging to stderr\n", reason)
}
