// Package logger provides structured logging for schedule2svg
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with schedule2svg-specific helpers
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // human readable console output
	Output io.Writer
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a new structured logger
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
		}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything. Used by tests and library
// callers that do not care about diagnostics.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Component returns a sub-logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", name).Logger()}
}

// Debug starts a debug level event
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Info starts an info level event
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Warn starts a warn level event
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// Error starts an error level event
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// LogOutputWritten records a finished artifact.
func (l *Logger) LogOutputWritten(format, path string, size int, duration time.Duration) {
	l.zlog.Info().
		Str("format", format).
		Str("path", path).
		Int("bytes", size).
		Dur("duration_ms", duration).
		Msg("output written")
}

// LogDerived records the result of an interval derivation.
func (l *Logger) LogDerived(records, intervals int, start, end time.Time) {
	l.zlog.Debug().
		Int("records", records).
		Int("intervals", intervals).
		Time("window_start", start).
		Time("window_end", end).
		Msg("intervals derived")
}
