// Package logging provides structured logging for salesagg using zerolog.
//
// Logs are written to stderr. Stdout is reserved for the single operator
// message a failed run prints.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger *zerolog.Logger

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	logger = &l
}

// Init configures the global logger.
// If debug is true, sets log level to Debug, otherwise Warn.
// If human is true, uses a human-friendly console writer.
func Init(debug bool, human bool) {
	InitWithWriter(os.Stderr, debug, human)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(w io.Writer, debug bool, human bool) {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := w
	if human {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	l := zerolog.New(out).With().Timestamp().Logger().Level(level)
	logger = &l
}

// L returns the base logger.
func L() *zerolog.Logger {
	return logger
}

// WithRun returns a logger tagged with a fresh run id, and the id itself.
func WithRun() (zerolog.Logger, string) {
	id := uuid.NewString()
	return logger.With().Str("run_id", id).Logger(), id
}

// WithPhase returns a logger with the phase field set.
func WithPhase(l zerolog.Logger, phase string) zerolog.Logger {
	return l.With().Str("phase", phase).Logger()
}

// SetLogger allows overriding the global logger (useful for testing).
func SetLogger(l zerolog.Logger) {
	logger = &l
}
