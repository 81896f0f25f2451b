// Package logging configures the global zerolog logger for the CLI and for
// embedders that want the library's match tracing.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logWriter io.Writer

func init() {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	logWriter = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// Configure sets the global logging level and rebuilds the global logger.
// Diagnostics go to stderr so JSON output on stdout stays machine-parseable.
func Configure(levelStr string) error {
	level := parseLogLevel(levelStr)
	zerolog.SetGlobalLevel(level)

	logContext := zerolog.New(logWriter).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logContext = logContext.Caller()
	}

	log.Logger = logContext.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger
	return nil
}

// parseLogLevel converts a string log level to zerolog.Level, defaulting to
// error on unknown input.
func parseLogLevel(levelString string) zerolog.Level {
	if levelString == "" {
		levelString = "error"
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelString))
	if err != nil {
		log.Error().Err(err).
			Str("logLevel", levelString).
			Msg("Invalid log level provided. Defaulting to error level.")
		return zerolog.ErrorLevel
	}
	return level
}

// SetLogWriter overrides the destination for subsequent Configure calls.
func SetLogWriter(w io.Writer) {
	logWriter = w
}
