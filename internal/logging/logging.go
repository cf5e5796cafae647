package logging

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
func Setup(format string) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// ForRun returns a child logger stamped with the run identifier, so every
// phase log line of one pipeline run is correlatable.
func ForRun(log zerolog.Logger, runID uuid.UUID) zerolog.Logger {
	return log.With().Str("run_id", runID.String()).Logger()
}
