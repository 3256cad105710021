package config

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Output goes to w, which must not be
// stdout when the stdio transport is in use.
func (l LoggingConfig) NewLogger(w io.Writer) zerolog.Logger {
	if strings.EqualFold(l.Format, "text") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).Level(l.ZerologLevel()).With().Timestamp().Logger()
}

// ZerologLevel maps the configured level, defaulting to info
func (l LoggingConfig) ZerologLevel() zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
