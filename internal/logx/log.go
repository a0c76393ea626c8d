// Package logx is the diagnostic sink shared by the runtime and the reference
// backend. Everything goes through one zerolog logger so the CLI, the bridge
// and the server agree on level and format.
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Messages emitted by the runtime's documented failure paths.
const (
	MsgBridgeFailed  = "bridge connection failed"
	MsgMountNotFound = "mount target not found"
)

// Log is the shared logger used throughout the project.
var Log = log.Logger

// Configure sets the global log level and switches to a human-readable console
// writer on stderr. The level string is tolerant of case and common synonyms.
func Configure(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
	Log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// UseJSON writes structured JSON lines to w, which is what the reference
// backend wants when it runs under a process supervisor.
func UseJSON(w io.Writer) {
	Log = zerolog.New(w).With().Timestamp().Logger()
}

// parseLevel converts a string to a zerolog level.
// Accepts: all, trace, debug, info, warn, warning, error, fatal, none.
// Unknown values default to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "all", "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "none", "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func init() {
	Configure(os.Getenv("FLIGHT_LOG_LEVEL"))
}
