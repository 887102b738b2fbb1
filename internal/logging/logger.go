package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger. Production defaults to
// JSON output; everything else gets the coloured text formatter unless
// format says otherwise.
func Setup(w io.Writer, env, level, format string) *log.Logger {
	if w == nil {
		w = os.Stdout
	}

	logger := log.StandardLogger()
	logger.SetOutput(w)
	logger.SetLevel(ParseLevel(level))

	if format == "" {
		format = "text"
		if env == "production" {
			format = "json"
		}
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		logger.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}

	return logger
}

// ParseLevel converts textual levels into logrus levels, defaulting to info.
func ParseLevel(raw string) log.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return log.TraceLevel
	case "debug", "dbg":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error", "err":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
