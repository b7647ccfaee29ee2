package inkwell

import (
	"io"
	"strings"

	"github.com/labstack/gommon/log"
)

const logHeader = "${time_rfc3339} ${level} ${prefix}"

// NewLogger returns a gommon logger, the same type echo logs with, at the
// named level. Unknown levels fall back to info.
func NewLogger(prefix, level string) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(logHeader)
	l.SetLevel(parseLevel(level))
	return l
}

func discardLogger() *log.Logger {
	l := log.New("inkwell")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
