package bootstrap

import (
	"log"

	"github.com/rs/zerolog"
)

// zerologStdLogger adapts a zerolog logger for libraries that want *log.Logger.
func zerologStdLogger(l zerolog.Logger) *log.Logger {
	return log.New(l.With().Str("source", "mcp-go").Logger(), "", 0)
}
