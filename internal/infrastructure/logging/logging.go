// Package logging sets up the process-wide zerolog logger.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog's global logger at the given level and
// returns it. Unknown levels fall back to info, matching the teacher's
// logger.Setup behavior.
func Setup(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
