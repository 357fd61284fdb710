// Package logx builds the process-wide zerolog logger.
package logx

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a timestamped JSON logger at the given level. Unknown levels
// fall back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl)
}
