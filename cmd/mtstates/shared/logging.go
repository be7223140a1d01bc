package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger returns a stderr logger at the named level. Unknown levels
// fall back to info.
func SetupLogger(level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if debug {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}
