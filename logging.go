package chronos

import (
	"os"

	"github.com/rs/zerolog"
)

// NewConsoleLogger builds a component-scoped logger
// (zerolog.New(w).With().Timestamp().Str("component", name).Logger()),
// for callers that want scheduler logging on stdout instead of the
// silent default.
func NewConsoleLogger(component string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger()
}
