package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Console output everywhere; debug
// level outside production.
func New(environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", "athlete-health").
		Str("env", environment).
		Logger()

	if environment == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return logger
}
