package utils

import (
	"os"
	"time"

	"project/backend/config"

	"github.com/rs/zerolog"
)

// InitLogger builds the process logger: pretty console output during
// development, JSON everywhere else.
func InitLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Env == "development" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
		logger = zerolog.New(out)
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", "learning-platform").
		Logger()
}
