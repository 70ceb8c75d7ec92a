// Package logging provides structured logging with zerolog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName tags every log line emitted through Logger.
const ServiceName = "ai-language-tutor-service"

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	TimeFormat string // RFC3339, Unix, etc.
}

// DefaultConfig returns sensible default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		TimeFormat: time.RFC3339,
	}
}

// Init initializes the global zerolog logger.
func Init(cfg Config) {
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	// ParseLevel maps "" to NoLevel, which would log everything
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.Kitchen,
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Logger returns the global logger tagged with the service name.
func Logger() zerolog.Logger {
	return log.With().Str("service", ServiceName).Logger()
}

// WithUser returns a logger with user context.
func WithUser(userID string) zerolog.Logger {
	return log.With().
		Str("userId", userID).
		Logger()
}

// WithTurn returns a logger with turn context.
func WithTurn(userID, turnID, stage string) zerolog.Logger {
	return log.With().
		Str("userId", userID).
		Str("turnId", turnID).
		Str("stage", stage).
		Logger()
}

// WithProvider returns a logger with collaborator context.
func WithProvider(op, provider string) zerolog.Logger {
	return log.With().
		Str("op", op).
		Str("provider", provider).
		Logger()
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}
