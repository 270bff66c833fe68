// Package logger wraps zap logger construction for the service.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger carries the configured zap logger for the application.
type Logger struct {
	// Log is the underlying zap logger. Valid after Init.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap logger until Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level ("Debug", "Info",
// "Warn", "Error"). Returns an error if the level cannot be parsed or the
// logger cannot be built.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = logger
	return nil
}
