// Package logger builds the zap logger shared by the CLI and the server.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger. mode "prod"/"production" selects JSON output;
// anything else selects the development console encoder. level is a zap
// level name ("debug", "info", "warn", "error"); empty means info.
func New(level, mode string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production", "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// FromEnv builds a logger from PATHWISE_LOG_LEVEL and PATHWISE_LOG_MODE.
// Unset values default to "warn" and development mode so CLI output stays
// readable.
func FromEnv() (*zap.Logger, error) {
	level := os.Getenv("PATHWISE_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return New(level, os.Getenv("PATHWISE_LOG_MODE"))
}
