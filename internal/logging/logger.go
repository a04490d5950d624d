// Package logging builds the zap logger used by the CLI and logs client
// lifecycle events published on the eventbus.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the log format.
type Environment string

const (
	// EnvironmentProduction logs JSON.
	EnvironmentProduction Environment = "production"

	// EnvironmentDevelopment logs human readable console lines.
	EnvironmentDevelopment Environment = "development"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level is the minimum enabled level (debug, info, warn, error).
	Level string `yaml:"level"`

	// Environment determines the log format.
	Environment Environment `yaml:"environment"`

	// OutputPaths are URLs or file paths to write logs to. Command output
	// goes to stdout, so logs default to stderr.
	OutputPaths []string `yaml:"outputPaths"`
}

// DefaultConfig returns the CLI defaults: warnings and above, console format, stderr.
func DefaultConfig() Config {
	return Config{
		Level:       "warn",
		Environment: EnvironmentDevelopment,
		OutputPaths: []string{"stderr"},
	}
}

// NewLogger creates a zap logger from cfg.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "console"
	if cfg.Environment == EnvironmentProduction {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoding = "json"
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Environment != EnvironmentProduction,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel converts a case-insensitive level name to a zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	return zapcore.ParseLevel(strings.ToLower(level))
}
