package app

import (
	"io"

	"modject/internal/config"
)

// Config holds what the application needs to bootstrap.
type Config struct {
	// Settings is the merged CLI configuration.
	Settings config.Config

	// LogOutput receives log records. Nil discards them.
	LogOutput io.Writer

	// TraceOutput receives spans from the stdout exporter. Nil means stderr.
	TraceOutput io.Writer
}

// NewConfig creates a new application configuration
func NewConfig(settings config.Config, logOutput io.Writer) *Config {
	return &Config{
		Settings:  settings,
		LogOutput: logOutput,
	}
}
