package config

import "modject/internal/tracing"

// Config is the top-level configuration of the modject binary.
type Config struct {
	Logging LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Tracing tracing.Config `yaml:"tracing" mapstructure:"tracing"`
}

// LoggingConfig selects the verbosity and encoding of log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level" mapstructure:"level"`
	// Format is either text or json.
	Format string `yaml:"format" mapstructure:"format"`
}
