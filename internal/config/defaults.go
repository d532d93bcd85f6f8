package config

import "modject/internal/tracing"

const (
	// DefaultLogLevel is used when neither a flag nor the file sets a level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the human readable handler.
	DefaultLogFormat = "text"

	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "MODJECT"
)

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Tracing: tracing.DefaultConfig(),
	}
}
