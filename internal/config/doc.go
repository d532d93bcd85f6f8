// Package config provides configuration management for the modject CLI.
//
// Configuration covers the ambient concerns of the binary: how it logs and
// whether it traces orchestration passes. The orchestrator itself takes no
// configuration; everything it needs is passed to its constructor.
//
// # Sources
//
// Values are merged by viper in the usual order of precedence:
//
//  1. Command-line flags bound by the cmd package
//  2. Environment variables prefixed with MODJECT_ (MODJECT_LOGGING_LEVEL, ...)
//  3. The configuration file
//  4. Defaults()
//
// The configuration file defaults to ~/.config/modject/config.yaml and may be
// overridden with --config. A missing default file is not an error; a missing
// explicit file is.
//
// # File Format
//
//	logging:
//	  level: debug
//	  format: json
//	tracing:
//	  enabled: true
//	  exporter: stdout
//	  sample_rate: 0.5
//
// # Validation
//
// Load validates the merged configuration and reports every problem at once
// as ValidationErrors.
package config
