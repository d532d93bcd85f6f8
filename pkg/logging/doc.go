// Package logging provides the structured logging used throughout modject.
//
// It is a thin layer over Go's standard slog package that tags every entry with
// a subsystem name, so output from the orchestrator, the dependency tree and the
// CLI can be filtered independently.
//
// # Log Levels
//   - **Debug**: per entry point activation, withdrawal and slot traffic
//   - **Info**: start/stop passes and bootstrap milestones
//   - **Warn**: recoverable oddities (for example an unfinished teardown)
//   - **Error**: failures returned to the caller
//
// # Usage
//
//	import "modject/pkg/logging"
//
//	logging.Init(logging.Options{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	    Output: os.Stderr,
//	})
//
//	logging.Info("Bootstrap", "Loaded manifest from %s", path)
//	logging.Error("Orchestrator", err, "Start pass failed")
//
// # Subsystems
//
//   - **Bootstrap**: application initialization
//   - **Config**: configuration loading
//   - **Manifest**: manifest parsing and schema validation
//   - **Dependency**: dependency tree construction and cycle detection
//   - **Orchestrator**: entry point lifecycle
//
// # Library Use
//
// Until Init is called every helper is a no-op, so embedding the orchestrator in
// another program produces no output unless that program opts in.
//
// # Thread Safety
//
// The package logger is guarded by a mutex; the helpers are safe to call from
// multiple goroutines.
package logging
