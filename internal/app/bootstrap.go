package app

import (
	"context"
	"fmt"

	"modject/internal/manifest"
	"modject/internal/tracing"
	"modject/pkg/logging"
	"modject/pkg/orchestrator"
)

// Application wires logging, tracing and orchestrators for the CLI.
//
// The Application follows a two-phase pattern:
//  1. Bootstrap phase: initialize logging and the trace provider
//  2. Execution phase: load a manifest and check or plan it
//
// Example usage:
//
//	a, err := app.NewApplication(app.NewConfig(cfg, os.Stderr))
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	defer a.Shutdown(ctx)
//	report, err := a.Check("app.yaml")
type Application struct {
	config  *Config
	tracing *tracing.Provider
}

// NewApplication initializes logging from cfg.Settings.Logging and creates the
// trace provider. It fails when the settings are invalid.
func NewApplication(cfg *Config) (*Application, error) {
	if errs := cfg.Settings.Validate(); errs.HasErrors() {
		return nil, fmt.Errorf("invalid configuration: %w", errs)
	}

	level, err := logging.ParseLevel(cfg.Settings.Logging.Level)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Options{
		Level:  level,
		Format: logging.Format(cfg.Settings.Logging.Format),
		Output: cfg.LogOutput,
	})

	tracingCfg := cfg.Settings.Tracing
	if cfg.TraceOutput != nil {
		tracingCfg.Output = cfg.TraceOutput
	}
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize tracing")
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	logging.Debug("Bootstrap", "Tracing enabled: %t", provider.Enabled())

	return &Application{
		config:  cfg,
		tracing: provider,
	}, nil
}

// Shutdown flushes pending spans.
func (a *Application) Shutdown(ctx context.Context) error {
	return a.tracing.Shutdown(ctx)
}

// NewOrchestrator creates an orchestrator traced by the application, defines
// the manifest's layers and registers its entry points.
func (a *Application) NewOrchestrator(m *manifest.Manifest, opts ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	opts = append([]orchestrator.Option{orchestrator.WithTracer(a.tracing.Tracer())}, opts...)
	o := orchestrator.New(opts...)

	if len(m.Layers) > 0 {
		if err := o.DefineLayers(m.Layers); err != nil {
			return nil, err
		}
	}
	if err := o.AddEntryPoints(m.EntryPoints()); err != nil {
		return nil, err
	}

	logging.Info("Bootstrap", "Registered %d entry points from %s", len(m.EntryPoints), m.Path)
	return o, nil
}
