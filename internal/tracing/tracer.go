package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active.
	// When false, a no-op tracer is returned.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Exporter selects the export backend.
	// Options: "none", "stdout"
	// Default: "stdout"
	Exporter string `yaml:"exporter" mapstructure:"exporter"`

	// SampleRate controls the fraction of traces to sample.
	// Default: 1.0
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`

	// ServiceName identifies this process in traces.
	// Default: "modject"
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// Output receives stdout exporter output. Defaults to os.Stderr so
	// traces do not interleave with command output.
	Output io.Writer `yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns tracing disabled with stdout export ready to turn on.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		Exporter:    "stdout",
		SampleRate:  1.0,
		ServiceName: "modject",
	}
}

// Validate checks the exporter name and sample rate.
func (c Config) Validate() error {
	switch c.Exporter {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("unsupported exporter type: %s", c.Exporter)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %v", c.SampleRate)
	}
	return nil
}

// Provider wraps the OpenTelemetry tracer provider.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// NewProvider creates and configures the trace provider.
// If tracing is disabled in the config, a no-op provider is returned.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{
			tracer:  noop.NewTracerProvider().Tracer("noop"),
			enabled: false,
		}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var exporter sdktrace.SpanExporter
	if cfg.Exporter == "stdout" {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		var err error
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "modject"
	}

	// NewSchemaless avoids schema version conflicts with resource.Default().
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
	}, nil
}

// Tracer returns the configured tracer. It is a no-op tracer when tracing is
// disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled returns whether tracing is enabled.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans and shuts down the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
