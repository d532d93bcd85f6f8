// Package tracing wires OpenTelemetry into the orchestrator.
package tracing

// Span attribute keys.
const (
	AttrPassID      = "modject.pass.id"
	AttrPassKind    = "modject.pass.kind"
	AttrEntryPoints = "modject.pass.entrypoints"
	AttrEntryPoint  = "modject.entrypoint"
	AttrLayer       = "modject.layer"
)

// Span names.
const (
	SpanPassStart       = "orchestrator.start"
	SpanPassStop        = "orchestrator.stop"
	SpanEntryPointStart = "entrypoint.start"
	SpanEntryPointStop  = "entrypoint.stop"
)
