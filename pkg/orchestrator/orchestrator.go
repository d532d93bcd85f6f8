package orchestrator

import (
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"modject/internal/dependency"
	"modject/internal/registry"
	"modject/pkg/entrypoint"
	"modject/pkg/logging"
)

// Orchestrator registers entry points and drives their activation and
// teardown in dependency order.
//
// An Orchestrator is not safe for concurrent use. Callbacks run synchronously
// on the calling goroutine; slot values may be read from other goroutines
// through shells captured during a pass.
type Orchestrator struct {
	registry *registry.Registry
	layers   []string
	started  *dependency.Set
	slots    *slotStore

	// current is the pass in progress, nil when idle.
	current *pass

	listeners []Listener
	tracer    trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithListener registers a listener for lifecycle events.
func WithListener(l Listener) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}

// WithTracer records one span per pass and one child span per entry point.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// New creates an orchestrator with no layers and no entry points.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry.New(),
		started:  dependency.NewSet(),
		slots:    newSlotStore(),
		tracer:   noop.NewTracerProvider().Tracer("modject"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// guard refuses op while a pass is running. The refusal also fails the pass.
func (o *Orchestrator) guard(op string) error {
	if o.current == nil {
		return nil
	}
	err := &BusyError{Operation: op}
	o.current.fail(err)
	return err
}

// DefineLayers sets the architectural layers, lowest first. Layers must be
// defined before any entry point is added.
func (o *Orchestrator) DefineLayers(layers []string) error {
	if err := o.guard("define layers"); err != nil {
		return err
	}
	if o.registry.Len() > 0 {
		return &RegistrationError{Message: "cannot define layers after adding entry points"}
	}

	seen := make(map[string]bool, len(layers))
	for _, l := range layers {
		if l == "" {
			return &RegistrationError{Message: "layer name must not be empty"}
		}
		if seen[l] {
			return &RegistrationError{Message: fmt.Sprintf("layer %s is defined more than once", l)}
		}
		seen[l] = true
	}

	o.layers = slices.Clone(layers)
	logging.Debug("Orchestrator", "Defined layers %v", o.layers)
	return nil
}

// GetLayers returns the defined layers, lowest first.
func (o *Orchestrator) GetLayers() []string {
	return slices.Clone(o.layers)
}

// AddEntryPoints validates and registers entry points. Either all of them are
// registered or none is. Registering an existing name replaces that entry
// point and keeps its position; a started entry point must be stopped first.
func (o *Orchestrator) AddEntryPoints(eps []entrypoint.EntryPoint) error {
	if err := o.guard("add entry points"); err != nil {
		return err
	}

	for _, ep := range eps {
		if err := o.validate(ep); err != nil {
			logging.Error("Orchestrator", err, "Rejected entry point %q", ep.Name)
			return err
		}
	}
	for _, ep := range eps {
		if err := o.registry.Register(ep); err != nil {
			return &RegistrationError{EntryPoint: ep.Name, Message: err.Error()}
		}
	}

	logging.Debug("Orchestrator", "Registered %d entry points (%d total)", len(eps), o.registry.Len())
	return nil
}

func (o *Orchestrator) validate(ep entrypoint.EntryPoint) error {
	if ep.Name == "" {
		return &RegistrationError{Message: "entry point must have a name"}
	}
	if o.started.Has(ep.Name) {
		return &RegistrationError{EntryPoint: ep.Name,
			Message: fmt.Sprintf("entry point %s is started and cannot be replaced", ep.Name)}
	}

	if len(o.layers) == 0 {
		return nil
	}
	if ep.Layer == "" {
		return &RegistrationError{EntryPoint: ep.Name, Message: fmt.Sprintf("entry point %s must define a layer", ep.Name)}
	}
	level := slices.Index(o.layers, ep.Layer)
	if level < 0 {
		return &RegistrationError{EntryPoint: ep.Name, Message: fmt.Sprintf("layer %s is not defined", ep.Layer)}
	}

	for _, slot := range ep.Contributes {
		if slot.Layer != "" && !slices.Contains(o.layers, slot.Layer) {
			return &RegistrationError{EntryPoint: ep.Name,
				Message: fmt.Sprintf("slot %s of entry point %s uses undefined layer %s", slot.Name, ep.Name, slot.Layer)}
		}
	}
	for _, dep := range ep.DependsOn {
		if dep.Layer == "" || dep.Layer == ep.Layer {
			continue
		}
		depLevel := slices.Index(o.layers, dep.Layer)
		if depLevel < 0 {
			return &RegistrationError{EntryPoint: ep.Name,
				Message: fmt.Sprintf("slot %s of entry point %s uses undefined layer %s", dep.Name, ep.Name, dep.Layer)}
		}
		if depLevel > level {
			return &RegistrationError{EntryPoint: ep.Name,
				Message: fmt.Sprintf("entry point %s cannot depend on %s (layer %s)", ep, dep.Name, dep.Layer)}
		}
	}
	return nil
}

// RemoveEntryPoints unregisters entry points by name. Unknown names are
// ignored; started entry points must be stopped first.
func (o *Orchestrator) RemoveEntryPoints(names []string) error {
	if err := o.guard("remove entry points"); err != nil {
		return err
	}
	for _, name := range names {
		if o.started.Has(name) {
			return &RegistrationError{EntryPoint: name,
				Message: fmt.Sprintf("entry point %s is started and cannot be removed", name)}
		}
	}
	for _, name := range names {
		if o.registry.Unregister(name) {
			logging.Debug("Orchestrator", "Removed entry point %s", name)
		}
	}
	return nil
}

// GetEntryPoints returns the registered entry points in registration order.
func (o *Orchestrator) GetEntryPoints() []entrypoint.EntryPoint {
	return o.registry.GetAll()
}

// GetStartedEntryPoints returns the started entry points in activation order.
func (o *Orchestrator) GetStartedEntryPoints() []string {
	return o.started.Items()
}

// ContributedSlots returns the names of the contributed slots in contribution
// order.
func (o *Orchestrator) ContributedSlots() []string {
	return o.slots.list()
}

// Slots returns a shell reading any contributed slot. It is the same view the
// completion callbacks receive.
func (o *Orchestrator) Slots() entrypoint.RunShell {
	return &completionShell{store: o.slots}
}
