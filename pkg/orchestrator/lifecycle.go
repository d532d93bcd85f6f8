package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"modject/internal/dependency"
	"modject/internal/tracing"
	"modject/pkg/entrypoint"
	"modject/pkg/logging"
)

// StartedFunc is called once a start pass has activated every requested entry
// point. The shell reads any contributed slot.
type StartedFunc func(shell entrypoint.RunShell) error

// StoppedFunc is called once a stop pass has deactivated every requested
// entry point.
type StoppedFunc func() error

type passKind int

const (
	startPass passKind = iota
	stopPass
)

func (k passKind) String() string {
	if k == stopPass {
		return "stop"
	}
	return "start"
}

// pass is the state of one StartEntryPoints or StopEntryPoints call.
type pass struct {
	id      string
	kind    passKind
	tree    *dependency.Tree
	pending *dependency.Set

	// err is the first failure of the pass; later failures are dropped.
	err  error
	done bool

	ctx  context.Context
	span trace.Span
}

func (p *pass) fail(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

// StartEntryPoint is StartEntryPoints for a single name.
func (o *Orchestrator) StartEntryPoint(name string, onStarted StartedFunc) error {
	return o.StartEntryPoints([]string{name}, onStarted)
}

// StartEntryPoints activates the named entry points and, transitively, the
// entry points contributing the slots they depend on. Entry points are
// activated as soon as their dependencies are contributed; every contribution
// widens the set of candidates.
//
// onStarted, if not nil, runs after the pass when every requested entry point
// is started. An empty request calls it immediately.
//
// On failure the entry points activated so far stay started.
func (o *Orchestrator) StartEntryPoints(names []string, onStarted StartedFunc) error {
	if err := o.guard("start entry points"); err != nil {
		return err
	}

	pending := dependency.NewSet(names...)
	for _, name := range pending.Items() {
		if o.started.Has(name) {
			pending.Remove(name)
		}
	}
	if len(names) > 0 && pending.Len() > 0 {
		p, err := o.begin(startPass, pending)
		if err != nil {
			return err
		}
		if err := o.run(p); err != nil {
			return err
		}
	}

	if onStarted != nil {
		return onStarted(o.Slots())
	}
	return nil
}

// StopEntryPoints deactivates the named entry points. Started entry points
// consuming their slots are deactivated first, even when not requested.
//
// onStopped, if not nil, runs after the pass when every requested entry point
// is stopped. An empty request calls it immediately.
func (o *Orchestrator) StopEntryPoints(names []string, onStopped StoppedFunc) error {
	if err := o.guard("stop entry points"); err != nil {
		return err
	}

	pending := dependency.NewSet(names...)
	for _, name := range pending.Items() {
		if _, ok := o.registry.Get(name); !ok && !o.started.Has(name) {
			return &NotFoundError{EntryPoint: name}
		}
		if !o.started.Has(name) {
			pending.Remove(name)
		}
	}
	if pending.Len() > 0 {
		p, err := o.begin(stopPass, pending)
		if err != nil {
			return err
		}
		if err := o.run(p); err != nil {
			return err
		}
	}

	if onStopped != nil {
		return onStopped()
	}
	return nil
}

// StopAllEntryPoints stops every started entry point.
func (o *Orchestrator) StopAllEntryPoints(onStopped StoppedFunc) error {
	return o.StopEntryPoints(o.GetStartedEntryPoints(), onStopped)
}

func (o *Orchestrator) begin(kind passKind, pending *dependency.Set) (*pass, error) {
	tree, err := dependency.Build(o.registry.GetAll())
	if err != nil {
		logging.Error("Orchestrator", err, "Cannot %s entry points %v", kind, pending.Items())
		return nil, err
	}

	p := &pass{
		id:      uuid.NewString(),
		kind:    kind,
		tree:    tree,
		pending: pending,
	}

	spanName := tracing.SpanPassStart
	if kind == stopPass {
		spanName = tracing.SpanPassStop
	}
	p.ctx, p.span = o.tracer.Start(context.Background(), spanName, trace.WithAttributes(
		attribute.String(tracing.AttrPassID, p.id),
		attribute.String(tracing.AttrPassKind, kind.String()),
		attribute.StringSlice(tracing.AttrEntryPoints, pending.Items()),
	))

	o.current = p
	logging.Info("Orchestrator", "Beginning %s pass %s for %v", kind, p.id, pending.Items())
	o.emit(p, Event{Type: EventPassStarted})
	return p, nil
}

func (o *Orchestrator) run(p *pass) error {
	defer o.finish(p)

	o.advance(p)
	if p.err == nil && p.pending.Len() > 0 {
		p.fail(&UnsatisfiedError{Operation: p.kind.String(), Pending: p.pending.Items()})
	}
	return p.err
}

func (o *Orchestrator) finish(p *pass) {
	o.current = nil
	p.done = true
	p.pending.Clear()

	if p.err != nil {
		p.span.RecordError(p.err)
		p.span.SetStatus(codes.Error, p.err.Error())
		logging.Error("Orchestrator", p.err, "%s pass %s failed", p.kind, p.id)
		o.emit(p, Event{Type: EventPassFailed, Error: p.err.Error()})
	} else {
		p.span.SetStatus(codes.Ok, "")
		logging.Info("Orchestrator", "Completed %s pass %s, %d entry points started", p.kind, p.id, o.started.Len())
		o.emit(p, Event{Type: EventPassCompleted})
	}
	p.span.End()
}

// advance activates (or deactivates) candidates until discovery stops
// yielding new ones. It is re-entered from every contribution and withdrawal.
func (o *Orchestrator) advance(p *pass) error {
	for p.err == nil {
		var candidates []string
		if p.kind == startPass {
			candidates = p.tree.StartCandidates(p.pending.Items(), o.started, o.slots)
		} else {
			candidates = p.tree.StopCandidates(p.pending.Items(), o.started, o.slots)
		}

		progressed := false
		for _, name := range candidates {
			if p.err != nil {
				break
			}
			var err error
			if p.kind == startPass {
				// A nested widening may already have activated it.
				if o.started.Has(name) {
					continue
				}
				err = o.activate(p, name)
			} else {
				if !o.started.Has(name) {
					continue
				}
				err = o.deactivate(p, name)
			}
			if err != nil {
				p.fail(err)
				break
			}
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return p.err
}

func (o *Orchestrator) activate(p *pass, name string) (err error) {
	ep, ok := o.registry.Get(name)
	if !ok {
		return &NotFoundError{EntryPoint: name}
	}

	_, span := o.tracer.Start(p.ctx, tracing.SpanEntryPointStart, trace.WithAttributes(
		attribute.String(tracing.AttrEntryPoint, name),
		attribute.String(tracing.AttrLayer, ep.Layer),
	))
	defer func() { endSpan(span, err) }()

	o.started.Add(name)
	o.emit(p, Event{Type: EventEntryPointStarted, EntryPoint: name})
	logging.Debug("Orchestrator", "Starting entry point %s", name)

	deps := &dependencyShell{store: o.slots, entryPoint: ep}
	if ep.Run != nil {
		if err := ep.Run(deps); err != nil {
			return fmt.Errorf("entry point %s run: %w", name, err)
		}
	}

	shell := &contributeShell{
		o:          o,
		pass:       p,
		entryPoint: ep,
		deps:       deps,
		remaining:  dependency.NewSet(slotNames(ep.Contributes)...),
	}
	if ep.Contribute != nil {
		if err := ep.Contribute(shell); err != nil {
			return fmt.Errorf("entry point %s contribute: %w", name, err)
		}
	}
	if p.err != nil {
		return p.err
	}
	if shell.remaining.Len() > 0 {
		return &entrypoint.ContractError{
			Kind:       entrypoint.KindMissingContribution,
			EntryPoint: name,
			Slot:       shell.remaining.Items()[0],
		}
	}

	p.pending.Remove(name)
	return nil
}

func (o *Orchestrator) deactivate(p *pass, name string) (err error) {
	ep, ok := o.registry.Get(name)
	if !ok {
		return &NotFoundError{EntryPoint: name}
	}

	_, span := o.tracer.Start(p.ctx, tracing.SpanEntryPointStop, trace.WithAttributes(
		attribute.String(tracing.AttrEntryPoint, name),
		attribute.String(tracing.AttrLayer, ep.Layer),
	))
	defer func() { endSpan(span, err) }()

	o.started.Remove(name)
	o.emit(p, Event{Type: EventEntryPointStopped, EntryPoint: name})
	logging.Debug("Orchestrator", "Stopping entry point %s", name)

	remaining := dependency.NewSet(o.slots.ownedBy(name)...)
	shell := &withdrawShell{o: o, pass: p, entryPoint: ep, remaining: remaining}

	if ep.Withdraw != nil {
		if err := ep.Withdraw(shell); err != nil {
			return fmt.Errorf("entry point %s withdraw: %w", name, err)
		}
	} else {
		// Without a callback the orchestrator retracts the slots itself.
		for _, slot := range remaining.Items() {
			if err := shell.Withdraw(entrypoint.Slot(slot)); err != nil {
				return err
			}
		}
	}
	if p.err != nil {
		return p.err
	}
	if remaining.Len() > 0 {
		return &entrypoint.ContractError{
			Kind:       entrypoint.KindMissingWithdrawal,
			EntryPoint: name,
			Slot:       remaining.Items()[0],
		}
	}

	p.pending.Remove(name)
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func slotNames(keys []entrypoint.SlotKey) []string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name)
	}
	return names
}
