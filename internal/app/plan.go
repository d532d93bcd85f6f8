package app

import (
	"modject/internal/manifest"
	"modject/pkg/logging"
	"modject/pkg/orchestrator"
)

// Plan action names.
const (
	ActionStart = "start"
	ActionStop  = "stop"
)

// planRecorder turns orchestrator events into plan steps.
type planRecorder struct {
	active bool
	steps  []PlanStep
	layers map[string]string
}

func (r *planRecorder) listen(ev orchestrator.Event) {
	if !r.active {
		return
	}
	switch ev.Type {
	case orchestrator.EventEntryPointStarted, orchestrator.EventEntryPointStopped:
		action := ActionStart
		if ev.Type == orchestrator.EventEntryPointStopped {
			action = ActionStop
		}
		r.steps = append(r.steps, PlanStep{
			Step:       len(r.steps) + 1,
			Action:     action,
			EntryPoint: ev.EntryPoint,
			Layer:      r.layers[ev.EntryPoint],
		})
	case orchestrator.EventSlotContributed, orchestrator.EventSlotWithdrawn:
		// Withdrawals may interleave with nested deactivations, so match by name.
		for i := len(r.steps) - 1; i >= 0; i-- {
			if r.steps[i].EntryPoint == ev.EntryPoint {
				r.steps[i].Slots = append(r.steps[i].Slots, ev.Slot)
				break
			}
		}
	}
}

// PlanStart dry-runs starting targets, or every entry point when targets is
// empty, and returns the activation order. Entry points are inert, so nothing
// but placeholders is created. A failing pass is reported in Plan.Error with
// the steps taken before the failure.
func (a *Application) PlanStart(path string, targets []string) (*Plan, error) {
	return a.plan(path, ActionStart, targets)
}

// PlanStop starts every entry point that can start, then dry-runs stopping
// targets, or all of them when targets is empty, and returns the teardown
// order.
func (a *Application) PlanStop(path string, targets []string) (*Plan, error) {
	return a.plan(path, ActionStop, targets)
}

func (a *Application) plan(path, action string, targets []string) (*Plan, error) {
	m, err := a.Load(path)
	if err != nil {
		return nil, err
	}

	rec := &planRecorder{layers: layersByName(m)}
	o, err := a.NewOrchestrator(m, orchestrator.WithListener(rec.listen))
	if err != nil {
		return nil, err
	}

	all := make([]string, 0, len(m.EntryPoints))
	for _, ep := range o.GetEntryPoints() {
		all = append(all, ep.Name)
	}
	if len(targets) == 0 {
		targets = all
	}

	plan := &Plan{File: path, Action: action, Targets: targets}

	if action == ActionStop {
		// Bring up whatever can start; entry points waiting on unprovided
		// slots stay stopped and are simply not part of the teardown.
		if err := o.StartEntryPoints(all, nil); err != nil {
			logging.Debug("Plan", "Not every entry point could start before planning the stop: %v", err)
		}
		rec.active = true
		err = o.StopEntryPoints(targets, nil)
	} else {
		rec.active = true
		err = o.StartEntryPoints(targets, nil)
	}
	rec.active = false

	plan.Steps = rec.steps
	if plan.Steps == nil {
		plan.Steps = []PlanStep{}
	}
	if err != nil {
		plan.Error = err.Error()
		logging.Warn("Plan", "%s plan for %s failed after %d steps: %v", action, path, len(plan.Steps), err)
	} else {
		logging.Info("Plan", "%s plan for %s has %d steps", action, path, len(plan.Steps))
	}
	return plan, nil
}

func layersByName(m *manifest.Manifest) map[string]string {
	layers := make(map[string]string, len(m.EntryPoints))
	for _, ep := range m.EntryPoints {
		layers[ep.Name] = ep.Layer
	}
	return layers
}
