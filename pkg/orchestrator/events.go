package orchestrator

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a lifecycle event.
type EventType string

const (
	EventPassStarted       EventType = "pass.started"
	EventPassCompleted     EventType = "pass.completed"
	EventPassFailed        EventType = "pass.failed"
	EventEntryPointStarted EventType = "entrypoint.started"
	EventEntryPointStopped EventType = "entrypoint.stopped"
	EventSlotContributed   EventType = "slot.contributed"
	EventSlotWithdrawn     EventType = "slot.withdrawn"
)

// Event is delivered synchronously to listeners while a pass runs.
type Event struct {
	ID        string    `json:"id"`
	PassID    string    `json:"passId"`
	Pass      string    `json:"pass"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	EntryPoint string `json:"entryPoint,omitempty"`
	Slot       string `json:"slot,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Listener receives lifecycle events. It runs inside the pass, so calls that
// mutate the orchestrator fail with *BusyError.
type Listener func(Event)

func (o *Orchestrator) emit(p *pass, ev Event) {
	if len(o.listeners) == 0 {
		return
	}
	ev.ID = uuid.NewString()
	ev.PassID = p.id
	ev.Pass = p.kind.String()
	ev.Timestamp = time.Now()
	for _, l := range o.listeners {
		l(ev)
	}
}
