package orchestrator

import (
	"sync"

	"modject/internal/dependency"
	"modject/pkg/entrypoint"
	"modject/pkg/logging"
)

// slotEntry is the factory behind one contributed slot. Singleton values are
// cached after the first successful call; failures are not cached. mu is held
// while a singleton factory runs, so concurrent readers wait for one value.
type slotEntry struct {
	key     entrypoint.SlotKey
	owner   string
	factory entrypoint.Factory
	deps    entrypoint.RunShell

	mu    sync.Mutex
	ready bool
	value any
}

func (e *slotEntry) get() (any, error) {
	if e.key.Multi {
		return e.factory(e.deps)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready {
		return e.value, nil
	}
	v, err := e.factory(e.deps)
	if err != nil {
		return nil, err
	}
	e.value, e.ready = v, true
	return v, nil
}

// slotStore holds the contributed slots. It is the only orchestrator state
// touched outside a pass, by components reading slots through captured shells.
type slotStore struct {
	mu      sync.RWMutex
	names   *dependency.Set
	entries map[string]*slotEntry
}

func newSlotStore() *slotStore {
	return &slotStore{
		names:   dependency.NewSet(),
		entries: make(map[string]*slotEntry),
	}
}

func (s *slotStore) put(e *slotEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names.Add(e.key.Name)
	s.entries[e.key.Name] = e
}

func (s *slotStore) remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; !ok {
		return false
	}
	s.names.Remove(name)
	delete(s.entries, name)
	return true
}

func (s *slotStore) lookup(name string) (*slotEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	return e, ok
}

// Has reports whether the slot is contributed.
func (s *slotStore) Has(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

// ownedBy returns the slots contributed by owner, in contribution order.
func (s *slotStore) ownedBy(owner string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for _, name := range s.names.Items() {
		if s.entries[name].owner == owner {
			names = append(names, name)
		}
	}
	return names
}

func (s *slotStore) list() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names.Items()
}

// completionShell reads any contributed slot.
type completionShell struct {
	store *slotStore
}

func (c *completionShell) Get(key entrypoint.SlotKey) (any, error) {
	e, ok := c.store.lookup(key.Name)
	if !ok {
		return nil, &entrypoint.ContractError{Kind: entrypoint.KindNotContributed, Slot: key.Name}
	}
	return e.get()
}

// dependencyShell reads the slots one entry point declared as dependencies.
type dependencyShell struct {
	store      *slotStore
	entryPoint entrypoint.EntryPoint
}

func (d *dependencyShell) Get(key entrypoint.SlotKey) (any, error) {
	if !d.entryPoint.DependsOnSlot(key.Name) {
		return nil, &entrypoint.ContractError{
			Kind:       entrypoint.KindUndeclaredDependency,
			EntryPoint: d.entryPoint.Name,
			Slot:       key.Name,
		}
	}
	e, ok := d.store.lookup(key.Name)
	if !ok {
		return nil, &entrypoint.ContractError{
			Kind:       entrypoint.KindNotContributed,
			EntryPoint: d.entryPoint.Name,
			Slot:       key.Name,
		}
	}
	return e.get()
}

// contributeShell accepts the declared contributions of one entry point
// during its activation.
type contributeShell struct {
	o          *Orchestrator
	pass       *pass
	entryPoint entrypoint.EntryPoint
	deps       entrypoint.RunShell
	remaining  *dependency.Set
}

func (c *contributeShell) Contribute(key entrypoint.SlotKey, factory entrypoint.Factory) error {
	if c.pass.done {
		return ErrPassFinished
	}

	name := c.entryPoint.Name
	var kind entrypoint.ContractKind
	switch {
	case !c.entryPoint.ContributesSlot(key.Name):
		kind = entrypoint.KindUndeclaredContribution
	case !c.remaining.Has(key.Name):
		kind = entrypoint.KindDuplicateContribution
	case factory == nil:
		kind = entrypoint.KindNilFactory
	}
	if kind != "" {
		err := &entrypoint.ContractError{Kind: kind, EntryPoint: name, Slot: key.Name}
		c.pass.fail(err)
		return err
	}

	c.remaining.Remove(key.Name)
	c.o.slots.put(&slotEntry{key: key, owner: name, factory: factory, deps: c.deps})
	c.o.emit(c.pass, Event{Type: EventSlotContributed, EntryPoint: name, Slot: key.Name})
	logging.Debug("Orchestrator", "Entry point %s contributed slot %s", name, key.Name)

	return c.o.advance(c.pass)
}

// withdrawShell retracts the contributions of one entry point during its
// deactivation.
type withdrawShell struct {
	o          *Orchestrator
	pass       *pass
	entryPoint entrypoint.EntryPoint
	remaining  *dependency.Set
}

func (w *withdrawShell) Withdraw(key entrypoint.SlotKey) error {
	if w.pass.done {
		return ErrPassFinished
	}

	name := w.entryPoint.Name
	var kind entrypoint.ContractKind
	switch {
	case !w.entryPoint.ContributesSlot(key.Name):
		kind = entrypoint.KindUndeclaredWithdrawal
	case !w.remaining.Has(key.Name):
		kind = entrypoint.KindNotContributed
	}
	if kind != "" {
		err := &entrypoint.ContractError{Kind: kind, EntryPoint: name, Slot: key.Name}
		w.pass.fail(err)
		return err
	}

	w.remaining.Remove(key.Name)
	w.o.slots.remove(key.Name)
	w.o.emit(w.pass, Event{Type: EventSlotWithdrawn, EntryPoint: name, Slot: key.Name})
	logging.Debug("Orchestrator", "Entry point %s withdrew slot %s", name, key.Name)

	return w.o.advance(w.pass)
}
