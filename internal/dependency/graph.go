package dependency

import (
	"modject/pkg/entrypoint"
	"modject/pkg/logging"
)

// Tree is the contribution/consumption graph of one orchestration pass.
//
// Entry points point at the slots they depend on and slots point at the entry
// point contributing them. Entry point names and slot names live in separate
// maps, so an entry point may share its name with a slot.
//
// A Tree is built from a snapshot of the registry and discarded at the end of
// the pass. It is not safe for concurrent use.
type Tree struct {
	// dependencies maps entry point -> slots it depends on.
	dependencies map[string]*Set
	// contributions maps entry point -> slots it contributes.
	contributions map[string]*Set
	// contributors maps slot -> contributing entry point.
	contributors map[string]*Set
	// consumers maps slot -> entry points depending on it.
	consumers map[string]*Set
}

func newTree() *Tree {
	return &Tree{
		dependencies:  make(map[string]*Set),
		contributions: make(map[string]*Set),
		contributors:  make(map[string]*Set),
		consumers:     make(map[string]*Set),
	}
}

// Build checks entryPoints for cycles and returns their tree. Cycles fail with
// *CycleError; a repeated edge or a second contributor for one slot fails with
// *EdgeError.
func Build(entryPoints []entrypoint.EntryPoint) (*Tree, error) {
	if cycles := FindCycles(entryPoints); len(cycles) > 0 {
		err := &CycleError{Cycles: cycles}
		logging.Debug("Dependency", "Rejecting graph of %d entry points: %d cycle(s)", len(entryPoints), len(cycles))
		return nil, err
	}

	t := newTree()
	for _, ep := range entryPoints {
		t.ensure(ep.Name)
		for _, slot := range ep.DependsOn {
			if !edge(t.dependencies, ep.Name, slot.Name) {
				return nil, &EdgeError{From: ep.Name, To: slot.Name}
			}
			edge(t.consumers, slot.Name, ep.Name)
		}
		for _, slot := range ep.Contributes {
			if existing := t.contributors[slot.Name]; existing.Len() > 0 {
				if existing.Has(ep.Name) {
					return nil, &EdgeError{From: slot.Name, To: ep.Name}
				}
				return nil, &EdgeError{From: slot.Name, To: ep.Name, Existing: existing.Items()[0]}
			}
			edge(t.contributors, slot.Name, ep.Name)
			edge(t.contributions, ep.Name, slot.Name)
		}
	}

	logging.Debug("Dependency", "Built tree of %d entry points and %d contributed slots", len(entryPoints), len(t.contributors))
	return t, nil
}

func (t *Tree) ensure(name string) {
	if _, ok := t.dependencies[name]; !ok {
		t.dependencies[name] = NewSet()
	}
	if _, ok := t.contributions[name]; !ok {
		t.contributions[name] = NewSet()
	}
}

// edge adds from -> to and reports false when it already existed.
func edge(m map[string]*Set, from, to string) bool {
	s, ok := m[from]
	if !ok {
		s = NewSet()
		m[from] = s
	}
	return s.Add(to)
}

// Dependencies returns the slots entry point name depends on.
func (t *Tree) Dependencies(name string) []string {
	return t.dependencies[name].Items()
}

// Contributions returns the slots entry point name contributes.
func (t *Tree) Contributions(name string) []string {
	return t.contributions[name].Items()
}

// Contributor returns the entry point contributing slot, if any.
func (t *Tree) Contributor(slot string) (string, bool) {
	items := t.contributors[slot].Items()
	if len(items) == 0 {
		return "", false
	}
	return items[0], true
}

// Consumers returns the entry points depending on slot.
func (t *Tree) Consumers(slot string) []string {
	return t.consumers[slot].Items()
}

// StartCandidates returns the entry points that can be activated now on behalf
// of targets.
//
// A candidate is not started and every slot it depends on is contributed.
// Discovery starts at targets and, for every dependency that is not yet
// contributed, recurses into that slot's contributor even when it was not
// requested. Each entry point is examined at most once per call. Target names
// unknown to the tree have no dependencies and are returned as candidates so
// the caller can report them.
func (t *Tree) StartCandidates(targets []string, started, contributed Membership) []string {
	candidates := NewSet()
	seen := NewSet()

	var process func(name string)
	process = func(name string) {
		if !seen.Add(name) {
			return
		}
		deps := t.dependencies[name]
		if !started.Has(name) && allOf(deps, contributed) {
			candidates.Add(name)
		}
		for _, slot := range deps.Items() {
			if contributed.Has(slot) {
				continue
			}
			for _, provider := range t.contributors[slot].Items() {
				process(provider)
			}
		}
	}

	for _, name := range targets {
		process(name)
	}
	return candidates.Items()
}

// StopCandidates returns the entry points that can be deactivated now on
// behalf of targets.
//
// A candidate is started and none of its still-contributed slots is held by a
// started consumer. For every such held slot discovery recurses into the
// started consumers, since they have to be stopped first. Each entry point is
// examined at most once per call.
func (t *Tree) StopCandidates(targets []string, started, contributed Membership) []string {
	candidates := NewSet()
	seen := NewSet()

	var process func(name string)
	process = func(name string) {
		if !seen.Add(name) {
			return
		}
		if !started.Has(name) {
			return
		}

		free := true
		for _, slot := range t.contributions[name].Items() {
			if !contributed.Has(slot) {
				continue
			}
			for _, consumer := range t.consumers[slot].Items() {
				if consumer == name || !started.Has(consumer) {
					continue
				}
				free = false
				process(consumer)
			}
		}
		if free {
			candidates.Add(name)
		}
	}

	for _, name := range targets {
		process(name)
	}
	return candidates.Items()
}

func allOf(s *Set, members Membership) bool {
	for _, item := range s.Items() {
		if !members.Has(item) {
			return false
		}
	}
	return true
}
