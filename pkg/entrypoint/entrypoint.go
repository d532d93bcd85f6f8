package entrypoint

import "fmt"

// SlotKey identifies a capability. Two keys with the same Name denote the same
// slot regardless of how they were constructed.
type SlotKey struct {
	// Name is the slot identity.
	Name string `json:"name" yaml:"name"`
	// Multi makes every Get invoke the factory again instead of caching one value.
	Multi bool `json:"multi,omitempty" yaml:"multi,omitempty"`
	// Layer optionally tags the slot with the architectural layer it belongs to.
	Layer string `json:"layer,omitempty" yaml:"layer,omitempty"`
}

// String returns the slot name.
func (k SlotKey) String() string {
	return k.Name
}

// Slot returns a singleton slot key.
func Slot(name string) SlotKey {
	return SlotKey{Name: name}
}

// MultiSlot returns a slot key whose factory runs on every access.
func MultiSlot(name string) SlotKey {
	return SlotKey{Name: name, Multi: true}
}

// Factory produces the value behind a contributed slot. The shell it receives
// reads the dependencies of the contributing entry point.
//
// A singleton slot is locked while its factory runs. The factory must not read
// its own slot through a shell captured elsewhere, such as Orchestrator.Slots,
// directly or through another factory: that read blocks forever.
type Factory func(shell RunShell) (any, error)

// RunShell reads slot values.
type RunShell interface {
	Get(key SlotKey) (any, error)
}

// ContributeShell accepts the slot contributions of one entry point.
type ContributeShell interface {
	Contribute(key SlotKey, factory Factory) error
}

// WithdrawShell retracts the slot contributions of one entry point.
type WithdrawShell interface {
	Withdraw(key SlotKey) error
}

// EntryPoint describes a component: the slots it contributes, the slots it
// depends on and up to three lifecycle callbacks. A nil callback means the
// entry point does not play that role.
type EntryPoint struct {
	Name        string
	Layer       string
	Contributes []SlotKey
	DependsOn   []SlotKey

	// Run fires once all dependencies are contributed. It must not contribute.
	Run func(shell RunShell) error
	// Contribute fires after Run and must contribute every slot in Contributes.
	Contribute func(shell ContributeShell) error
	// Withdraw fires during teardown and must withdraw every contributed slot.
	Withdraw func(shell WithdrawShell) error
}

// ContributesSlot reports whether the entry point declares name as a contribution.
func (ep EntryPoint) ContributesSlot(name string) bool {
	return containsSlot(ep.Contributes, name)
}

// DependsOnSlot reports whether the entry point declares name as a dependency.
func (ep EntryPoint) DependsOnSlot(name string) bool {
	return containsSlot(ep.DependsOn, name)
}

// Dependency returns the declared dependency key with the given name.
func (ep EntryPoint) Dependency(name string) (SlotKey, bool) {
	return findSlot(ep.DependsOn, name)
}

// Contribution returns the declared contribution key with the given name.
func (ep EntryPoint) Contribution(name string) (SlotKey, bool) {
	return findSlot(ep.Contributes, name)
}

func (ep EntryPoint) String() string {
	if ep.Layer == "" {
		return ep.Name
	}
	return fmt.Sprintf("%s(layer %s)", ep.Name, ep.Layer)
}

func containsSlot(keys []SlotKey, name string) bool {
	_, ok := findSlot(keys, name)
	return ok
}

func findSlot(keys []SlotKey, name string) (SlotKey, bool) {
	for _, k := range keys {
		if k.Name == name {
			return k, true
		}
	}
	return SlotKey{}, false
}

// Get reads key from shell and asserts the value's type.
func Get[T any](shell RunShell, key SlotKey) (T, error) {
	var zero T
	v, err := shell.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &ContractError{
			Kind:   KindTypeMismatch,
			Slot:   key.Name,
			Detail: fmt.Sprintf("holds %T, not %T", v, zero),
		}
	}
	return typed, nil
}

// MustGet is Get for callers that treat a failed read as a programming error.
func MustGet[T any](shell RunShell, key SlotKey) T {
	v, err := Get[T](shell, key)
	if err != nil {
		panic(err)
	}
	return v
}
