package orchestrator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"modject/pkg/entrypoint"
)

// recorder captures the order in which callbacks fire.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// provider contributes each slot with a factory returning "<name>:<slot>".
func provider(r *recorder, name string, contributes []string, dependsOn ...string) entrypoint.EntryPoint {
	ep := entrypoint.EntryPoint{Name: name}
	for _, s := range contributes {
		ep.Contributes = append(ep.Contributes, entrypoint.Slot(s))
	}
	for _, s := range dependsOn {
		ep.DependsOn = append(ep.DependsOn, entrypoint.Slot(s))
	}
	ep.Contribute = func(shell entrypoint.ContributeShell) error {
		r.add("start %s", name)
		for _, s := range contributes {
			slot := s
			if err := shell.Contribute(entrypoint.Slot(slot), func(entrypoint.RunShell) (any, error) {
				return name + ":" + slot, nil
			}); err != nil {
				return err
			}
		}
		return nil
	}
	ep.Withdraw = func(shell entrypoint.WithdrawShell) error {
		r.add("stop %s", name)
		for _, s := range contributes {
			if err := shell.Withdraw(entrypoint.Slot(s)); err != nil {
				return err
			}
		}
		return nil
	}
	return ep
}

// consumer only runs.
func consumer(r *recorder, name string, dependsOn ...string) entrypoint.EntryPoint {
	ep := entrypoint.EntryPoint{Name: name}
	for _, s := range dependsOn {
		ep.DependsOn = append(ep.DependsOn, entrypoint.Slot(s))
	}
	ep.Run = func(entrypoint.RunShell) error {
		r.add("start %s", name)
		return nil
	}
	return ep
}

func TestStart_LinearChain(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "C", nil, "sB"),
		provider(r, "B", []string{"sB"}, "sA"),
		provider(r, "A", []string{"sA"}),
	}))

	var completed bool
	err := o.StartEntryPoint("C", func(shell entrypoint.RunShell) error {
		completed = true
		v, err := shell.Get(entrypoint.Slot("sB"))
		require.NoError(t, err)
		assert.Equal(t, "B:sB", v)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, []string{"start A", "start B", "start C"}, r.calls)
	assert.Equal(t, []string{"A", "B", "C"}, o.GetStartedEntryPoints())
	assert.Equal(t, []string{"sA", "sB"}, o.ContributedSlots())
}

func TestStart_Diamond(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "Top", []string{"sTop"}),
		provider(r, "Left", []string{"sLeft"}, "sTop"),
		provider(r, "Right", []string{"sRight"}, "sTop"),
		consumer(r, "Bottom", "sLeft", "sRight"),
	}))

	require.NoError(t, o.StartEntryPoints([]string{"Bottom"}, nil))

	require.Len(t, r.calls, 4)
	assert.Equal(t, "start Top", r.calls[0])
	assert.ElementsMatch(t, []string{"start Left", "start Right"}, r.calls[1:3])
	assert.Equal(t, "start Bottom", r.calls[3])
}

func TestStart_OnlyRequestedBranch(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "A", []string{"sA"}),
		consumer(r, "B", "sA"),
		consumer(r, "Unrelated"),
	}))

	require.NoError(t, o.StartEntryPoint("B", nil))
	assert.Equal(t, []string{"A", "B"}, o.GetStartedEntryPoints())
}

func TestStart_EmptyRequest(t *testing.T) {
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{Name: "a"}}))

	called := false
	require.NoError(t, o.StartEntryPoints(nil, func(entrypoint.RunShell) error {
		called = true
		return nil
	}))

	assert.True(t, called)
	assert.Empty(t, o.GetStartedEntryPoints())
}

func TestStart_AlreadyStarted(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{consumer(r, "a")}))
	require.NoError(t, o.StartEntryPoint("a", nil))

	called := false
	require.NoError(t, o.StartEntryPoint("a", func(entrypoint.RunShell) error {
		called = true
		return nil
	}))
	assert.True(t, called)
	assert.Equal(t, []string{"start a"}, r.calls, "a started entry point is not run again")
}

func TestStart_CompletionErrorIsReturned(t *testing.T) {
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{Name: "a"}}))

	boom := errors.New("boom")
	err := o.StartEntryPoint("a", func(entrypoint.RunShell) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, o.GetStartedEntryPoints())
}

func TestStart_NotFound(t *testing.T) {
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{Name: "a"}}))

	called := false
	err := o.StartEntryPoints([]string{"a", "ghost"}, func(entrypoint.RunShell) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "entry point ghost does not exist", err.Error())
	assert.False(t, called)
	assert.Equal(t, []string{"a"}, o.GetStartedEntryPoints(), "partial progress is kept")

	require.NoError(t, o.StartEntryPoints(nil, nil), "orchestrator stays usable after a failure")
}

func TestStart_Unsatisfied(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{consumer(r, "lonely", "nobody")}))

	err := o.StartEntryPoint("lonely", nil)
	require.Error(t, err)
	assert.True(t, IsUnsatisfied(err))

	var ue *UnsatisfiedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, []string{"lonely"}, ue.Pending)
	assert.Empty(t, r.calls)
}

func TestStart_CycleFailsBeforeAnyCallback(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "ep1", []string{"s1"}, "s2"),
		provider(r, "ep2", []string{"s2"}, "s1"),
	}))

	err := o.StartEntryPoint("ep1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ep1")
	assert.Contains(t, err.Error(), "ep2")
	assert.Empty(t, r.calls)
}

func TestStart_SelfDependency(t *testing.T) {
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name:        "A",
		Contributes: []entrypoint.SlotKey{entrypoint.Slot("S")},
		DependsOn:   []entrypoint.SlotKey{entrypoint.Slot("S")},
	}}))

	err := o.StartEntryPoint("A", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "self-dependency")
}

func TestStart_SingleContributor(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "first", []string{"S"}),
		provider(r, "second", []string{"S"}),
		consumer(r, "user", "S"),
	}))

	err := o.StartEntryPoint("user", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already contributed by entry point first")
	assert.Empty(t, r.calls)
}

func TestSlots_SingletonAndMulti(t *testing.T) {
	single := entrypoint.Slot("single")
	multi := entrypoint.MultiSlot("multi")

	var singleCalls, multiCalls int
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name:        "p",
		Contributes: []entrypoint.SlotKey{single, multi},
		Contribute: func(shell entrypoint.ContributeShell) error {
			if err := shell.Contribute(single, func(entrypoint.RunShell) (any, error) {
				singleCalls++
				return &struct{ n int }{singleCalls}, nil
			}); err != nil {
				return err
			}
			return shell.Contribute(multi, func(entrypoint.RunShell) (any, error) {
				multiCalls++
				return multiCalls, nil
			})
		},
	}}))

	require.NoError(t, o.StartEntryPoint("p", func(shell entrypoint.RunShell) error {
		first, err := shell.Get(single)
		require.NoError(t, err)
		second, err := shell.Get(single)
		require.NoError(t, err)
		assert.Same(t, first, second)

		for i := 1; i <= 3; i++ {
			v, err := shell.Get(multi)
			require.NoError(t, err)
			assert.Equal(t, i, v)
		}
		return nil
	}))

	assert.Equal(t, 1, singleCalls)
	assert.Equal(t, 3, multiCalls)
}

func TestSlots_SingletonErrorIsNotCached(t *testing.T) {
	key := entrypoint.Slot("flaky")
	attempts := 0

	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name:        "p",
		Contributes: []entrypoint.SlotKey{key},
		Contribute: func(shell entrypoint.ContributeShell) error {
			return shell.Contribute(key, func(entrypoint.RunShell) (any, error) {
				attempts++
				if attempts == 1 {
					return nil, errors.New("not yet")
				}
				return "ready", nil
			})
		},
	}}))
	require.NoError(t, o.StartEntryPoint("p", nil))

	_, err := o.Slots().Get(key)
	require.Error(t, err)

	v, err := entrypoint.Get[string](o.Slots(), key)
	require.NoError(t, err)
	assert.Equal(t, "ready", v)

	_, err = o.Slots().Get(key)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestSlots_FactoryReadsProviderDependencies(t *testing.T) {
	base := entrypoint.Slot("base")
	derived := entrypoint.Slot("derived")

	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		{
			Name:        "base",
			Contributes: []entrypoint.SlotKey{base},
			Contribute: func(shell entrypoint.ContributeShell) error {
				return shell.Contribute(base, func(entrypoint.RunShell) (any, error) { return 20, nil })
			},
		},
		{
			Name:        "derived",
			DependsOn:   []entrypoint.SlotKey{base},
			Contributes: []entrypoint.SlotKey{derived},
			Contribute: func(shell entrypoint.ContributeShell) error {
				return shell.Contribute(derived, func(deps entrypoint.RunShell) (any, error) {
					n, err := entrypoint.Get[int](deps, base)
					if err != nil {
						return nil, err
					}
					return n + 1, nil
				})
			},
		},
	}))

	require.NoError(t, o.StartEntryPoint("derived", func(shell entrypoint.RunShell) error {
		n, err := entrypoint.Get[int](shell, derived)
		require.NoError(t, err)
		assert.Equal(t, 21, n)
		return nil
	}))
}

func TestSlots_FactoryCannotReadOwnSlot(t *testing.T) {
	key := entrypoint.Slot("self")

	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name:        "p",
		Contributes: []entrypoint.SlotKey{key},
		Contribute: func(shell entrypoint.ContributeShell) error {
			return shell.Contribute(key, func(deps entrypoint.RunShell) (any, error) {
				return deps.Get(key)
			})
		},
	}}))
	require.NoError(t, o.StartEntryPoint("p", nil))

	_, err := o.Slots().Get(key)
	require.Error(t, err)
	assert.True(t, entrypoint.IsContractKind(err, entrypoint.KindUndeclaredDependency))

	// The failed read released the slot.
	_, err = o.Slots().Get(key)
	assert.True(t, entrypoint.IsContractKind(err, entrypoint.KindUndeclaredDependency))
}

func TestSlots_CompletionViewRejectsUnknownSlot(t *testing.T) {
	_, err := New().Slots().Get(entrypoint.Slot("missing"))
	require.Error(t, err)
	assert.True(t, entrypoint.IsContractKind(err, entrypoint.KindNotContributed))
	assert.Equal(t, "slot missing is not contributed", err.Error())
}

func TestContract_UndeclaredDependency(t *testing.T) {
	r := &recorder{}
	var readErr error
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "p", []string{"s"}),
		{
			Name: "sneaky",
			Run: func(shell entrypoint.RunShell) error {
				_, readErr = shell.Get(entrypoint.Slot("s"))
				return readErr
			},
		},
	}))

	require.NoError(t, o.StartEntryPoint("p", nil))
	err := o.StartEntryPoint("sneaky", nil)

	require.Error(t, err)
	assert.True(t, entrypoint.IsContractKind(err, entrypoint.KindUndeclaredDependency))
	assert.Contains(t, readErr.Error(), "slot s is not declared as dependency by entry point sneaky")
}

func TestContract_Contributions(t *testing.T) {
	declared := entrypoint.Slot("declared")
	factory := func(entrypoint.RunShell) (any, error) { return 1, nil }

	tests := []struct {
		name       string
		contribute func(shell entrypoint.ContributeShell) error
		kind       entrypoint.ContractKind
	}{
		{
			name: "undeclared slot",
			contribute: func(shell entrypoint.ContributeShell) error {
				if err := shell.Contribute(declared, factory); err != nil {
					return err
				}
				return shell.Contribute(entrypoint.Slot("other"), factory)
			},
			kind: entrypoint.KindUndeclaredContribution,
		},
		{
			name: "contributed twice",
			contribute: func(shell entrypoint.ContributeShell) error {
				if err := shell.Contribute(declared, factory); err != nil {
					return err
				}
				return shell.Contribute(declared, factory)
			},
			kind: entrypoint.KindDuplicateContribution,
		},
		{
			name: "nil factory",
			contribute: func(shell entrypoint.ContributeShell) error {
				return shell.Contribute(declared, nil)
			},
			kind: entrypoint.KindNilFactory,
		},
		{
			name:       "never contributed",
			contribute: func(entrypoint.ContributeShell) error { return nil },
			kind:       entrypoint.KindMissingContribution,
		},
		{
			name: "violation swallowed by the callback",
			contribute: func(shell entrypoint.ContributeShell) error {
				_ = shell.Contribute(entrypoint.Slot("other"), factory)
				return shell.Contribute(declared, factory)
			},
			kind: entrypoint.KindUndeclaredContribution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New()
			require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
				Name:        "p",
				Contributes: []entrypoint.SlotKey{declared},
				Contribute:  tt.contribute,
			}}))

			err := o.StartEntryPoint("p", nil)
			require.Error(t, err)
			assert.True(t, entrypoint.IsContractKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestContract_MissingContributeCallback(t *testing.T) {
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name:        "p",
		Contributes: []entrypoint.SlotKey{entrypoint.Slot("s")},
	}}))

	err := o.StartEntryPoint("p", nil)
	require.Error(t, err)
	assert.Equal(t, "entry point p did not contribute slot s", err.Error())
}

func TestStop_Symmetry(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "Provider", []string{"S"}),
		provider(r, "Consumer", nil, "S"),
	}))
	require.NoError(t, o.StartEntryPoints([]string{"Consumer"}, nil))
	require.Equal(t, []string{"S"}, o.ContributedSlots())

	stopped := false
	require.NoError(t, o.StopEntryPoints([]string{"Provider", "Consumer"}, func() error {
		stopped = true
		return nil
	}))

	assert.True(t, stopped)
	assert.Equal(t, []string{"start Provider", "start Consumer", "stop Consumer", "stop Provider"}, r.calls)
	assert.Empty(t, o.ContributedSlots())
	assert.Empty(t, o.GetStartedEntryPoints())

	_, err := o.Slots().Get(entrypoint.Slot("S"))
	assert.True(t, entrypoint.IsContractKind(err, entrypoint.KindNotContributed))
}

func TestStop_CascadesToConsumers(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "A", []string{"sA"}),
		provider(r, "B", []string{"sB"}, "sA"),
		provider(r, "C", nil, "sB"),
		provider(r, "Other", nil),
	}))
	require.NoError(t, o.StartEntryPoints([]string{"C", "Other"}, nil))
	r.calls = nil

	require.NoError(t, o.StopEntryPoints([]string{"A"}, nil))

	assert.Equal(t, []string{"stop C", "stop B", "stop A"}, r.calls)
	assert.Equal(t, []string{"Other"}, o.GetStartedEntryPoints())
}

func TestStop_AutomaticWithdrawal(t *testing.T) {
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name:        "p",
		Contributes: []entrypoint.SlotKey{entrypoint.Slot("s")},
		Contribute: func(shell entrypoint.ContributeShell) error {
			return shell.Contribute(entrypoint.Slot("s"), func(entrypoint.RunShell) (any, error) { return 1, nil })
		},
	}}))
	require.NoError(t, o.StartEntryPoint("p", nil))

	require.NoError(t, o.StopEntryPoints([]string{"p"}, nil))
	assert.Empty(t, o.ContributedSlots())
}

func TestStop_MissingWithdrawal(t *testing.T) {
	r := &recorder{}
	ep := provider(r, "p", []string{"s"})
	ep.Withdraw = func(entrypoint.WithdrawShell) error { return nil }

	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{ep}))
	require.NoError(t, o.StartEntryPoint("p", nil))

	err := o.StopEntryPoints([]string{"p"}, nil)
	require.Error(t, err)
	assert.True(t, entrypoint.IsContractKind(err, entrypoint.KindMissingWithdrawal))
	assert.Empty(t, o.GetStartedEntryPoints(), "the entry point is marked stopped before withdrawing")
}

func TestStop_UndeclaredWithdrawal(t *testing.T) {
	r := &recorder{}
	ep := provider(r, "p", []string{"s"})
	ep.Withdraw = func(shell entrypoint.WithdrawShell) error {
		return shell.Withdraw(entrypoint.Slot("other"))
	}

	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{ep}))
	require.NoError(t, o.StartEntryPoint("p", nil))

	err := o.StopEntryPoints([]string{"p"}, nil)
	assert.True(t, entrypoint.IsContractKind(err, entrypoint.KindUndeclaredWithdrawal))
}

func TestStop_EmptyRequest(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{consumer(r, "a")}))
	require.NoError(t, o.StartEntryPoint("a", nil))

	called := false
	require.NoError(t, o.StopEntryPoints(nil, func() error {
		called = true
		return nil
	}))

	assert.True(t, called)
	assert.Equal(t, []string{"a"}, o.GetStartedEntryPoints())
}

func TestStop_NotFound(t *testing.T) {
	o := New()

	err := o.StopEntryPoints([]string{"ghost"}, nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestStop_NotStartedIsNoop(t *testing.T) {
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{Name: "idle"}}))

	called := false
	require.NoError(t, o.StopEntryPoints([]string{"idle"}, func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestStopAllEntryPoints(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "A", []string{"sA"}),
		provider(r, "B", []string{"sB"}, "sA"),
		provider(r, "C", nil, "sB"),
	}))
	require.NoError(t, o.StartEntryPoint("C", nil))
	r.calls = nil

	require.NoError(t, o.StopAllEntryPoints(nil))

	assert.Equal(t, []string{"stop C", "stop B", "stop A"}, r.calls)
	assert.Empty(t, o.GetStartedEntryPoints())
	assert.Empty(t, o.ContributedSlots())
}

func TestRestartAfterStop(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{
		provider(r, "A", []string{"sA"}),
		provider(r, "B", nil, "sA"),
	}))

	require.NoError(t, o.StartEntryPoint("B", nil))
	require.NoError(t, o.StopAllEntryPoints(nil))
	require.NoError(t, o.StartEntryPoint("B", nil))

	assert.Equal(t, []string{"A", "B"}, o.GetStartedEntryPoints())
	assert.Equal(t, []string{"start A", "start B", "stop B", "stop A", "start A", "start B"}, r.calls)
}

func TestBusyGuard_FromCallbacks(t *testing.T) {
	tests := []struct {
		name string
		call func(o *Orchestrator) error
		op   string
	}{
		{name: "add", call: func(o *Orchestrator) error { return o.AddEntryPoints(nil) }, op: "add entry points"},
		{name: "remove", call: func(o *Orchestrator) error { return o.RemoveEntryPoints(nil) }, op: "remove entry points"},
		{name: "layers", call: func(o *Orchestrator) error { return o.DefineLayers(nil) }, op: "define layers"},
		{name: "start", call: func(o *Orchestrator) error { return o.StartEntryPoints(nil, nil) }, op: "start entry points"},
		{name: "stop", call: func(o *Orchestrator) error { return o.StopEntryPoints(nil, nil) }, op: "stop entry points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New()
			var inner error
			require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
				Name: "a",
				Run: func(entrypoint.RunShell) error {
					inner = tt.call(o)
					// Swallowed on purpose: the pass must still fail.
					return nil
				},
			}}))

			err := o.StartEntryPoint("a", nil)
			require.Error(t, err)
			assert.True(t, IsBusy(inner))
			assert.True(t, IsBusy(err))
			assert.Equal(t, fmt.Sprintf("cannot %s when starting or stopping entry points", tt.op), err.Error())

			assert.False(t, IsBusy(tt.call(o)), "the guard is released once the pass returns")
		})
	}
}

func TestBusyGuard_DuringStop(t *testing.T) {
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name:        "a",
		Contributes: []entrypoint.SlotKey{entrypoint.Slot("s")},
		Contribute: func(shell entrypoint.ContributeShell) error {
			return shell.Contribute(entrypoint.Slot("s"), func(entrypoint.RunShell) (any, error) { return nil, nil })
		},
		Withdraw: func(shell entrypoint.WithdrawShell) error {
			if err := o.StartEntryPoints([]string{"a"}, nil); err == nil {
				t.Error("expected busy error")
			}
			return shell.Withdraw(entrypoint.Slot("s"))
		},
	}}))
	require.NoError(t, o.StartEntryPoint("a", nil))

	err := o.StopAllEntryPoints(nil)
	assert.True(t, IsBusy(err))
}

func TestCompletionCallbackMayStartMore(t *testing.T) {
	r := &recorder{}
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{consumer(r, "first"), consumer(r, "second")}))

	require.NoError(t, o.StartEntryPoint("first", func(entrypoint.RunShell) error {
		return o.StartEntryPoint("second", nil)
	}))
	assert.Equal(t, []string{"first", "second"}, o.GetStartedEntryPoints())
}

func TestContributeShellAfterPass(t *testing.T) {
	var captured entrypoint.ContributeShell
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name:        "p",
		Contributes: []entrypoint.SlotKey{entrypoint.Slot("s")},
		Contribute: func(shell entrypoint.ContributeShell) error {
			captured = shell
			return shell.Contribute(entrypoint.Slot("s"), func(entrypoint.RunShell) (any, error) { return 1, nil })
		},
	}}))
	require.NoError(t, o.StartEntryPoint("p", nil))

	err := captured.Contribute(entrypoint.Slot("s"), func(entrypoint.RunShell) (any, error) { return 2, nil })
	assert.ErrorIs(t, err, ErrPassFinished)
}

func TestRunErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	o := New()
	require.NoError(t, o.AddEntryPoints([]entrypoint.EntryPoint{{
		Name: "a",
		Run:  func(entrypoint.RunShell) error { return boom },
	}}))

	err := o.StartEntryPoint("a", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "entry point a run: boom", err.Error())
}

// chainGraph draws an acyclic graph where entry point i contributes si and
// depends on a random subset of the slots of entry points before it.
func chainGraph(rt *rapid.T, r *recorder) ([]entrypoint.EntryPoint, map[string][]string) {
	n := rapid.IntRange(1, 10).Draw(rt, "n")
	deps := make(map[string][]string, n)
	eps := make([]entrypoint.EntryPoint, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("e%d", i)
		var dependsOn []string
		for j := 0; j < i; j++ {
			if rapid.Bool().Draw(rt, fmt.Sprintf("dep_%d_%d", i, j)) {
				dependsOn = append(dependsOn, fmt.Sprintf("s%d", j))
				deps[name] = append(deps[name], fmt.Sprintf("e%d", j))
			}
		}
		eps = append(eps, provider(r, name, []string{fmt.Sprintf("s%d", i)}, dependsOn...))
	}
	// Shuffle registration order so activation order cannot lean on it.
	perm := rapid.Permutation(eps).Draw(rt, "order")
	return perm, deps
}

func TestProperty_StartStopOrdering(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := &recorder{}
		eps, deps := chainGraph(rt, r)

		o := New()
		if err := o.AddEntryPoints(eps); err != nil {
			rt.Fatalf("AddEntryPoints: %v", err)
		}

		target := eps[rapid.IntRange(0, len(eps)-1).Draw(rt, "target")].Name
		if err := o.StartEntryPoint(target, nil); err != nil {
			rt.Fatalf("StartEntryPoint(%s): %v", target, err)
		}

		position := map[string]int{}
		for i, name := range o.GetStartedEntryPoints() {
			position[name] = i
		}
		if _, ok := position[target]; !ok {
			rt.Fatalf("target %s not started", target)
		}
		for name, pos := range position {
			for _, dep := range deps[name] {
				depPos, ok := position[dep]
				if !ok || depPos > pos {
					rt.Fatalf("%s started before its provider %s", name, dep)
				}
			}
		}

		r.calls = nil
		if err := o.StopAllEntryPoints(nil); err != nil {
			rt.Fatalf("StopAllEntryPoints: %v", err)
		}
		if len(o.GetStartedEntryPoints()) != 0 || len(o.ContributedSlots()) != 0 {
			rt.Fatalf("teardown left state behind: %v %v", o.GetStartedEntryPoints(), o.ContributedSlots())
		}

		stopPos := map[string]int{}
		for i, call := range r.calls {
			stopPos[call[len("stop "):]] = i
		}
		for name := range position {
			for _, dep := range deps[name] {
				if stopPos[dep] < stopPos[name] {
					rt.Fatalf("%s stopped before its consumer %s", dep, name)
				}
			}
		}
	})
}
