// Package orchestrator starts and stops entry points in dependency order.
//
// Entry points are registered with AddEntryPoints and activated on demand with
// StartEntryPoints. A request names only the entry points the caller wants;
// the orchestrator activates whatever contributes the slots they depend on,
// transitively, and nothing else.
//
// # Passes
//
// Every StartEntryPoints and StopEntryPoints call is one pass:
//
//  1. The dependency tree is rebuilt from the registry and checked for cycles.
//  2. Candidates are discovered from the pending names.
//  3. Each candidate is activated: Run, then Contribute. Every contribution
//     re-runs discovery, so entry points unblocked by it start right away.
//  4. When discovery yields nothing new the pass ends. Requested names still
//     pending at that point fail the pass with *UnsatisfiedError.
//  5. The completion callback runs.
//
// Stop passes mirror this. Consumers are deactivated before the entry points
// contributing the slots they hold; Withdraw retracts slots and re-runs
// discovery. An entry point without a Withdraw callback has its slots
// retracted automatically.
//
// # Re-entrancy
//
// While a pass runs, AddEntryPoints, RemoveEntryPoints, DefineLayers and new
// passes fail with *BusyError, also when called from callbacks or listeners.
// The first error raised during a pass is the one the pass returns, even if a
// callback swallowed it. Entry points started or stopped before the failure
// keep their new state.
//
// # Layers
//
// DefineLayers declares an ordered list of layers before registration. Every
// entry point must then name one of them, and may only depend on slots tagged
// with its own layer or an earlier one.
//
// # Slots
//
// A contributed slot is backed by its factory. Singleton slots call the
// factory on first read and cache the result; multi slots call it on every
// read. Factories receive the dependency view of the contributing entry point.
//
// # Observability
//
// WithListener receives an Event for pass boundaries, activations,
// deactivations, contributions and withdrawals. WithTracer records a span per
// pass with a child span per entry point.
//
// # Example
//
//	o := orchestrator.New()
//	if err := o.AddEntryPoints([]entrypoint.EntryPoint{db, repo, api}); err != nil {
//	    return err
//	}
//	err := o.StartEntryPoint("api", func(slots entrypoint.RunShell) error {
//	    srv, err := entrypoint.Get[*http.Server](slots, APISlot)
//	    if err != nil {
//	        return err
//	    }
//	    go srv.ListenAndServe()
//	    return nil
//	})
package orchestrator
