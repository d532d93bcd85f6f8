// Package entrypoint defines the contract between components and the
// orchestrator.
//
// A component is described by an EntryPoint: the slots it contributes, the
// slots it depends on and up to three optional callbacks. Slots are joined by
// name only; two SlotKey values with the same Name refer to the same slot.
//
// # Callbacks
//
//   - Run: called once every dependency is contributed; reads slots through a
//     RunShell restricted to the declared dependencies.
//   - Contribute: called after Run; must register a Factory for each declared
//     contribution through the ContributeShell.
//   - Withdraw: called during teardown; retracts the declared contributions.
//
// # Example
//
//	var (
//	    DBSlot   = entrypoint.Slot("db")
//	    RepoSlot = entrypoint.Slot("repo")
//	)
//
//	repo := entrypoint.EntryPoint{
//	    Name:        "repo",
//	    DependsOn:   []entrypoint.SlotKey{DBSlot},
//	    Contributes: []entrypoint.SlotKey{RepoSlot},
//	    Contribute: func(shell entrypoint.ContributeShell) error {
//	        return shell.Contribute(RepoSlot, func(deps entrypoint.RunShell) (any, error) {
//	            db, err := entrypoint.Get[*sql.DB](deps, DBSlot)
//	            if err != nil {
//	                return nil, err
//	            }
//	            return NewRepository(db), nil
//	        })
//	    },
//	}
//
// Violations of the declared contract surface as *ContractError.
package entrypoint
