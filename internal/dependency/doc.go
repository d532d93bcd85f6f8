// Package dependency provides the dependency tree used by the orchestrator to
// decide which entry points can start or stop next.
//
// The tree is rebuilt from the registered entry points on every start and stop
// request and thrown away afterwards. It never executes anything; it only
// answers questions about the graph.
//
// # Core Concepts
//
// Tree: entry points point at the slots they depend on, slots point at the
// entry point contributing them. Edges are matched by slot name only.
//
// Set: an insertion-ordered string set. Candidate order follows traversal
// order, which keeps activation order deterministic.
//
// # Dependency Rules
//
// The tree enforces these rules:
//
//  1. No circular dependencies (FindCycles runs before any edge is added)
//  2. An entry point may not depend on a slot it contributes (self-dependency)
//  3. A slot has at most one contributing entry point
//  4. An entry point can start once every slot it depends on is contributed
//  5. An entry point can stop once no started consumer holds its slots
//
// # Operations
//
// FindCycles: depth-first search with visiting/visited sets
//   - Reports every cycle as "a -> b -> a"
//   - Reports self-dependencies as "a -> slot (self-dependency)"
//
// Build: cycle check, then edge construction
//   - Returns *CycleError listing every cycle
//   - Returns *EdgeError for repeated edges and second contributors
//
// StartCandidates: demand-driven activation frontier
//   - Recurses from targets into the contributors of missing slots
//   - Returns not-started entry points whose dependencies are all contributed
//
// StopCandidates: demand-driven teardown frontier
//   - Recurses from targets into the started consumers of held slots
//   - Returns started entry points whose slots nobody started still holds
//
// # Usage Example
//
//	tree, err := dependency.Build(entryPoints)
//	if err != nil {
//	    return err // *CycleError or *EdgeError
//	}
//
//	started := dependency.NewSet()
//	contributed := dependency.NewSet()
//	next := tree.StartCandidates([]string{"ui"}, started, contributed)
//
// # Thread Safety
//
// Tree and Set are not safe for concurrent use. The orchestrator owns both for
// the duration of a single pass.
package dependency
