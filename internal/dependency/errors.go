package dependency

import (
	"errors"
	"fmt"
	"strings"
)

// CycleError reports every cycle found in the contribution/consumption graph.
// Each entry is a path such as "a -> b -> a" or "a -> slot (self-dependency)".
type CycleError struct {
	Cycles []string
}

func (e *CycleError) Error() string {
	lines := make([]string, 0, len(e.Cycles))
	for _, c := range e.Cycles {
		lines = append(lines, "  - "+c)
	}
	return "circular dependencies detected:\n" + strings.Join(lines, "\n")
}

// EdgeError reports an edge the tree refuses to hold: a repeated edge or a
// second contributor for a slot.
type EdgeError struct {
	From string
	To   string
	// Existing is the contributor already holding the slot, if any.
	Existing string
}

func (e *EdgeError) Error() string {
	if e.Existing != "" {
		return fmt.Sprintf("slot %s is already contributed by entry point %s, cannot also be contributed by %s",
			e.From, e.Existing, e.To)
	}
	return fmt.Sprintf("duplicate dependency edge: %s -> %s", e.From, e.To)
}

// IsCycle checks if an error is a CycleError.
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}

// IsEdge checks if an error is an EdgeError.
func IsEdge(err error) bool {
	var ee *EdgeError
	return errors.As(err, &ee)
}
