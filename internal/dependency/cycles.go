package dependency

import (
	"fmt"
	"strings"

	"modject/pkg/entrypoint"
)

// FindCycles walks entry points depth-first through the slots they depend on
// and returns every cycle it meets. An entry point depending on a slot it
// contributes itself is reported as a self-dependency and that edge is not
// followed. Detection continues past the first cycle.
func FindCycles(entryPoints []entrypoint.EntryPoint) []string {
	byName := make(map[string]entrypoint.EntryPoint, len(entryPoints))
	for _, ep := range entryPoints {
		byName[ep.Name] = ep
	}

	var cycles []string
	visited := NewSet()
	visiting := NewSet()

	var visit func(name string, path []string) []string
	visit = func(name string, path []string) []string {
		if visiting.Has(name) {
			start := indexOf(path, name)
			cycle := append(append([]string{}, path[start:]...), name)
			cycles = append(cycles, strings.Join(cycle, " -> "))
			return path
		}
		if visited.Has(name) {
			return path
		}
		ep, ok := byName[name]
		if !ok {
			return path
		}

		visiting.Add(name)
		path = append(path, name)

		for _, slot := range ep.DependsOn {
			if ep.ContributesSlot(slot.Name) {
				cycles = append(cycles, fmt.Sprintf("%s -> %s (self-dependency)", name, slot.Name))
				continue
			}
			for _, other := range entryPoints {
				if other.ContributesSlot(slot.Name) {
					path = visit(other.Name, path)
				}
			}
		}

		path = path[:len(path)-1]
		visiting.Remove(name)
		visited.Add(name)
		return path
	}

	for _, ep := range entryPoints {
		if !visited.Has(ep.Name) {
			visit(ep.Name, nil)
		}
	}
	return cycles
}

func indexOf(items []string, name string) int {
	for i, item := range items {
		if item == name {
			return i
		}
	}
	return 0
}
