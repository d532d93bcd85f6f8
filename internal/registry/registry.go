// Package registry holds the entry points known to an orchestrator, keyed by
// name and kept in registration order.
package registry

import (
	"fmt"
	"sync"

	"modject/pkg/entrypoint"
)

// Registry is an ordered name -> entry point map. Re-registering a name
// replaces the entry point but keeps its original position.
type Registry struct {
	mu          sync.RWMutex
	order       []string
	entryPoints map[string]entrypoint.EntryPoint
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entryPoints: make(map[string]entrypoint.EntryPoint),
	}
}

// Register adds or replaces an entry point.
func (r *Registry) Register(ep entrypoint.EntryPoint) error {
	if ep.Name == "" {
		return fmt.Errorf("entry point must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entryPoints[ep.Name]; !exists {
		r.order = append(r.order, ep.Name)
	}
	r.entryPoints[ep.Name] = ep
	return nil
}

// Unregister removes an entry point and reports whether it was present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entryPoints[name]; !exists {
		return false
	}

	delete(r.entryPoints, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns an entry point by name
func (r *Registry) Get(name string) (entrypoint.EntryPoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ep, exists := r.entryPoints[name]
	return ep, exists
}

// GetAll returns all registered entry points in registration order
func (r *Registry) GetAll() []entrypoint.EntryPoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eps := make([]entrypoint.EntryPoint, 0, len(r.order))
	for _, name := range r.order {
		eps = append(eps, r.entryPoints[name])
	}
	return eps
}

// Names returns the registered names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered entry points
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
