// Package registry holds compiled units in memory for downstream
// consumers such as enforcement compilers and generation orchestrators.
// Units are retrieved by an opaque handle issued at registration.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cdl-lang/go-cdl/ir"
)

// Registry is a concurrency-safe handle → unit map.
type Registry struct {
	mu    sync.RWMutex
	units map[string]*ir.Unit
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{units: make(map[string]*ir.Unit)}
}

// Register stores a compiled unit and returns its handle.
func (r *Registry) Register(unit *ir.Unit) string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[id] = unit
	return id
}

// Get returns the unit for the given handle.
func (r *Registry) Get(handle string) (*ir.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	unit, ok := r.units[handle]
	if !ok {
		return nil, fmt.Errorf("registry: no unit for handle %q", handle)
	}
	return unit, nil
}

// Remove drops the unit for the given handle, if present.
func (r *Registry) Remove(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.units, handle)
}

// List returns the handles of every registered unit.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]string, 0, len(r.units))
	for h := range r.units {
		handles = append(handles, h)
	}
	return handles
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}
