package dispatch

import "sync"

// Factory constructs a fresh handler for one request. Handlers are built
// per request so they can hold request-scoped state without locking.
type Factory func() Handler

// Registry maps entity/action route keys to handler factories. Routes are
// registered at startup; lookups at serve time take a read lock only.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]Factory
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]Factory)}
}

// Register binds a factory to an entity/action route. A later registration
// for the same route replaces the earlier one.
func (r *Registry) Register(entity, action string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[entity+"/"+action] = f
}

// Lookup returns the factory for a route.
func (r *Registry) Lookup(entity, action string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.routes[entity+"/"+action]
	return f, ok
}
