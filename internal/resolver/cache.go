package resolver

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"docsync/internal/api"
	"docsync/pkg/logging"
)

// Registry maps resolver kinds to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[api.ResolverKind]api.ResolverFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[api.ResolverKind]api.ResolverFactory),
	}
}

// Register adds the factory for kind. Registering a kind twice is an error.
func (r *Registry) Register(kind api.ResolverKind, factory api.ResolverFactory) error {
	if kind == "" {
		return fmt.Errorf("cannot register resolver with empty kind")
	}
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for %s", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("resolver for %s already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// Factory returns the factory registered for kind.
func (r *Registry) Factory(kind api.ResolverKind) (api.ResolverFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	return f, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []api.ResolverKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]api.ResolverKind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Cache holds one lazily constructed resolver per kind.
type Cache struct {
	mu        sync.Mutex
	registry  *Registry
	instances map[api.ResolverKind]api.DocumentResolver
}

// NewCache creates a cache backed by registry.
func NewCache(registry *Registry) *Cache {
	return &Cache{
		registry:  registry,
		instances: make(map[api.ResolverKind]api.DocumentResolver),
	}
}

// GetOrCreate returns the resolver for kind, constructing it on first use.
func (c *Cache) GetOrCreate(kind api.ResolverKind) (api.DocumentResolver, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if instance, ok := c.instances[kind]; ok {
		return instance, nil
	}

	factory, ok := c.registry.Factory(kind)
	if !ok {
		return nil, fmt.Errorf("no resolver registered for kind %q", kind)
	}

	instance, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to construct %s resolver: %w", kind, err)
	}
	if instance == nil {
		return nil, fmt.Errorf("factory for %s returned a nil resolver", kind)
	}

	c.instances[kind] = instance
	logging.Debug("ResolverCache", "Created resolver for %s", kind)
	return instance, nil
}

// Len returns the number of constructed resolvers.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.instances)
}

// Reset discards all instances, closing those that implement io.Closer.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for kind, instance := range c.instances {
		if closer, ok := instance.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logging.Warn("ResolverCache", "Error closing %s resolver: %v", kind, err)
			}
		}
	}
	c.instances = make(map[api.ResolverKind]api.DocumentResolver)
}
