// Package registry manages table provider registration and instantiation.
// Provider packages register a factory from their init function; hosts create
// bound tables by provider name.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tabulaflow/tabula/pkg/errors"
	"github.com/tabulaflow/tabula/pkg/logger"
	"github.com/tabulaflow/tabula/pkg/table"
)

// Factory creates a bound table from a declared configuration.
type Factory func(cfg table.Config) (table.Table, error)

// Registry maps provider names to factories
type Registry struct {
	providers map[string]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Factory),
		logger:    logger.Get().With(zap.String("component", "table_registry")),
	}
}

// Register adds a provider factory under the given name
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "table provider %s already registered", name)
	}

	r.providers[name] = factory
	r.logger.Info("table provider registered", zap.String("name", name))
	return nil
}

// Create instantiates a bound table using the named provider
func (r *Registry) Create(name string, cfg table.Config) (table.Table, error) {
	r.mu.RLock()
	factory, exists := r.providers[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "table provider %s not found", name)
	}

	t, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create table")
	}
	return t, nil
}

// Exists reports whether a provider is registered under the name
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.providers[name]
	return exists
}

// List returns the registered provider names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a provider factory to the global registry
func Register(name string, factory Factory) error {
	return globalRegistry.Register(name, factory)
}

// Create instantiates a bound table from the global registry
func Create(name string, cfg table.Config) (table.Table, error) {
	return globalRegistry.Create(name, cfg)
}

// Exists checks the global registry for a provider
func Exists(name string) bool {
	return globalRegistry.Exists(name)
}

// List returns the provider names in the global registry
func List() []string {
	return globalRegistry.List()
}
