package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/opmerr"
)

// Module is the interface that all node modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds a node with default properties.
type Factory func() optical.Node

// Registry holds the node factories of a single application instance.
type Registry struct {
	factories map[string]Factory
}

// New creates a registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a factory for a node type. Registering a type twice is a
// programming error and panics.
func (r *Registry) Register(nodeType string, f Factory) {
	if _, exists := r.factories[nodeType]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", nodeType))
	}
	slog.Debug("Registering node type.", "type", nodeType)
	r.factories[nodeType] = f
}

// New builds a default node of the given type.
func (r *Registry) New(nodeType string) (optical.Node, error) {
	f, ok := r.factories[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown node type '%s'", opmerr.ErrProperty, nodeType)
	}
	return f(), nil
}

// NewWithProperties builds a node and applies the given properties on top of
// its defaults, in key order.
func (r *Registry) NewWithProperties(nodeType string, props optical.Properties) (optical.Node, error) {
	node, err := r.New(nodeType)
	if err != nil {
		return nil, err
	}
	for _, key := range props.Keys() {
		if err := node.SetProperty(key, props[key]); err != nil {
			return nil, fmt.Errorf("node type '%s': %w", nodeType, err)
		}
	}
	return node, nil
}

// Has reports whether a node type is known.
func (r *Registry) Has(nodeType string) bool {
	_, ok := r.factories[nodeType]
	return ok
}

// Types returns the registered node types in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
