package opticgraph

import (
	"context"

	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
	"github.com/vk/beamgrid/internal/registry"
)

// TypeGroup is the node type name of a group.
const TypeGroup = "group"

// Group is a node made of a nested graph. Its ports are the external names
// mapped in the nested graph.
type Group struct {
	optical.Attr
	graph          *Graph
	inputDistances map[string]geom.Length
}

// NewGroup creates a group with an empty nested graph.
func NewGroup(name string) *Group {
	return &Group{
		Attr:           optical.NewAttr(TypeGroup, name),
		graph:          New(),
		inputDistances: make(map[string]geom.Length),
	}
}

// Graph gives access to the nested graph for building it up.
func (g *Group) Graph() *Graph { return g.graph }

func (g *Group) setGraph(graph *Graph) {
	graph.SetInverted(g.Inverted())
	g.graph = graph
}

func (g *Group) Ports() *ports.Set {
	p := ports.New()
	for _, name := range g.graph.inputMap.Names() {
		_ = p.Add(ports.Input, name)
	}
	for _, name := range g.graph.outputMap.Names() {
		_ = p.Add(ports.Output, name)
	}
	p.SetInverted(g.graph.Inverted())
	return p
}

// SetInverted flags the nested graph so that it runs backwards.
func (g *Group) SetInverted(inverted bool) error {
	g.graph.SetInverted(inverted)
	return g.Attr.SetInverted(inverted)
}

func (g *Group) SetProperty(key string, value any) error {
	if key == optical.PropInverted {
		if inv, ok := value.(bool); ok {
			return g.SetInverted(inv)
		}
	}
	return g.Attr.SetProperty(key, value)
}

// Analyze runs the nested graph.
func (g *Group) Analyze(ctx context.Context, in light.Result) (light.Result, error) {
	return g.graph.Analyze(ctx, in)
}

func (g *Group) addInputPortDistance(port string, d geom.Length) {
	g.inputDistances[port] = d
}

func (g *Group) position(ctx context.Context, in light.Result) (light.Result, error) {
	g.graph.SetExternalDistances(g.inputDistances)
	return g.graph.CalcNodePositions(ctx, in)
}

// Module registers the group node kind.
type Module struct{}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	r.Register(TypeGroup, func() optical.Node { return NewGroup("") })
}
