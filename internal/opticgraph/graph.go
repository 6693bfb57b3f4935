package opticgraph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/lightflow"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/opticref"
	"github.com/vk/beamgrid/internal/portmap"
	"github.com/vk/beamgrid/internal/ports"
)

// edge joins two nodes. Endpoints are node ids; port labels, distance and
// payload live in the flow.
type edge struct {
	src, dst uuid.UUID
	flow     *lightflow.Flow
}

// Graph is an optical connection graph. The zero value is not usable; call
// New.
type Graph struct {
	order []uuid.UUID
	nodes map[uuid.UUID]optical.Node
	edges []*edge

	inputMap  *portmap.Map
	outputMap *portmap.Map

	inverted          bool
	externalDistances map[string]geom.Length
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:             make(map[uuid.UUID]optical.Node),
		inputMap:          portmap.New(),
		outputMap:         portmap.New(),
		externalDistances: make(map[string]geom.Length),
	}
}

// AddNode adds a node under a newly generated id and returns that id.
func (g *Graph) AddNode(node optical.Node) (uuid.UUID, error) {
	if g.inverted {
		return uuid.Nil, fmt.Errorf("%w: cannot add nodes if group is set as inverted", opmerr.ErrMapping)
	}
	if node == nil {
		return uuid.Nil, fmt.Errorf("%w: cannot add a nil node", opmerr.ErrStructure)
	}
	ref := opticref.New(node)
	if err := g.insert(ref); err != nil {
		return uuid.Nil, err
	}
	return ref.ID, nil
}

// AddRef adds a node under a known id.
func (g *Graph) AddRef(ref opticref.Ref) error {
	if g.inverted {
		return fmt.Errorf("%w: cannot add nodes if group is set as inverted", opmerr.ErrMapping)
	}
	return g.insert(ref)
}

func (g *Graph) insert(ref opticref.Ref) error {
	if ref.Node == nil {
		return fmt.Errorf("%w: cannot add a nil node", opmerr.ErrStructure)
	}
	if ref.ID == uuid.Nil {
		return fmt.Errorf("%w: node id must not be nil", opmerr.ErrStructure)
	}
	if _, exists := g.nodes[ref.ID]; exists {
		return fmt.Errorf("%w: node with id %s already exists", opmerr.ErrStructure, ref.ID)
	}
	g.nodes[ref.ID] = ref.Node
	g.order = append(g.order, ref.ID)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id uuid.UUID) (optical.Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node with id %s does not exist", opmerr.ErrStructure, id)
	}
	return n, nil
}

// NodeRecursive looks for a node in this graph and in the graphs of all
// nested groups.
func (g *Graph) NodeRecursive(id uuid.UUID) (optical.Node, error) {
	if n, ok := g.nodes[id]; ok {
		return n, nil
	}
	for _, nid := range g.order {
		if grp, ok := g.nodes[nid].(*Group); ok {
			if n, err := grp.graph.NodeRecursive(id); err == nil {
				return n, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: node with id %s does not exist", opmerr.ErrStructure, id)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []opticref.Ref {
	refs := make([]opticref.Ref, 0, len(g.order))
	for _, id := range g.order {
		refs = append(refs, g.ref(id))
	}
	return refs
}

func (g *Graph) NodeCount() int { return len(g.order) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Inverted reports whether the graph is flagged for inverted analysis.
func (g *Graph) Inverted() bool { return g.inverted }

// SetInverted flags the graph for inverted analysis. The structure itself is
// only flipped while an analysis runs.
func (g *Graph) SetInverted(inverted bool) { g.inverted = inverted }

// PortMap returns a copy of the input or output port map.
func (g *Graph) PortMap(dir ports.Direction) *portmap.Map {
	return g.portMap(dir).Clone()
}

func (g *Graph) portMap(dir ports.Direction) *portmap.Map {
	if dir == ports.Input {
		return g.inputMap
	}
	return g.outputMap
}

// SetExternalDistances sets the distances from the outside world to the
// external input ports, keyed by external port name.
func (g *Graph) SetExternalDistances(distances map[string]geom.Length) {
	g.externalDistances = make(map[string]geom.Length, len(distances))
	for k, v := range distances {
		g.externalDistances[k] = v
	}
}

// ExternalDistances returns a copy of the external distance table.
func (g *Graph) ExternalDistances() map[string]geom.Length {
	out := make(map[string]geom.Length, len(g.externalDistances))
	for k, v := range g.externalDistances {
		out[k] = v
	}
	return out
}

func (g *Graph) ref(id uuid.UUID) opticref.Ref {
	return opticref.WithID(id, g.nodes[id])
}

func (g *Graph) incoming(id uuid.UUID) []*edge {
	var out []*edge
	for _, e := range g.edges {
		if e.dst == id {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) outgoing(id uuid.UUID) []*edge {
	var out []*edge
	for _, e := range g.edges {
		if e.src == id {
			out = append(out, e)
		}
	}
	return out
}

// edgeFrom returns the edge leaving the given output port, if any.
func (g *Graph) edgeFrom(id uuid.UUID, port string) *edge {
	for _, e := range g.edges {
		if e.src == id && e.flow.SrcPort() == port {
			return e
		}
	}
	return nil
}

// edgeInto returns the edge entering the given input port, if any.
func (g *Graph) edgeInto(id uuid.UUID, port string) *edge {
	for _, e := range g.edges {
		if e.dst == id && e.flow.TargetPort() == port {
			return e
		}
	}
	return nil
}

func (g *Graph) removeEdge(target *edge) {
	for i, e := range g.edges {
		if e == target {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			return
		}
	}
}
