package opticgraph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/lightflow"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

// Connection describes one edge of the graph.
type Connection struct {
	SrcID    uuid.UUID
	SrcPort  string
	DstID    uuid.UUID
	DstPort  string
	Distance geom.Length
}

// Connect joins an output port of one node to an input port of another.
//
// It fails if a node or port does not exist, if either port is already
// connected, if the distance is not finite or if the new edge would close a
// loop. On success, external mappings of both ports are dropped since they
// are no longer reachable from outside.
func (g *Graph) Connect(srcID uuid.UUID, srcPort string, dstID uuid.UUID, dstPort string, distance geom.Length) error {
	if g.inverted {
		return fmt.Errorf("%w: cannot connect nodes if group is set as inverted", opmerr.ErrMapping)
	}
	src, ok := g.nodes[srcID]
	if !ok {
		return fmt.Errorf("%w: source node with id %s does not exist", opmerr.ErrStructure, srcID)
	}
	if p := src.Ports(); !p.Has(ports.Output, srcPort) {
		return fmt.Errorf("%w: source node %s does not have an output port '%s'. Possible values are: %s",
			opmerr.ErrStructure, g.ref(srcID), srcPort, strings.Join(p.Names(ports.Output), ", "))
	}
	dst, ok := g.nodes[dstID]
	if !ok {
		return fmt.Errorf("%w: target node with id %s does not exist", opmerr.ErrStructure, dstID)
	}
	if p := dst.Ports(); !p.Has(ports.Input, dstPort) {
		return fmt.Errorf("%w: target node %s does not have an input port '%s'. Possible values are: %s",
			opmerr.ErrStructure, g.ref(dstID), dstPort, strings.Join(p.Names(ports.Input), ", "))
	}
	if g.edgeFrom(srcID, srcPort) != nil {
		return fmt.Errorf("%w: source node %s with port '%s' is already connected", opmerr.ErrStructure, g.ref(srcID), srcPort)
	}
	if g.edgeInto(dstID, dstPort) != nil {
		return fmt.Errorf("%w: target node %s with port '%s' is already connected", opmerr.ErrStructure, g.ref(dstID), dstPort)
	}
	flow, err := lightflow.New(srcPort, dstPort, distance)
	if err != nil {
		return err
	}

	e := &edge{src: srcID, dst: dstID, flow: flow}
	g.edges = append(g.edges, e)
	if g.hasCycle() {
		g.removeEdge(e)
		return fmt.Errorf("%w: connecting nodes %s -> %s would form a loop", opmerr.ErrStructure, g.ref(srcID), g.ref(dstID))
	}

	g.inputMap.Remove(dstID, dstPort)
	g.outputMap.Remove(srcID, srcPort)
	return nil
}

// Disconnect removes the edge leaving the given output port. The target is
// implied since an output port has at most one edge.
func (g *Graph) Disconnect(srcID uuid.UUID, srcPort string) error {
	if g.inverted {
		return fmt.Errorf("%w: cannot disconnect nodes if group is set as inverted", opmerr.ErrMapping)
	}
	e, err := g.connectedEdge(srcID, srcPort)
	if err != nil {
		return err
	}
	g.removeEdge(e)
	return nil
}

// UpdateDistance changes the distance of an existing connection.
func (g *Graph) UpdateDistance(srcID uuid.UUID, srcPort string, distance geom.Length) error {
	e, err := g.connectedEdge(srcID, srcPort)
	if err != nil {
		return err
	}
	return e.flow.SetDistance(distance)
}

func (g *Graph) connectedEdge(srcID uuid.UUID, srcPort string) (*edge, error) {
	if _, ok := g.nodes[srcID]; !ok {
		return nil, fmt.Errorf("%w: node with id %s does not exist", opmerr.ErrStructure, srcID)
	}
	e := g.edgeFrom(srcID, srcPort)
	if e == nil {
		return nil, fmt.Errorf("%w: source node %s with port '%s' is not connected", opmerr.ErrStructure, g.ref(srcID), srcPort)
	}
	return e, nil
}

// DeleteNode removes a node together with its edges and mappings. Reference
// nodes pointing at it are removed as well, in this graph and in all nested
// groups. It returns the ids of every removed node.
func (g *Graph) DeleteNode(id uuid.UUID) ([]uuid.UUID, error) {
	if err := g.checkDeletable(); err != nil {
		return nil, err
	}
	deleted := g.deleteNode(id)
	if len(deleted) == 0 {
		return nil, fmt.Errorf("%w: node with id %s does not exist", opmerr.ErrStructure, id)
	}
	return deleted, nil
}

func (g *Graph) checkDeletable() error {
	if g.inverted {
		return fmt.Errorf("%w: cannot delete nodes if group is set as inverted", opmerr.ErrMapping)
	}
	for _, nid := range g.order {
		if grp, ok := g.nodes[nid].(*Group); ok {
			if err := grp.graph.checkDeletable(); err != nil {
				return fmt.Errorf("group %s: %w", g.ref(nid), err)
			}
		}
	}
	return nil
}

func (g *Graph) deleteNode(id uuid.UUID) []uuid.UUID {
	var victims []uuid.UUID
	for _, nid := range g.order {
		if nid == id {
			victims = append(victims, nid)
			continue
		}
		if r, ok := g.nodes[nid].(optical.Referencer); ok && r.ReferenceID() == id {
			victims = append(victims, nid)
		}
	}
	for _, victim := range victims {
		g.dropNode(victim)
	}
	for _, nid := range g.order {
		if grp, ok := g.nodes[nid].(*Group); ok {
			victims = append(victims, grp.graph.deleteNode(id)...)
		}
	}
	return victims
}

func (g *Graph) dropNode(id uuid.UUID) {
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.src != id && e.dst != id {
			kept = append(kept, e)
		}
	}
	g.edges = kept
	g.inputMap.RemoveNode(id)
	g.outputMap.RemoveNode(id)
	delete(g.nodes, id)
	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// ClearEdges forgets the light stored on every edge.
func (g *Graph) ClearEdges() {
	for _, e := range g.edges {
		e.flow.SetData(nil)
	}
}

// Connections lists all edges in insertion order.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, Connection{
			SrcID:    e.src,
			SrcPort:  e.flow.SrcPort(),
			DstID:    e.dst,
			DstPort:  e.flow.TargetPort(),
			Distance: e.flow.Distance(),
		})
	}
	return out
}
