package opticgraph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/ports"
)

// MapPort exposes an unconnected port of a node under an external name.
//
// The node must still be external in the given direction, meaning at least
// one of its ports of that direction is not connected internally, and the
// chosen port itself must be free.
func (g *Graph) MapPort(nodeID uuid.UUID, dir ports.Direction, internal, external string) error {
	if g.inverted {
		return fmt.Errorf("%w: cannot map ports if group is set as inverted", opmerr.ErrMapping)
	}
	m := g.portMap(dir)
	if m.Contains(external) {
		return fmt.Errorf("%w: external %s port name '%s' already assigned", opmerr.ErrMapping, dir, external)
	}
	node, ok := g.nodes[nodeID]
	if !ok {
		return fmt.Errorf("%w: node with id %s not found", opmerr.ErrMapping, nodeID)
	}
	if !g.isExternal(nodeID, dir) {
		return fmt.Errorf("%w: node %s is not an %s node of the group", opmerr.ErrMapping, g.ref(nodeID), dir)
	}
	if !node.Ports().Has(dir, internal) {
		return fmt.Errorf("%w: internal %s port name '%s' not found on node %s", opmerr.ErrMapping, dir, internal, g.ref(nodeID))
	}
	if g.isPortConnected(nodeID, dir, internal) {
		return fmt.Errorf("%w: %s port '%s' of node %s is already internally connected", opmerr.ErrMapping, dir, internal, g.ref(nodeID))
	}
	if err := m.Add(external, nodeID, internal); err != nil {
		return withKind(opmerr.ErrMapping, err)
	}
	return nil
}

func (g *Graph) isPortConnected(id uuid.UUID, dir ports.Direction, port string) bool {
	if dir == ports.Input {
		return g.edgeInto(id, port) != nil
	}
	return g.edgeFrom(id, port) != nil
}

// isExternal reports whether a node has at least one port of the given
// direction that is not connected internally.
func (g *Graph) isExternal(id uuid.UUID, dir ports.Direction) bool {
	var connected int
	if dir == ports.Input {
		connected = len(g.incoming(id))
	} else {
		connected = len(g.outgoing(id))
	}
	return connected < g.nodes[id].Ports().Len(dir)
}

// isIncomingNode reports whether a node can receive light from outside.
func (g *Graph) isIncomingNode(id uuid.UUID) bool {
	return g.isExternal(id, ports.Input)
}

// isOutputNode reports whether a node can hand light to the outside.
func (g *Graph) isOutputNode(id uuid.UUID) bool {
	return g.isExternal(id, ports.Output)
}

// isStale reports whether a node has neither edges nor external mappings.
func (g *Graph) isStale(id uuid.UUID) bool {
	for _, e := range g.edges {
		if e.src == id || e.dst == id {
			return false
		}
	}
	return !g.inputMap.ContainsNode(id) && !g.outputMap.ContainsNode(id)
}

// validateMap checks restored mappings against the rebuilt graph.
func (g *Graph) validateMap(dir ports.Direction) error {
	m := g.portMap(dir)
	for _, name := range m.Names() {
		target, _ := m.Get(name)
		node, ok := g.nodes[target.NodeID]
		if !ok {
			return fmt.Errorf("%s map entry '%s' points at unknown node %s", dir, name, target.NodeID)
		}
		if !node.Ports().Has(dir, target.Port) {
			return fmt.Errorf("%s map entry '%s': node %s has no %s port '%s'", dir, name, g.ref(target.NodeID), dir, target.Port)
		}
		if g.isPortConnected(target.NodeID, dir, target.Port) {
			return fmt.Errorf("%s map entry '%s': port '%s' of node %s is internally connected", dir, name, target.Port, g.ref(target.NodeID))
		}
	}
	return nil
}
