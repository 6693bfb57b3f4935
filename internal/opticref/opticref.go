// Package opticref provides the stable handle the optical graph stores for
// each node: the node itself plus a UUID that never changes for the node's
// lifetime, survives persistence and is used to resolve reference nodes.
package opticref

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/optical"
)

// Ref ties a node to its identity.
type Ref struct {
	ID   uuid.UUID
	Node optical.Node
}

// New wraps a node under a freshly generated id.
func New(node optical.Node) Ref {
	return Ref{ID: uuid.New(), Node: node}
}

// WithID wraps a node under a known id, as used when loading a graph.
func WithID(id uuid.UUID, node optical.Node) Ref {
	return Ref{ID: id, Node: node}
}

func (r Ref) String() string {
	return fmt.Sprintf("'%s' (%s, %s)", r.Node.Name(), r.Node.NodeType(), r.ID)
}
