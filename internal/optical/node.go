package optical

import (
	"context"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/ports"
)

// Node is the capability set the graph consumes.
type Node interface {
	Name() string
	NodeType() string

	// Ports returns a fresh port set reflecting the current inversion state.
	Ports() *ports.Set

	// Analyze maps light arriving at input ports to light leaving output
	// ports. Both results are keyed by the node's own port names.
	Analyze(ctx context.Context, in light.Result) (light.Result, error)

	Inverted() bool
	SetInverted(inverted bool) error

	Isometry() (geom.Isometry, bool)
	SetIsometry(iso geom.Isometry)

	Properties() Properties
	SetProperty(key string, value any) error
}

// Referencer is implemented by nodes that alias another node of the same
// graph. The target is persisted by id only and linked after loading.
type Referencer interface {
	Node
	ReferenceID() uuid.UUID
	AssignReference(target Node)
}
