package opticgraph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/opticref"
	"github.com/vk/beamgrid/internal/ports"
)

// DistanceFromPredecessor returns the propagation distance in front of an
// input port: the external distance if the port is mapped, otherwise the
// distance of the edge feeding it.
func (g *Graph) DistanceFromPredecessor(nodeID uuid.UUID, port string) (geom.Length, error) {
	m := g.inputMap
	if g.inverted {
		m = g.outputMap
	}
	if external, ok := m.ExternalName(nodeID, port); ok {
		d, ok := g.externalDistances[external]
		if !ok {
			return 0, fmt.Errorf("%w: did not find distance from predecessor to target port '%s' because '%s' is not in the list of external distances",
				opmerr.ErrAnalysis, port, external)
		}
		return d, nil
	}
	if e := g.edgeInto(nodeID, port); e != nil {
		return e.flow.Distance(), nil
	}
	return 0, fmt.Errorf("%w: did not find distance from predecessor to target port '%s'", opmerr.ErrAnalysis, port)
}

// CalcNodePositions places every node in space by tracing a ray through the
// graph. Incoming light must be geometric, keyed by external input port
// name; external distances give the path length in front of mapped ports.
// Nodes that are already placed keep their position; a disagreeing second
// input is logged.
func (g *Graph) CalcNodePositions(ctx context.Context, incoming light.Result) (light.Result, error) {
	return g.propagate(ctx, "CalcNodePositions", incoming, g.positionNode)
}

func (g *Graph) positionNode(ctx context.Context, ref opticref.Ref, in light.Result) (light.Result, error) {
	logger := ctxlog.FromContext(ctx)
	node := ref.Node
	grp, isGroup := node.(*Group)

	for _, port := range in.Ports() {
		d, err := g.DistanceFromPredecessor(ref.ID, port)
		if err != nil {
			return nil, err
		}
		if isGroup {
			grp.addInputPortDistance(port, d)
		}
		ray, err := in.RayAt(port)
		if err != nil {
			return nil, err
		}
		ray, err = ray.Propagate(d)
		if err != nil {
			return nil, withKind(opmerr.ErrAnalysis, err)
		}
		iso := ray.Isometry()
		current, placed := node.Isometry()
		if !placed {
			node.SetIsometry(iso)
			continue
		}
		if !current.ApproxEqual(iso) {
			logger.Warn("Node cannot be consistently positioned. Keeping first position.",
				"node", ref.String(), "position", current.String(), "port", port, "alternative", iso.String())
		}
	}

	if isGroup {
		return grp.position(ctx, in)
	}

	iso, placed := node.Isometry()
	if !placed {
		return nil, fmt.Errorf("%w: node %s cannot be positioned, it has no isometry and receives no light", opmerr.ErrAnalysis, ref)
	}
	ray, err := iso.Ray()
	if err != nil {
		return nil, withKind(opmerr.ErrAnalysis, err)
	}
	out := light.Result{}
	for _, port := range node.Ports().Names(ports.Output) {
		out[port] = light.Geometric{Rays: []geom.Ray{ray}}
	}
	return out, nil
}
