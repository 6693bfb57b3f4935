package opticgraph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/opticref"
	"github.com/vk/beamgrid/internal/portmap"
)

// stepFunc turns the light arriving at one node into the light leaving it.
type stepFunc func(ctx context.Context, ref opticref.Ref, in light.Result) (light.Result, error)

// Analyze propagates externally supplied light, keyed by external input
// port name, through the graph and returns the light reaching the mapped
// output ports, keyed by external output port name.
func (g *Graph) Analyze(ctx context.Context, incoming light.Result) (light.Result, error) {
	return g.propagate(ctx, "Analyze", incoming, func(ctx context.Context, ref opticref.Ref, in light.Result) (light.Result, error) {
		return ref.Node.Analyze(ctx, in)
	})
}

// propagate runs step over every node in topological order. It is shared by
// the energy analysis and the positioning pass.
func (g *Graph) propagate(ctx context.Context, pass string, incoming light.Result, step stepFunc) (result light.Result, err error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug(pass+": starting pass.", "nodes", len(g.order), "edges", len(g.edges), "inverted", g.inverted)

	if g.inverted {
		if err := g.Invert(); err != nil {
			return nil, err
		}
		defer func() {
			if rerr := g.Invert(); rerr != nil && err == nil {
				result, err = nil, rerr
			}
		}()
	}

	if g.componentCount() > 1 {
		logger.Warn("Group contains unconnected sub-trees. Analysis might not be complete.")
	}

	order, err := g.topologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("%w: topological sort failed: %w", opmerr.ErrAnalysis, err)
	}

	inMap, outMap := g.inputMap, g.outputMap
	if g.inverted {
		inMap, outMap = outMap, inMap
	}

	g.ClearEdges()
	result = light.Result{}
	for _, id := range order {
		ref := g.ref(id)
		if g.isStale(id) {
			logger.Warn("Graph contains stale (completely unconnected) node. Skipping.", "node", ref.String())
			continue
		}

		in := g.incomingData(id, incoming, inMap)
		out, err := step(ctx, ref, in)
		if err != nil {
			return nil, fmt.Errorf("analysis of node %s failed: %w", ref, withKind(opmerr.ErrAnalysis, err))
		}
		logger.Debug(pass+": node finished.", "node", ref.String(), "in", len(in), "out", len(out))

		if g.isOutputNode(id) {
			for _, a := range outMap.AssignedPorts(id) {
				if data, ok := out[a.Internal]; ok {
					result[a.External] = data
				}
			}
		}
		for _, port := range out.Ports() {
			if e := g.edgeFrom(id, port); e != nil {
				e.flow.SetData(out[port])
				continue
			}
			if _, mapped := outMap.ExternalName(id, port); !mapped {
				logger.Warn(pass+": output dropped, port is neither connected nor mapped.", "node", ref.String(), "port", port)
			}
		}
	}

	logger.Debug(pass+": pass finished.", "results", len(result))
	return result, nil
}

// incomingData collects the light for one node: mapped external light
// renamed to internal port names, plus light left on incoming edges.
func (g *Graph) incomingData(id uuid.UUID, incoming light.Result, inMap *portmap.Map) light.Result {
	in := light.Result{}
	if g.isIncomingNode(id) {
		for _, name := range incoming.Ports() {
			if target, ok := inMap.Get(name); ok && target.NodeID == id {
				in[target.Port] = incoming[name]
			}
		}
	}
	for _, e := range g.incoming(id) {
		if data := e.flow.Data(); data != nil {
			in[e.flow.TargetPort()] = data
		}
	}
	return in
}
