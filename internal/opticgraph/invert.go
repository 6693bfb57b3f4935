package opticgraph

import (
	"fmt"

	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
)

// Invert flips the direction of the whole graph: every node changes its
// inverted flag, every edge swaps its port labels and its endpoints. If a
// node refuses to be inverted the flags already flipped are restored and
// the graph is left untouched. Inverting twice is an exact round trip.
//
// Invert does not touch the graph-level flag set by SetInverted.
func (g *Graph) Invert() error {
	flipped := make([]optical.Node, 0, len(g.order))
	for _, id := range g.order {
		node := g.nodes[id]
		if err := node.SetInverted(!node.Inverted()); err != nil {
			for i := len(flipped) - 1; i >= 0; i-- {
				_ = flipped[i].SetInverted(!flipped[i].Inverted())
			}
			return fmt.Errorf("group cannot be inverted because it contains a non-invertible node %s: %w",
				g.ref(id), withKind(opmerr.ErrAnalysis, err))
		}
		flipped = append(flipped, node)
	}
	for _, e := range g.edges {
		e.flow.Invert()
		e.src, e.dst = e.dst, e.src
	}
	return nil
}
