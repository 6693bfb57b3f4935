// Package lightflow implements the payload of a graph edge: the pair of
// connected port names, the propagation distance between them and the light
// produced by the source port during the current analysis pass.
package lightflow

import (
	"fmt"

	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
)

// Flow is the data attached to one edge.
type Flow struct {
	srcPort    string
	targetPort string
	distance   geom.Length
	data       light.Data
}

// New creates a flow between two ports. The distance must be finite.
func New(srcPort, targetPort string, distance geom.Length) (*Flow, error) {
	if !distance.IsFinite() {
		return nil, fmt.Errorf("%w: distance must be finite", opmerr.ErrStructure)
	}
	return &Flow{srcPort: srcPort, targetPort: targetPort, distance: distance}, nil
}

func (f *Flow) SrcPort() string       { return f.srcPort }
func (f *Flow) TargetPort() string    { return f.targetPort }
func (f *Flow) Distance() geom.Length { return f.distance }

// SetDistance changes the propagation distance.
func (f *Flow) SetDistance(distance geom.Length) error {
	if !distance.IsFinite() {
		return fmt.Errorf("%w: distance must be finite", opmerr.ErrStructure)
	}
	f.distance = distance
	return nil
}

// Data returns the payload of the current pass, or nil.
func (f *Flow) Data() light.Data { return f.data }

// SetData stores the payload for the downstream node. Pass nil to clear it.
func (f *Flow) SetData(d light.Data) { f.data = d }

// Invert swaps the port labels, used when the whole graph changes direction.
func (f *Flow) Invert() {
	f.srcPort, f.targetPort = f.targetPort, f.srcPort
}

func (f *Flow) String() string {
	return fmt.Sprintf("%s -> %s (%s)", f.srcPort, f.targetPort, f.distance)
}
