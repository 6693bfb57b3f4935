package nodes

import (
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/registry"
)

// Node type names as they appear in scenery files and saved graphs.
const (
	TypeDummy        = "dummy"
	TypeBeamSplitter = "beam_splitter"
	TypeIdealFilter  = "ideal_filter"
	TypeEnergyMeter  = "energy_meter"
	TypeSource       = "source"
	TypeReference    = "reference"
)

// Module registers every node kind of this package.
type Module struct{}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	r.Register(TypeDummy, func() optical.Node { return NewDummy("") })
	r.Register(TypeBeamSplitter, func() optical.Node { return NewBeamSplitter("", DefaultSplittingRatio) })
	r.Register(TypeIdealFilter, func() optical.Node { return NewIdealFilter("", 1) })
	r.Register(TypeEnergyMeter, func() optical.Node { return NewEnergyMeter("") })
	r.Register(TypeSource, func() optical.Node { return NewSource("", DefaultSourceEnergy) })
	r.Register(TypeReference, func() optical.Node { return NewReference() })
}
