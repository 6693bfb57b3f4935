package app

import (
	"github.com/vk/beamgrid/internal/nodes"
	"github.com/vk/beamgrid/internal/opticgraph"
	"github.com/vk/beamgrid/internal/registry"
)

// coreModules is the definitive list of node kinds compiled into the
// beamgrid binary.
var coreModules = []registry.Module{
	&nodes.Module{},
	&opticgraph.Module{},
}
