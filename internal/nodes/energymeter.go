package nodes

import (
	"context"

	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

// EnergyMeter records the energy passing through it. The reading is kept
// outside the node properties so that analysing a graph never changes what
// gets saved.
type EnergyMeter struct {
	optical.Attr
	reading *float64
}

func NewEnergyMeter(name string) *EnergyMeter {
	return &EnergyMeter{Attr: optical.NewAttr(TypeEnergyMeter, name)}
}

// Reading returns the energy seen during the last analysis.
func (m *EnergyMeter) Reading() (float64, bool) {
	if m.reading == nil {
		return 0, false
	}
	return *m.reading, true
}

func (m *EnergyMeter) Ports() *ports.Set {
	p := ports.FromNames([]string{"in1"}, []string{"out1"})
	p.SetInverted(m.Inverted())
	return p
}

func (m *EnergyMeter) Analyze(ctx context.Context, in light.Result) (light.Result, error) {
	p := m.Ports()
	input := p.Names(ports.Input)[0]
	m.reading = nil
	if _, ok := in[input]; ok {
		e, err := in.EnergyAt(input)
		if err != nil {
			return nil, err
		}
		m.reading = &e
		ctxlog.FromContext(ctx).Debug("Energy meter reading.", "node", m.Name(), "joules", e)
	}
	return passThrough(p, in), nil
}
