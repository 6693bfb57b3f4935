package nodes

import (
	"context"

	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

// PropTransmission is the transmitted fraction of an ideal filter.
const PropTransmission = "transmission"

// IdealFilter attenuates energy by a constant transmission factor.
type IdealFilter struct {
	optical.Attr
}

// NewIdealFilter creates a filter. The transmission is clamped to [0, 1].
func NewIdealFilter(name string, transmission float64) *IdealFilter {
	f := &IdealFilter{Attr: optical.NewAttr(TypeIdealFilter, name)}
	_ = f.Attr.SetProperty(PropTransmission, min(max(transmission, 0), 1))
	return f
}

// Transmission returns the transmitted fraction.
func (f *IdealFilter) Transmission() float64 {
	v, _ := f.Prop(PropTransmission)
	t, _ := v.(float64)
	return t
}

func (f *IdealFilter) SetProperty(key string, value any) error {
	if key == PropTransmission {
		t, err := fraction(key, value)
		if err != nil {
			return err
		}
		value = t
	}
	return f.Attr.SetProperty(key, value)
}

func (f *IdealFilter) Ports() *ports.Set {
	p := ports.FromNames([]string{"front"}, []string{"rear"})
	p.SetInverted(f.Inverted())
	return p
}

func (f *IdealFilter) Analyze(_ context.Context, in light.Result) (light.Result, error) {
	p := f.Ports()
	input, output := p.Names(ports.Input)[0], p.Names(ports.Output)[0]
	if _, ok := in[input]; !ok {
		return light.Result{}, nil
	}
	e, err := in.EnergyAt(input)
	if err != nil {
		return nil, err
	}
	return light.Result{output: light.Energy{Joules: e * f.Transmission()}}, nil
}
