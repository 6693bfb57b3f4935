package nodes

import (
	"context"
	"fmt"

	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

// DefaultSourceEnergy is the energy of a freshly created source, in joules.
const DefaultSourceEnergy = 1.0

// PropEnergy is the emitted energy in joules.
const PropEnergy = "energy"

// Source emits a fixed amount of energy on its single output. It cannot be
// inverted.
type Source struct {
	optical.Attr
}

// NewSource creates a source placed at the origin along the z axis.
func NewSource(name string, joules float64) *Source {
	s := &Source{Attr: optical.NewAttr(TypeSource, name)}
	_ = s.Attr.SetProperty(PropEnergy, max(joules, 0))
	s.SetIsometry(geom.Identity())
	return s
}

// Energy returns the emitted energy.
func (s *Source) Energy() float64 {
	v, _ := s.Prop(PropEnergy)
	e, _ := v.(float64)
	return e
}

func (s *Source) SetProperty(key string, value any) error {
	switch key {
	case PropEnergy:
		e, err := toFloat(key, value)
		if err != nil {
			return err
		}
		if e < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", opmerr.ErrProperty, key, e)
		}
		value = e
	case optical.PropInverted:
		if inv, ok := value.(bool); ok && inv {
			return s.SetInverted(true)
		}
	}
	return s.Attr.SetProperty(key, value)
}

// SetInverted refuses to flip the source.
func (s *Source) SetInverted(inverted bool) error {
	if inverted {
		return fmt.Errorf("%w: source %s cannot be inverted", opmerr.ErrAnalysis, s.Name())
	}
	return s.Attr.SetInverted(false)
}

func (s *Source) Ports() *ports.Set {
	return ports.FromNames(nil, []string{"out1"})
}

// Analyze ignores any incoming light.
func (s *Source) Analyze(context.Context, light.Result) (light.Result, error) {
	return light.Result{"out1": light.Energy{Joules: s.Energy()}}, nil
}
