package nodes

import (
	"context"

	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

// DefaultSplittingRatio is the ratio of a freshly created beam splitter.
const DefaultSplittingRatio = 0.5

// PropRatio is the fraction of input1 transmitted to out1_trans1_refl2.
const PropRatio = "ratio"

// BeamSplitter divides the energy of two inputs over two outputs.
//
//	out1_trans1_refl2 = input1*ratio + input2*(1-ratio)
//	out2_trans2_refl1 = input1*(1-ratio) + input2*ratio
//
// Inverted, the outputs act as inputs with the same ratio.
type BeamSplitter struct {
	optical.Attr
}

// NewBeamSplitter creates a beam splitter. The ratio is clamped to [0, 1].
func NewBeamSplitter(name string, ratio float64) *BeamSplitter {
	b := &BeamSplitter{Attr: optical.NewAttr(TypeBeamSplitter, name)}
	_ = b.Attr.SetProperty(PropRatio, min(max(ratio, 0), 1))
	return b
}

// Ratio returns the splitting ratio.
func (b *BeamSplitter) Ratio() float64 {
	v, _ := b.Prop(PropRatio)
	r, _ := v.(float64)
	return r
}

// SetProperty validates the ratio before storing it.
func (b *BeamSplitter) SetProperty(key string, value any) error {
	if key == PropRatio {
		r, err := fraction(key, value)
		if err != nil {
			return err
		}
		value = r
	}
	return b.Attr.SetProperty(key, value)
}

func (b *BeamSplitter) Ports() *ports.Set {
	p := ports.FromNames(
		[]string{"input1", "input2"},
		[]string{"out1_trans1_refl2", "out2_trans2_refl1"},
	)
	p.SetInverted(b.Inverted())
	return p
}

func (b *BeamSplitter) Analyze(_ context.Context, in light.Result) (light.Result, error) {
	p := b.Ports()
	inputs, outputs := p.Names(ports.Input), p.Names(ports.Output)

	if _, ok := in[inputs[0]]; !ok {
		if _, ok := in[inputs[1]]; !ok {
			return light.Result{}, nil
		}
	}
	in1, err := in.EnergyAt(inputs[0])
	if err != nil {
		return nil, err
	}
	in2, err := in.EnergyAt(inputs[1])
	if err != nil {
		return nil, err
	}
	r := b.Ratio()
	return light.Result{
		outputs[0]: light.Energy{Joules: in1*r + in2*(1-r)},
		outputs[1]: light.Energy{Joules: in1*(1-r) + in2*r},
	}, nil
}
