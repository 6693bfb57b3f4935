package nodes

import (
	"context"

	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

// Dummy is an ideal, lossless element with a front and a rear port.
type Dummy struct {
	optical.Attr
}

// NewDummy creates a dummy node. An empty name defaults to the type.
func NewDummy(name string) *Dummy {
	return &Dummy{Attr: optical.NewAttr(TypeDummy, name)}
}

func (d *Dummy) Ports() *ports.Set {
	p := ports.FromNames([]string{"front"}, []string{"rear"})
	p.SetInverted(d.Inverted())
	return p
}

// Analyze forwards any payload from the input to the output side.
func (d *Dummy) Analyze(_ context.Context, in light.Result) (light.Result, error) {
	return passThrough(d.Ports(), in), nil
}
