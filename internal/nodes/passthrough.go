package nodes

import (
	"fmt"

	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

// passThrough routes the i-th input port to the i-th output port unchanged.
func passThrough(p *ports.Set, in light.Result) light.Result {
	inputs, outputs := p.Names(ports.Input), p.Names(ports.Output)
	out := make(light.Result, len(in))
	for i, name := range inputs {
		if i >= len(outputs) {
			break
		}
		if data, ok := in[name]; ok {
			out[outputs[i]] = data
		}
	}
	return out
}

// fraction validates a property value that must be a number in [0, 1].
func fraction(key string, value any) (float64, error) {
	f, err := toFloat(key, value)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("%w: %s must be within [0, 1], got %g", opmerr.ErrProperty, key, f)
	}
	return f, nil
}

func toFloat(key string, value any) (float64, error) {
	return optical.ToFloat(key, value)
}
