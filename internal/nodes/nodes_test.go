package nodes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
	"github.com/vk/beamgrid/internal/registry"
)

func energy(t *testing.T, r light.Result, port string) float64 {
	t.Helper()
	e, err := r.EnergyAt(port)
	require.NoError(t, err)
	return e
}

func TestPorts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		node    optical.Node
		inputs  []string
		outputs []string
	}{
		{node: NewDummy(""), inputs: []string{"front"}, outputs: []string{"rear"}},
		{node: NewBeamSplitter("", 0.5), inputs: []string{"input1", "input2"}, outputs: []string{"out1_trans1_refl2", "out2_trans2_refl1"}},
		{node: NewIdealFilter("", 0.5), inputs: []string{"front"}, outputs: []string{"rear"}},
		{node: NewEnergyMeter(""), inputs: []string{"in1"}, outputs: []string{"out1"}},
		{node: NewSource("", 1), inputs: []string{}, outputs: []string{"out1"}},
	}
	for _, tc := range testCases {
		t.Run(tc.node.NodeType(), func(t *testing.T) {
			p := tc.node.Ports()
			assert.Equal(t, tc.inputs, p.Names(ports.Input))
			assert.Equal(t, tc.outputs, p.Names(ports.Output))

			if tc.node.NodeType() == TypeSource {
				return
			}
			require.NoError(t, tc.node.SetInverted(true))
			p = tc.node.Ports()
			assert.Equal(t, tc.outputs, p.Names(ports.Input))
			assert.Equal(t, tc.inputs, p.Names(ports.Output))
		})
	}
}

func TestDummy(t *testing.T) {
	t.Parallel()

	d := NewDummy("d1")
	assert.Equal(t, "d1", d.Name())

	out, err := d.Analyze(context.Background(), light.Result{"front": light.Energy{Joules: 2}, "unknown": light.Energy{Joules: 5}})
	require.NoError(t, err)
	assert.Equal(t, light.Result{"rear": light.Energy{Joules: 2}}, out)

	require.NoError(t, d.SetInverted(true))
	out, err = d.Analyze(context.Background(), light.Result{"rear": light.Energy{Joules: 3}})
	require.NoError(t, err)
	assert.Equal(t, light.Result{"front": light.Energy{Joules: 3}}, out)

	out, err = d.Analyze(context.Background(), light.Result{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBeamSplitter(t *testing.T) {
	t.Parallel()

	t.Run("splits both inputs", func(t *testing.T) {
		bs := NewBeamSplitter("bs", 0.6)
		out, err := bs.Analyze(context.Background(), light.Result{
			"input1": light.Energy{Joules: 1},
			"input2": light.Energy{Joules: 0.5},
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.6+0.2, energy(t, out, "out1_trans1_refl2"), 1e-12)
		assert.InDelta(t, 0.4+0.3, energy(t, out, "out2_trans2_refl1"), 1e-12)
	})

	t.Run("inverted", func(t *testing.T) {
		bs := NewBeamSplitter("bs", 0.6)
		require.NoError(t, bs.SetInverted(true))
		out, err := bs.Analyze(context.Background(), light.Result{"out1_trans1_refl2": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 0.6, energy(t, out, "input1"), 1e-12)
		assert.InDelta(t, 0.4, energy(t, out, "input2"), 1e-12)
	})

	t.Run("no input, no output", func(t *testing.T) {
		out, err := NewBeamSplitter("bs", 0.6).Analyze(context.Background(), light.Result{})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("wrong payload variant", func(t *testing.T) {
		_, err := NewBeamSplitter("bs", 0.6).Analyze(context.Background(), light.Result{"input1": light.Geometric{}})
		assert.ErrorIs(t, err, opmerr.ErrAnalysis)
	})

	t.Run("ratio property", func(t *testing.T) {
		bs := NewBeamSplitter("bs", 7)
		assert.Equal(t, 1.0, bs.Ratio(), "constructor clamps")
		require.NoError(t, bs.SetProperty(PropRatio, 0))
		assert.Equal(t, 0.0, bs.Ratio())
		assert.ErrorIs(t, bs.SetProperty(PropRatio, 1.5), opmerr.ErrProperty)
		assert.ErrorIs(t, bs.SetProperty(PropRatio, "half"), opmerr.ErrProperty)
		assert.Equal(t, 0.0, bs.Ratio())
	})
}

func TestIdealFilter(t *testing.T) {
	t.Parallel()

	f := NewIdealFilter("nd", 0.25)
	out, err := f.Analyze(context.Background(), light.Result{"front": light.Energy{Joules: 2}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, energy(t, out, "rear"), 1e-12)

	assert.ErrorIs(t, f.SetProperty(PropTransmission, -0.1), opmerr.ErrProperty)
	require.NoError(t, f.SetProperty(PropTransmission, 1))
	assert.Equal(t, 1.0, f.Transmission())
}

func TestEnergyMeter(t *testing.T) {
	t.Parallel()

	m := NewEnergyMeter("pm")
	_, ok := m.Reading()
	assert.False(t, ok)

	out, err := m.Analyze(context.Background(), light.Result{"in1": light.Energy{Joules: 0.3}})
	require.NoError(t, err)
	assert.Equal(t, light.Result{"out1": light.Energy{Joules: 0.3}}, out)
	reading, ok := m.Reading()
	require.True(t, ok)
	assert.Equal(t, 0.3, reading)
	assert.NotContains(t, m.Properties(), PropEnergy)
}

func TestSource(t *testing.T) {
	t.Parallel()

	s := NewSource("laser", 2)
	out, err := s.Analyze(context.Background(), light.Result{"anything": light.Energy{Joules: 9}})
	require.NoError(t, err)
	assert.Equal(t, light.Result{"out1": light.Energy{Joules: 2}}, out)

	iso, ok := s.Isometry()
	require.True(t, ok)
	assert.Equal(t, geom.Identity(), iso)

	err = s.SetInverted(true)
	assert.ErrorIs(t, err, opmerr.ErrAnalysis)
	assert.ErrorContains(t, err, "cannot be inverted")
	assert.False(t, s.Inverted())
	assert.NoError(t, s.SetInverted(false))

	assert.Error(t, s.SetProperty("inverted", true))
	assert.NoError(t, s.SetProperty("inverted", false))
	assert.ErrorIs(t, s.SetProperty(PropEnergy, -1), opmerr.ErrProperty)
}

func TestReference(t *testing.T) {
	t.Parallel()

	t.Run("unassigned", func(t *testing.T) {
		r := NewReference()
		assert.Equal(t, "reference", r.Name())
		assert.Equal(t, uuid.Nil, r.ReferenceID())
		assert.Zero(t, r.Ports().Len(ports.Input))
		_, err := r.Analyze(context.Background(), light.Result{})
		assert.ErrorContains(t, err, "no reference defined")
	})

	t.Run("delegates to target", func(t *testing.T) {
		id := uuid.New()
		target := NewIdealFilter("nd", 0.5)
		r := NewReferenceTo(id, target)
		assert.Equal(t, id, r.ReferenceID())
		assert.Equal(t, "ref (nd)", r.Name())
		assert.Same(t, target, r.Target())

		out, err := r.Analyze(context.Background(), light.Result{"front": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, energy(t, out, "rear"), 1e-12)
	})

	t.Run("inverted reference inverts target temporarily", func(t *testing.T) {
		target := NewDummy("d")
		r := NewReferenceTo(uuid.New(), target)
		require.NoError(t, r.SetInverted(true))
		assert.Equal(t, []string{"rear"}, r.Ports().Names(ports.Input))

		out, err := r.Analyze(context.Background(), light.Result{"rear": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.Equal(t, light.Result{"front": light.Energy{Joules: 1}}, out)
		assert.False(t, target.Inverted(), "target orientation is restored")
	})

	t.Run("orientation follows the reference, not the target", func(t *testing.T) {
		target := NewIdealFilter("nd", 0.5)
		r := NewReferenceTo(uuid.New(), target)
		require.NoError(t, target.SetInverted(true))
		assert.Equal(t, []string{"front"}, r.Ports().Names(ports.Input))

		out, err := r.Analyze(context.Background(), light.Result{"front": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, energy(t, out, "rear"), 1e-12)
		assert.True(t, target.Inverted(), "target orientation is restored")
	})

	t.Run("inverted reference to a source fails", func(t *testing.T) {
		r := NewReferenceTo(uuid.New(), NewSource("laser", 1))
		require.NoError(t, r.SetInverted(true))
		_, err := r.Analyze(context.Background(), light.Result{})
		assert.ErrorContains(t, err, "cannot be inverted")
	})

	t.Run("reference id property", func(t *testing.T) {
		r := NewReference()
		id := uuid.New()
		require.NoError(t, r.SetProperty(PropReferenceID, id))
		assert.Equal(t, id, r.ReferenceID())
		require.NoError(t, r.SetProperty(PropReferenceID, id.String()))
		assert.ErrorIs(t, r.SetProperty(PropReferenceID, "nope"), opmerr.ErrProperty)
		assert.ErrorIs(t, r.SetProperty(PropReferenceID, 12), opmerr.ErrProperty)
	})
}

func TestModule(t *testing.T) {
	t.Parallel()

	reg := registry.New(&Module{})
	assert.Equal(t, []string{
		TypeBeamSplitter, TypeDummy, TypeEnergyMeter, TypeIdealFilter, TypeReference, TypeSource,
	}, reg.Types())
	require.NoError(t, reg.ValidateRegistry(context.Background()))

	n, err := reg.NewWithProperties(TypeBeamSplitter, optical.Properties{"name": "bs", "ratio": 0.6})
	require.NoError(t, err)
	assert.Equal(t, 0.6, n.(*BeamSplitter).Ratio())
}
