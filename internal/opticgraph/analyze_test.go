package opticgraph

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/nodes"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/ports"
	"github.com/vk/beamgrid/internal/testutil"
)

// splitterGraph builds dummy -> beam splitter (ratio 0.6) with the dummy
// front mapped as "input_1" and the transmitted splitter output mapped as
// "output_1".
func splitterGraph(t *testing.T) (*Graph, uuid.UUID, uuid.UUID) {
	t.Helper()

	g := New()
	d := addDummy(t, g, "entry")
	bs, err := g.AddNode(nodes.NewBeamSplitter("bs", 0.6))
	require.NoError(t, err)
	require.NoError(t, g.Connect(d, "rear", bs, "input1", geom.Meter(0.1)))
	require.NoError(t, g.MapPort(d, ports.Input, "front", "input_1"))
	require.NoError(t, g.MapPort(bs, ports.Output, "out1_trans1_refl2", "output_1"))
	return g, d, bs
}

func energyAt(t *testing.T, r light.Result, port string) float64 {
	t.Helper()
	require.Contains(t, r, port)
	e, err := r.EnergyAt(port)
	require.NoError(t, err)
	return e
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("empty graph", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		res, err := New().Analyze(ctx, light.Result{"input_1": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("beam splitter forward", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g, _, _ := splitterGraph(t)

		res, err := g.Analyze(ctx, light.Result{"input_1": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.InDelta(t, 0.6, energyAt(t, res, "output_1"), 1e-9)
	})

	t.Run("beam splitter inverted", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g, d, bs := splitterGraph(t)
		before := g.Connections()
		g.SetInverted(true)

		res, err := g.Analyze(ctx, light.Result{"output_1": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.InDelta(t, 0.6, energyAt(t, res, "input_1"), 1e-9)

		// The structure is flipped back after the pass.
		assert.Equal(t, before, g.Connections())
		for _, id := range []uuid.UUID{d, bs} {
			n, err := g.Node(id)
			require.NoError(t, err)
			assert.False(t, n.Inverted(), n.Name())
		}
		assert.True(t, g.Inverted())
	})

	t.Run("repeated runs are identical", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g, _, _ := splitterGraph(t)
		in := light.Result{"input_1": light.Energy{Joules: 2.5}}

		first, err := g.Analyze(ctx, in)
		require.NoError(t, err)
		second, err := g.Analyze(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unconnected sub-trees", func(t *testing.T) {
		ctx, logs := testutil.NewContext(t)
		g := New()
		a, b := addDummy(t, g, "a"), addDummy(t, g, "b")
		c, d := addDummy(t, g, "c"), addDummy(t, g, "d")
		require.NoError(t, g.Connect(a, "rear", b, "front", 0))
		require.NoError(t, g.Connect(c, "rear", d, "front", 0))
		require.NoError(t, g.MapPort(a, ports.Input, "front", "in"))
		require.NoError(t, g.MapPort(b, ports.Output, "rear", "out"))

		res, err := g.Analyze(ctx, light.Result{"in": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, energyAt(t, res, "out"), 1e-9)
		assert.Contains(t, logs.String(), "Group contains unconnected sub-trees. Analysis might not be complete.")
	})

	t.Run("unrouted output is dropped with a warning", func(t *testing.T) {
		ctx, logs := testutil.NewContext(t)
		g := New()
		bs, err := g.AddNode(nodes.NewBeamSplitter("bs", 0.6))
		require.NoError(t, err)
		require.NoError(t, g.MapPort(bs, ports.Input, "input1", "in"))
		require.NoError(t, g.MapPort(bs, ports.Output, "out1_trans1_refl2", "out"))

		res, err := g.Analyze(ctx, light.Result{"in": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 0.6, energyAt(t, res, "out"), 1e-9)
		assert.Contains(t, logs.String(), "level=WARN msg=\"Analyze: output dropped, port is neither connected nor mapped.\"")
		assert.Contains(t, logs.String(), "port=out2_trans2_refl1")
	})

	t.Run("stale node is skipped", func(t *testing.T) {
		ctx, logs := testutil.NewContext(t)
		g := New()
		a := addDummy(t, g, "a")
		addDummy(t, g, "lonely")
		require.NoError(t, g.MapPort(a, ports.Input, "front", "in"))
		require.NoError(t, g.MapPort(a, ports.Output, "rear", "out"))

		res, err := g.Analyze(ctx, light.Result{"in": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, energyAt(t, res, "out"), 1e-9)
		assert.Contains(t, logs.String(), "stale (completely unconnected) node")
		assert.Contains(t, logs.String(), "lonely")
	})

	t.Run("unknown inputs are ignored", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g, _, _ := splitterGraph(t)
		res, err := g.Analyze(ctx, light.Result{"nope": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("wrong light variant", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g := New()
		bs, err := g.AddNode(nodes.NewBeamSplitter("bs", 0.5))
		require.NoError(t, err)
		require.NoError(t, g.MapPort(bs, ports.Input, "input1", "in"))
		require.NoError(t, g.MapPort(bs, ports.Output, "out1_trans1_refl2", "out"))

		_, err = g.Analyze(ctx, light.Result{"in": light.Geometric{}})
		require.ErrorIs(t, err, opmerr.ErrAnalysis)
		assert.Contains(t, err.Error(), "analysis of node 'bs' (beam_splitter")
	})

	t.Run("source feeds energy meter", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g := New()
		src, err := g.AddNode(nodes.NewSource("laser", 3))
		require.NoError(t, err)
		meter := nodes.NewEnergyMeter("meter")
		m, err := g.AddNode(meter)
		require.NoError(t, err)
		require.NoError(t, g.Connect(src, "out1", m, "in1", geom.Meter(1)))
		require.NoError(t, g.MapPort(m, ports.Output, "out1", "out"))

		res, err := g.Analyze(ctx, nil)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, energyAt(t, res, "out"), 1e-9)
		reading, ok := meter.Reading()
		require.True(t, ok)
		assert.InDelta(t, 3.0, reading, 1e-9)
	})

	t.Run("inverted graph with a source", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g := New()
		d := addDummy(t, g, "first")
		src, err := g.AddNode(nodes.NewSource("laser", 1))
		require.NoError(t, err)
		require.NoError(t, g.Connect(src, "out1", d, "front", 0))
		require.NoError(t, g.MapPort(d, ports.Output, "rear", "out"))
		g.SetInverted(true)

		_, err = g.Analyze(ctx, light.Result{"out": light.Energy{Joules: 1}})
		require.ErrorIs(t, err, opmerr.ErrAnalysis)
		assert.Contains(t, err.Error(), "non-invertible node")

		n, err := g.Node(d)
		require.NoError(t, err)
		assert.False(t, n.Inverted(), "flags of already flipped nodes are restored")
	})

	t.Run("reference runs its target backwards", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g := New()
		filter := nodes.NewIdealFilter("filter", 0.5)
		f, err := g.AddNode(filter)
		require.NoError(t, err)
		ref := nodes.NewReferenceTo(f, filter)
		require.NoError(t, ref.SetInverted(true))
		r, err := g.AddNode(ref)
		require.NoError(t, err)

		require.NoError(t, g.Connect(f, "rear", r, "rear", geom.Meter(0.5)))
		require.NoError(t, g.MapPort(f, ports.Input, "front", "in"))
		require.NoError(t, g.MapPort(r, ports.Output, "front", "out"))

		res, err := g.Analyze(ctx, light.Result{"in": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 0.25, energyAt(t, res, "out"), 1e-9)
		assert.False(t, filter.Inverted())
	})

	t.Run("inverted double pass", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		g := New()
		filter := nodes.NewIdealFilter("filter", 0.5)
		f, err := g.AddNode(filter)
		require.NoError(t, err)
		ref := nodes.NewReferenceTo(f, filter)
		require.NoError(t, ref.SetInverted(true))
		r, err := g.AddNode(ref)
		require.NoError(t, err)
		require.NoError(t, g.Connect(f, "rear", r, "rear", geom.Meter(0.5)))
		require.NoError(t, g.MapPort(f, ports.Input, "front", "in"))
		require.NoError(t, g.MapPort(r, ports.Output, "front", "out"))

		require.NoError(t, g.Invert())
		assert.Equal(t, []string{"front"}, ref.Ports().Names(ports.Input), "reference flips with the graph")
		require.NoError(t, g.Invert())
		assert.Equal(t, []string{"rear"}, ref.Ports().Names(ports.Input))

		g.SetInverted(true)
		res, err := g.Analyze(ctx, light.Result{"out": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 0.25, energyAt(t, res, "in"), 1e-9)
		assert.False(t, filter.Inverted())
		assert.True(t, ref.Inverted())
	})

	t.Run("context without logger", func(t *testing.T) {
		g, _, _ := splitterGraph(t)
		res, err := g.Analyze(context.Background(), light.Result{"input_1": light.Energy{Joules: 1}})
		require.NoError(t, err)
		assert.Len(t, res, 1)
	})
}

func TestInvert(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		g, d, bs := splitterGraph(t)
		before := g.Connections()

		require.NoError(t, g.Invert())
		flipped := g.Connections()
		require.Len(t, flipped, 1)
		assert.Equal(t, Connection{SrcID: bs, SrcPort: "input1", DstID: d, DstPort: "rear", Distance: geom.Meter(0.1)}, flipped[0])
		for _, ref := range g.Nodes() {
			assert.True(t, ref.Node.Inverted())
		}

		require.NoError(t, g.Invert())
		assert.Equal(t, before, g.Connections())
		for _, ref := range g.Nodes() {
			assert.False(t, ref.Node.Inverted())
		}
	})

	t.Run("non-invertible node rolls back", func(t *testing.T) {
		g := New()
		a := addDummy(t, g, "a")
		_, err := g.AddNode(nodes.NewSource("", 1))
		require.NoError(t, err)

		err = g.Invert()
		require.ErrorIs(t, err, opmerr.ErrAnalysis)
		assert.Contains(t, err.Error(), "group cannot be inverted because it contains a non-invertible node")
		n, _ := g.Node(a)
		assert.False(t, n.Inverted())
	})
}
