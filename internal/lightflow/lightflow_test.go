package lightflow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
)

func TestNew(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		distance geom.Length
		wantErr  bool
	}{
		{name: "zero", distance: 0},
		{name: "negative", distance: geom.Millimeter(-5)},
		{name: "nan", distance: geom.Meter(math.NaN()), wantErr: true},
		{name: "positive infinity", distance: geom.Meter(math.Inf(1)), wantErr: true},
		{name: "negative infinity", distance: geom.Meter(math.Inf(-1)), wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := New("rear", "front", tc.distance)
			if tc.wantErr {
				assert.ErrorIs(t, err, opmerr.ErrStructure)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.distance, f.Distance())
			assert.Nil(t, f.Data())
		})
	}
}

func TestFlow(t *testing.T) {
	t.Parallel()

	f, err := New("rear", "front", geom.Millimeter(100))
	require.NoError(t, err)

	t.Run("invert swaps labels and round trips", func(t *testing.T) {
		f.Invert()
		assert.Equal(t, "front", f.SrcPort())
		assert.Equal(t, "rear", f.TargetPort())
		f.Invert()
		assert.Equal(t, "rear", f.SrcPort())
		assert.Equal(t, "front", f.TargetPort())
	})

	t.Run("distance updates keep finite values only", func(t *testing.T) {
		require.NoError(t, f.SetDistance(geom.Meter(1)))
		assert.Equal(t, geom.Meter(1), f.Distance())
		assert.Error(t, f.SetDistance(geom.Meter(math.NaN())))
		assert.Equal(t, geom.Meter(1), f.Distance())
	})

	t.Run("payload", func(t *testing.T) {
		f.SetData(light.Energy{Joules: 1})
		assert.Equal(t, light.Energy{Joules: 1}, f.Data())
		f.SetData(nil)
		assert.Nil(t, f.Data())
	})

	assert.Equal(t, "rear -> front (1.000 m)", f.String())
}
