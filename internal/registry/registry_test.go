package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

type fakeNode struct {
	optical.Attr
}

func (f *fakeNode) Ports() *ports.Set { return ports.FromNames([]string{"in"}, []string{"out"}) }

func (f *fakeNode) Analyze(context.Context, light.Result) (light.Result, error) {
	return light.Result{}, nil
}

type fakeModule struct {
	types []string
}

func (m *fakeModule) Register(r *Registry) {
	for _, t := range m.types {
		r.Register(t, func() optical.Node { return &fakeNode{Attr: optical.NewAttr(t, "")} })
	}
}

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := New(&fakeModule{types: []string{"b", "a"}})

	t.Run("types", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, r.Types())
		assert.True(t, r.Has("a"))
		assert.False(t, r.Has("c"))
	})

	t.Run("new", func(t *testing.T) {
		n, err := r.New("a")
		require.NoError(t, err)
		assert.Equal(t, "a", n.NodeType())

		_, err = r.New("c")
		assert.ErrorIs(t, err, opmerr.ErrProperty)
		assert.ErrorContains(t, err, "unknown node type 'c'")
	})

	t.Run("new with properties", func(t *testing.T) {
		n, err := r.NewWithProperties("a", optical.Properties{"name": "custom", "inverted": true})
		require.NoError(t, err)
		assert.Equal(t, "custom", n.Name())
		assert.True(t, n.Inverted())

		_, err = r.NewWithProperties("a", optical.Properties{"name": 12})
		assert.ErrorContains(t, err, "node type 'a'")
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		assert.PanicsWithValue(t, "node type 'a' already registered", func() {
			r.Register("a", func() optical.Node { return nil })
		})
	})
}

func TestValidateRegistry(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		r := New(&fakeModule{types: []string{"a", "b"}})
		assert.NoError(t, r.ValidateRegistry(testContext()))
	})

	t.Run("type mismatch", func(t *testing.T) {
		r := New()
		r.Register("declared", func() optical.Node { return &fakeNode{Attr: optical.NewAttr("actual", "")} })
		err := r.ValidateRegistry(testContext())
		assert.ErrorContains(t, err, "factory for 'declared' builds nodes of type 'actual'")
	})

	t.Run("nil factory result", func(t *testing.T) {
		r := New()
		r.Register("nil", func() optical.Node { return nil })
		assert.ErrorContains(t, r.ValidateRegistry(testContext()), "returned nil")
	})
}
