package hcl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beamgrid/internal/config"
	"github.com/vk/beamgrid/internal/testutil"
)

const splitterScenery = `
node "dummy" "front" {}
node "beam_splitter" "bs" {
  ratio = 0.6
  name  = "main splitter"
}

connect {
  from     = "front.rear"
  to       = "bs.input1"
  distance = 0.1
}

input "input_1" {
  node = "front"
  port = "front"
}
output "output_1" {
  node = "bs"
  port = "out1_trans1_refl2"
}
`

const groupScenery = `
group "arm" {
  inverted = true

  node "dummy" "d" {}
  node "reference" "back" { target = "d" }

  input "in" {
    node = "d"
    port = "front"
  }
  output "out" {
    node = "d"
    port = "rear"
  }
}

analysis {
  inverted = false
  light "input_1" { energy = 1 }
  distance "input_1" { length = 0.25 }
}
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestLoad(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewContext(t)
	root := writeFiles(t, map[string]string{
		"01_main.hcl":     splitterScenery,
		"parts/arm.hcl":   groupScenery,
		"parts/notes.txt": "not a scenery",
	})

	scenery, err := NewLoader().Load(ctx, root)
	require.NoError(t, err)

	inverted := false
	want := &config.Scenery{
		Graph: &config.Graph{
			Nodes: []*config.Node{
				{Type: "dummy", Key: "front", Properties: map[string]any{}},
				{Type: "beam_splitter", Key: "bs", Properties: map[string]any{"ratio": 0.6, "name": "main splitter"}},
			},
			Connections: []*config.Connection{
				{From: config.Endpoint{Node: "front", Port: "rear"}, To: config.Endpoint{Node: "bs", Port: "input1"}, Distance: 0.1},
			},
			Inputs:  []*config.Mapping{{External: "input_1", Node: "front", Port: "front"}},
			Outputs: []*config.Mapping{{External: "output_1", Node: "bs", Port: "out1_trans1_refl2"}},
			Groups: []*config.Group{{
				Key:        "arm",
				Properties: map[string]any{"inverted": true},
				Graph: &config.Graph{
					Nodes: []*config.Node{
						{Type: "dummy", Key: "d", Properties: map[string]any{}},
						{Type: "reference", Key: "back", Properties: map[string]any{"target": "d"}},
					},
					Inputs:  []*config.Mapping{{External: "in", Node: "d", Port: "front"}},
					Outputs: []*config.Mapping{{External: "out", Node: "d", Port: "rear"}},
				},
			}},
		},
		Analysis: &config.Analysis{
			Inverted:  &inverted,
			Light:     map[string]float64{"input_1": 1},
			Distances: map[string]float64{"input_1": 0.25},
		},
	}
	if diff := cmp.Diff(want, scenery); diff != "" {
		t.Errorf("scenery mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSingleFile(t *testing.T) {
	t.Parallel()

	ctx, logs := testutil.NewContext(t)
	root := writeFiles(t, map[string]string{"main.hcl": splitterScenery})

	scenery, err := NewLoader().Load(ctx, filepath.Join(root, "main.hcl"), filepath.Join(root, "main.hcl"))
	require.NoError(t, err)
	assert.Len(t, scenery.Graph.Nodes, 2, "a file given twice is read once")
	assert.Nil(t, scenery.Analysis.Inverted)
	assert.Empty(t, scenery.Analysis.Light)
	assert.Contains(t, logs.String(), "HCL loading complete.")
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		files  map[string]string
		errMsg string
	}{
		{name: "no files", files: map[string]string{"readme.md": "hi"}, errMsg: "no .hcl files found"},
		{name: "syntax error", files: map[string]string{"a.hcl": `node "dummy" {`}, errMsg: "failed to parse HCL file"},
		{name: "unknown block", files: map[string]string{"a.hcl": `lens "x" {}`}, errMsg: "failed to decode HCL file"},
		{name: "missing label", files: map[string]string{"a.hcl": `node "dummy" {}`}, errMsg: "failed to decode HCL file"},
		{name: "bad endpoint", files: map[string]string{"a.hcl": "connect {\n  from = \"a\"\n  to = \"b.front\"\n}\n"}, errMsg: "connect `from`"},
		{name: "unsupported property value", files: map[string]string{"a.hcl": "node \"dummy\" \"a\" {\n  tags = [\"x\"]\n}\n"}, errMsg: "unsupported value of type"},
		{name: "null property", files: map[string]string{"a.hcl": "node \"dummy\" \"a\" {\n  name = null\n}\n"}, errMsg: "must not be null"},
		{name: "nested block in node", files: map[string]string{"a.hcl": "node \"dummy\" \"a\" {\n  extra {}\n}\n"}, errMsg: "node \"a\""},
		{name: "duplicate light", files: map[string]string{"a.hcl": "analysis {\n  light \"in\" { energy = 1 }\n  light \"in\" { energy = 2 }\n}\n"}, errMsg: "defined more than once"},
		{name: "inverted twice", files: map[string]string{"a.hcl": "analysis {\n  inverted = true\n}\n", "b.hcl": "analysis {\n  inverted = false\n}\n"}, errMsg: "`inverted` is defined more than once"},
		{name: "broken group", files: map[string]string{"a.hcl": "group \"g\" {\n  connect {\n    from = \"x\"\n    to = \"y.z\"\n  }\n}\n"}, errMsg: "group \"g\""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.NewContext(t)
			root := writeFiles(t, tc.files)
			_, err := NewLoader().Load(ctx, root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	t.Run("missing path", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		_, err := NewLoader().Load(ctx, filepath.Join(t.TempDir(), "nope"))
		require.ErrorContains(t, err, "error accessing path")
	})

	t.Run("wrong extension", func(t *testing.T) {
		ctx, _ := testutil.NewContext(t)
		root := writeFiles(t, map[string]string{"graph.yaml": "nodes: []"})
		_, err := NewLoader().Load(ctx, filepath.Join(root, "graph.yaml"))
		require.ErrorContains(t, err, "is not a .hcl file")
	})
}
