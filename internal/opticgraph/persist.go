package opticgraph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/opticref"
	"github.com/vk/beamgrid/internal/portmap"
	"github.com/vk/beamgrid/internal/ports"
	"github.com/vk/beamgrid/internal/registry"
	"gopkg.in/yaml.v3"
)

// Top level field names of a saved graph.
const (
	fieldNodes     = "nodes"
	fieldEdges     = "edges"
	fieldInputMap  = "input_map"
	fieldOutputMap = "output_map"
)

var knownFields = []string{fieldNodes, fieldEdges, fieldInputMap, fieldOutputMap}

// document is the saved shape of a graph.
type document struct {
	Nodes     []nodeDoc    `yaml:"nodes"`
	Edges     []edgeDoc    `yaml:"edges"`
	InputMap  *portmap.Map `yaml:"input_map"`
	OutputMap *portmap.Map `yaml:"output_map"`
}

type nodeDoc struct {
	Type       string             `yaml:"type"`
	ID         uuid.UUID          `yaml:"id"`
	Properties optical.Properties `yaml:"properties"`
	Isometry   *geom.Isometry     `yaml:"isometry,omitempty"`
	Graph      *Graph             `yaml:"graph,omitempty"`
}

// rawNode is the loading counterpart of nodeDoc; the nested graph stays raw
// until the node registry is at hand.
type rawNode struct {
	Type       string             `yaml:"type"`
	ID         uuid.UUID          `yaml:"id"`
	Properties optical.Properties `yaml:"properties"`
	Isometry   *geom.Isometry     `yaml:"isometry"`
	Graph      yaml.Node          `yaml:"graph"`
}

// edgeDoc is written as a flow sequence:
// [src_id, dst_id, src_port, dst_port, distance in meters].
type edgeDoc Connection

func (e edgeDoc) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []any{e.SrcID.String(), e.DstID.String(), e.SrcPort, e.DstPort, e.Distance.Meters()} {
		item := &yaml.Node{}
		if err := item.Encode(v); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, item)
	}
	return n, nil
}

// MarshalYAML implements yaml.Marshaler.
func (g *Graph) MarshalYAML() (any, error) {
	doc := document{
		Nodes:     make([]nodeDoc, 0, len(g.order)),
		Edges:     make([]edgeDoc, 0, len(g.edges)),
		InputMap:  g.inputMap,
		OutputMap: g.outputMap,
	}
	for _, id := range g.order {
		node := g.nodes[id]
		nd := nodeDoc{Type: node.NodeType(), ID: id, Properties: node.Properties()}
		if iso, ok := node.Isometry(); ok {
			nd.Isometry = &iso
		}
		if grp, ok := node.(*Group); ok {
			nd.Graph = grp.graph
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, c := range g.Connections() {
		doc.Edges = append(doc.Edges, edgeDoc(c))
	}
	return doc, nil
}

// Marshal returns the YAML form of the graph.
func (g *Graph) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the YAML form of the graph to w.
func (g *Graph) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("%w: %w", opmerr.ErrSerialization, err)
	}
	return enc.Close()
}

// Decode reads a saved graph from r. See Unmarshal.
func Decode(ctx context.Context, r io.Reader, reg *registry.Registry) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading graph: %w", opmerr.ErrSerialization, err)
	}
	return Unmarshal(ctx, data, reg)
}

// Unmarshal rebuilds a saved graph. Node kinds are created through reg,
// which must know every type used in the document, including "group" for
// nested graphs.
func Unmarshal(ctx context.Context, data []byte, reg *registry.Registry) (*Graph, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", opmerr.ErrSerialization, err)
	}
	body := &root
	if body.Kind == yaml.DocumentNode {
		if len(body.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", opmerr.ErrSerialization)
		}
		body = body.Content[0]
	}
	if body.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", opmerr.ErrSerialization)
	}
	g, err := decodeGraph(ctx, body, reg)
	if err != nil {
		return nil, withKind(opmerr.ErrSerialization, err)
	}
	return g, nil
}

func decodeGraph(ctx context.Context, n *yaml.Node, reg *registry.Registry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: graph must be a mapping", n.Line)
	}
	fields := make(map[string]*yaml.Node, len(knownFields))
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		switch key {
		case fieldNodes, fieldEdges, fieldInputMap, fieldOutputMap:
		default:
			return nil, fmt.Errorf("line %d: unknown field `%s`, expected one of %s", n.Content[i].Line, key, strings.Join(knownFields, ", "))
		}
		if _, dup := fields[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate field `%s`", n.Content[i].Line, key)
		}
		fields[key] = value
	}
	for _, required := range []string{fieldNodes, fieldEdges} {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("missing field `%s`", required)
		}
	}

	g := New()

	// Pass 1: create every node under its saved id.
	var raws []rawNode
	if err := fields[fieldNodes].Decode(&raws); err != nil {
		return nil, fmt.Errorf("decoding nodes: %w", err)
	}
	for i, raw := range raws {
		node, err := decodeNode(ctx, raw, reg)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if err := g.insert(opticref.WithID(raw.ID, node)); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}
	logger.Debug("Unmarshal: pass 1 (nodes) complete.", "nodes", len(g.order))

	// Pass 2: link reference nodes to their targets.
	for _, id := range g.order {
		r, ok := g.nodes[id].(optical.Referencer)
		if !ok {
			continue
		}
		target, ok := g.nodes[r.ReferenceID()]
		if !ok || r.ReferenceID() == id {
			return nil, fmt.Errorf("reference node %s does not reference anything (reference id %s)", id, r.ReferenceID())
		}
		if _, chained := target.(optical.Referencer); chained {
			return nil, fmt.Errorf("reference node %s points at reference node %s, references must target a concrete node", id, r.ReferenceID())
		}
		r.AssignReference(target)
	}
	logger.Debug("Unmarshal: pass 2 (references) complete.")

	// Pass 3: replay every edge through Connect.
	var edges []yaml.Node
	if err := fields[fieldEdges].Decode(&edges); err != nil {
		return nil, fmt.Errorf("decoding edges: %w", err)
	}
	for i := range edges {
		c, err := decodeEdge(&edges[i])
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if err := g.Connect(c.SrcID, c.SrcPort, c.DstID, c.DstPort, c.Distance); err != nil {
			return nil, fmt.Errorf("connecting graph nodes failed: %w", err)
		}
	}
	logger.Debug("Unmarshal: pass 3 (edges) complete.", "edges", len(g.edges))

	// Pass 4: restore the port maps and check them against the graph.
	for dir, field := range map[ports.Direction]string{ports.Input: fieldInputMap, ports.Output: fieldOutputMap} {
		value, ok := fields[field]
		if !ok {
			continue
		}
		m := portmap.New()
		if err := value.Decode(m); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", field, err)
		}
		if dir == ports.Input {
			g.inputMap = m
		} else {
			g.outputMap = m
		}
	}
	for _, dir := range []ports.Direction{ports.Input, ports.Output} {
		if err := g.validateMap(dir); err != nil {
			return nil, fmt.Errorf("invalid port mapping: %w", err)
		}
	}
	logger.Debug("Unmarshal: pass 4 (port maps) complete.", "inputs", g.inputMap.Len(), "outputs", g.outputMap.Len())

	return g, nil
}

func decodeNode(ctx context.Context, raw rawNode, reg *registry.Registry) (optical.Node, error) {
	if raw.Type == "" {
		return nil, fmt.Errorf("missing field `type`")
	}
	if raw.ID == uuid.Nil {
		return nil, fmt.Errorf("missing field `id`")
	}
	node, err := reg.New(raw.Type)
	if err != nil {
		return nil, err
	}
	if grp, ok := node.(*Group); ok && raw.Graph.Kind != 0 {
		nested, err := decodeGraph(ctx, &raw.Graph, reg)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", raw.ID, err)
		}
		grp.setGraph(nested)
	}
	for _, key := range raw.Properties.Keys() {
		if err := node.SetProperty(key, raw.Properties[key]); err != nil {
			return nil, err
		}
	}
	if raw.Isometry != nil {
		node.SetIsometry(*raw.Isometry)
	}
	return node, nil
}

func decodeEdge(n *yaml.Node) (Connection, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 5 {
		return Connection{}, fmt.Errorf("line %d: expected [src_id, dst_id, src_port, dst_port, distance]", n.Line)
	}
	var (
		c        Connection
		src, dst string
		distance float64
	)
	for i, target := range []any{&src, &dst, &c.SrcPort, &c.DstPort, &distance} {
		if err := n.Content[i].Decode(target); err != nil {
			return Connection{}, err
		}
	}
	var err error
	if c.SrcID, err = uuid.Parse(src); err != nil {
		return Connection{}, fmt.Errorf("source id: %w", err)
	}
	if c.DstID, err = uuid.Parse(dst); err != nil {
		return Connection{}, fmt.Errorf("target id: %w", err)
	}
	c.Distance = geom.Meter(distance)
	return c, nil
}
