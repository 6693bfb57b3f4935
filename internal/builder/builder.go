package builder

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/config"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/nodes"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/opticgraph"
	"github.com/vk/beamgrid/internal/ports"
	"github.com/vk/beamgrid/internal/registry"
)

// PropTarget names the node a reference stands for, by key.
const PropTarget = "target"

// rootScope is the scope name of the top level graph in log lines.
const rootScope = "/"

// Result is a built graph together with the ids assigned to the top level
// node keys.
type Result struct {
	Graph *opticgraph.Graph
	IDs   map[string]uuid.UUID
}

// Build constructs the graph described by g.
func Build(ctx context.Context, g *config.Graph, r *registry.Registry) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	s := newScope(rootScope, opticgraph.New())
	if err := s.build(ctx, g, r); err != nil {
		return nil, err
	}

	logger.Info("Build: Graph construction successful.", "nodes", s.graph.NodeCount(), "connections", s.graph.EdgeCount())
	return &Result{Graph: s.graph, IDs: s.ids}, nil
}

// scope is one graph under construction: the top level or a group.
type scope struct {
	path  string
	graph *opticgraph.Graph
	ids   map[string]uuid.UUID
	// targets maps reference node keys to the key of their target.
	targets map[string]string
}

func newScope(path string, g *opticgraph.Graph) *scope {
	return &scope{path: path, graph: g, ids: make(map[string]uuid.UUID), targets: make(map[string]string)}
}

func (s *scope) child(key string) string {
	if s.path == rootScope {
		return key
	}
	return s.path + "/" + key
}

func (s *scope) errorf(format string, args ...any) error {
	return fmt.Errorf("scope %s: %s", s.path, fmt.Sprintf(format, args...))
}

func (s *scope) wrap(err error, format string, args ...any) error {
	return fmt.Errorf("scope %s: %s: %w", s.path, fmt.Sprintf(format, args...), err)
}

func (s *scope) build(ctx context.Context, g *config.Graph, r *registry.Registry) error {
	ctx, logger := ctxlog.With(ctx, "scope", s.path)
	if g == nil {
		g = &config.Graph{}
	}

	logger.Debug("Build: starting pass 1 (node creation).", "nodes", len(g.Nodes), "groups", len(g.Groups))
	for _, n := range g.Nodes {
		if err := s.createNode(ctx, n, r); err != nil {
			return err
		}
	}
	for _, grp := range g.Groups {
		if err := s.createGroup(ctx, grp, r); err != nil {
			return err
		}
	}

	logger.Debug("Build: starting pass 2 (reference linking).", "references", len(s.targets))
	if err := s.linkReferences(); err != nil {
		return err
	}

	logger.Debug("Build: starting pass 3 (connections).", "connections", len(g.Connections))
	for _, c := range g.Connections {
		if err := s.connect(c); err != nil {
			return err
		}
	}

	logger.Debug("Build: starting pass 4 (port mappings).", "inputs", len(g.Inputs), "outputs", len(g.Outputs))
	for _, m := range g.Inputs {
		if err := s.mapPort(m, ports.Input); err != nil {
			return err
		}
	}
	for _, m := range g.Outputs {
		if err := s.mapPort(m, ports.Output); err != nil {
			return err
		}
	}

	if !s.graph.IsSingleTree() && s.graph.NodeCount() > 1 {
		logger.Warn("Build: graph consists of unconnected sub-trees.")
	}
	logger.Debug("Build: scope complete.", "nodes", s.graph.NodeCount(), "connections", s.graph.EdgeCount())
	return nil
}

func (s *scope) claim(key string) error {
	if key == "" {
		return s.errorf("node key must not be empty")
	}
	if _, exists := s.ids[key]; exists {
		return s.errorf("duplicate node key %q", key)
	}
	return nil
}

func (s *scope) createNode(ctx context.Context, n *config.Node, r *registry.Registry) error {
	if err := s.claim(n.Key); err != nil {
		return err
	}

	props := make(optical.Properties, len(n.Properties))
	for k, v := range n.Properties {
		props[k] = v
	}
	if n.Type == nodes.TypeReference {
		target, err := props.String(PropTarget)
		if err != nil {
			return s.wrap(err, "reference %q", n.Key)
		}
		delete(props, PropTarget)
		s.targets[n.Key] = target
	}
	if _, ok := props[optical.PropName]; !ok {
		props[optical.PropName] = n.Key
	}

	node, err := r.NewWithProperties(n.Type, props)
	if err != nil {
		return s.wrap(err, "node %q", n.Key)
	}
	id, err := s.graph.AddNode(node)
	if err != nil {
		return s.wrap(err, "node %q", n.Key)
	}
	s.ids[n.Key] = id
	ctxlog.FromContext(ctx).Debug("Build: created node.", "key", n.Key, "type", n.Type, "id", id)
	return nil
}

func (s *scope) createGroup(ctx context.Context, g *config.Group, r *registry.Registry) error {
	if err := s.claim(g.Key); err != nil {
		return err
	}

	grp := opticgraph.NewGroup(g.Key)
	inner := newScope(s.child(g.Key), grp.Graph())
	if err := inner.build(ctx, g.Graph, r); err != nil {
		return err
	}

	// Inverting last: an inverted group refuses structural changes.
	keys := make([]string, 0, len(g.Properties))
	for k := range g.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[j] == optical.PropInverted || (keys[i] != optical.PropInverted && keys[i] < keys[j])
	})
	for _, k := range keys {
		if err := grp.SetProperty(k, g.Properties[k]); err != nil {
			return s.wrap(err, "group %q", g.Key)
		}
	}

	id, err := s.graph.AddNode(grp)
	if err != nil {
		return s.wrap(err, "group %q", g.Key)
	}
	s.ids[g.Key] = id
	ctxlog.FromContext(ctx).Debug("Build: created group.", "key", g.Key, "id", id, "ports", grp.Ports().String())
	return nil
}

func (s *scope) linkReferences() error {
	keys := make([]string, 0, len(s.targets))
	for k := range s.targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		targetKey := s.targets[key]
		targetID, ok := s.ids[targetKey]
		if !ok {
			return s.errorf("reference %q: target %q does not exist in this scope", key, targetKey)
		}
		if targetKey == key {
			return s.errorf("reference %q refers to itself", key)
		}
		node, err := s.graph.Node(s.ids[key])
		if err != nil {
			return s.wrap(err, "reference %q", key)
		}
		target, err := s.graph.Node(targetID)
		if err != nil {
			return s.wrap(err, "reference %q", key)
		}
		ref, ok := node.(optical.Referencer)
		if !ok {
			return s.errorf("node %q of type %s cannot reference other nodes", key, node.NodeType())
		}

		if _, chained := target.(optical.Referencer); chained {
			return s.errorf("reference %q targets reference %q, references must target a concrete node", key, targetKey)
		}

		name := node.Name()
		if err := node.SetProperty(nodes.PropReferenceID, targetID.String()); err != nil {
			return s.wrap(err, "reference %q", key)
		}
		ref.AssignReference(target)
		if name != key {
			// An explicit name survives the renaming done by AssignReference.
			if err := node.SetProperty(optical.PropName, name); err != nil {
				return s.wrap(err, "reference %q", key)
			}
		}
	}
	return nil
}

func (s *scope) lookup(key string) (uuid.UUID, error) {
	id, ok := s.ids[key]
	if !ok {
		return uuid.Nil, s.errorf("unknown node %q", key)
	}
	return id, nil
}

func (s *scope) connect(c *config.Connection) error {
	src, err := s.lookup(c.From.Node)
	if err != nil {
		return err
	}
	dst, err := s.lookup(c.To.Node)
	if err != nil {
		return err
	}
	if err := s.graph.Connect(src, c.From.Port, dst, c.To.Port, geom.Meter(c.Distance)); err != nil {
		return s.wrap(err, "connect %s -> %s", c.From, c.To)
	}
	return nil
}

func (s *scope) mapPort(m *config.Mapping, dir ports.Direction) error {
	id, err := s.lookup(m.Node)
	if err != nil {
		return err
	}
	if err := s.graph.MapPort(id, dir, m.Port, m.External); err != nil {
		return s.wrap(err, "%s %q", dir, m.External)
	}
	return nil
}
