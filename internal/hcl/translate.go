// This file translates the decoded HCL schema structs into the
// format-agnostic scenery model.

package hcl

import (
	"context"
	"fmt"

	"github.com/vk/beamgrid/internal/config"
	"github.com/vk/beamgrid/internal/ctxlog"
)

func translateGraph(
	ctx context.Context,
	nodes []*nodeBlock,
	connects []*connectBlock,
	inputs, outputs []*mappingBlock,
	groups []*groupBlock,
) (*config.Graph, error) {
	g := &config.Graph{}

	for _, n := range nodes {
		props, err := decodeProperties(ctx, n.Remain)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Key, err)
		}
		g.Nodes = append(g.Nodes, &config.Node{Type: n.Type, Key: n.Key, Properties: props})
	}

	for _, c := range connects {
		conn, err := translateConnection(c)
		if err != nil {
			return nil, err
		}
		g.Connections = append(g.Connections, conn)
	}

	for _, m := range inputs {
		g.Inputs = append(g.Inputs, &config.Mapping{External: m.Name, Node: m.Node, Port: m.Port})
	}
	for _, m := range outputs {
		g.Outputs = append(g.Outputs, &config.Mapping{External: m.Name, Node: m.Node, Port: m.Port})
	}

	for _, grp := range groups {
		translated, err := translateGroup(ctx, grp)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", grp.Key, err)
		}
		g.Groups = append(g.Groups, translated)
	}
	return g, nil
}

func translateGroup(ctx context.Context, b *groupBlock) (*config.Group, error) {
	logger := ctxlog.FromContext(ctx).With("group", b.Key)
	logger.Debug("Translating HCL group to internal config model.")

	props, err := decodeProperties(ctxlog.WithLogger(ctx, logger), b.Remain)
	if err != nil {
		return nil, err
	}
	inner, err := translateGraph(ctxlog.WithLogger(ctx, logger), b.Nodes, b.Connects, b.Inputs, b.Outputs, b.Groups)
	if err != nil {
		return nil, err
	}
	return &config.Group{Key: b.Key, Properties: props, Graph: inner}, nil
}

func translateConnection(c *connectBlock) (*config.Connection, error) {
	from, err := config.ParseEndpoint(c.From)
	if err != nil {
		return nil, fmt.Errorf("connect `from`: %w", err)
	}
	to, err := config.ParseEndpoint(c.To)
	if err != nil {
		return nil, fmt.Errorf("connect `to`: %w", err)
	}
	conn := &config.Connection{From: from, To: to}
	if c.Distance != nil {
		conn.Distance = *c.Distance
	}
	return conn, nil
}

func translateAnalysis(b *analysisBlock) (*config.Analysis, error) {
	a := config.NewAnalysis()
	a.Inverted = b.Inverted
	for _, l := range b.Lights {
		if _, dup := a.Light[l.Input]; dup {
			return nil, fmt.Errorf("light for input %q is defined more than once", l.Input)
		}
		a.Light[l.Input] = l.Energy
	}
	for _, d := range b.Distances {
		if _, dup := a.Distances[d.Input]; dup {
			return nil, fmt.Errorf("distance for input %q is defined more than once", d.Input)
		}
		a.Distances[d.Input] = d.Length
	}
	return a, nil
}
