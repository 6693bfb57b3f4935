package opticgraph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

const dotFont = "Helvetica,Arial,sans-serif"

var dotEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

// DOT renders the graph in the graphviz dot language. Nodes are drawn as
// records listing their input and output ports, edges are labelled with
// their distance. rankdir is "LR" or "TB"; any other value falls back to
// "TB".
func (g *Graph) DOT(rankdir string) string {
	if rankdir != "LR" {
		rankdir = "TB"
	}
	var b strings.Builder
	b.WriteString("digraph {\n")
	fmt.Fprintf(&b, "  rankdir=%q\n", rankdir)
	fmt.Fprintf(&b, "  fontname=%q\n", dotFont)
	fmt.Fprintf(&b, "  node [fontname=%q shape=record]\n", dotFont)
	fmt.Fprintf(&b, "  edge [fontname=%q]\n", dotFont)
	for _, id := range g.order {
		node := g.nodes[id]
		fmt.Fprintf(&b, "  %s [label=\"%s\"", dotID(id), recordLabel(node))
		if _, ok := node.(*Group); ok {
			b.WriteString(" style=filled fillcolor=yellow")
		}
		b.WriteString("]\n")
	}
	for _, e := range g.edges {
		src := g.nodes[e.src].Ports().Names(ports.Output)
		dst := g.nodes[e.dst].Ports().Names(ports.Input)
		fmt.Fprintf(&b, "  %s:%s -> %s:%s [label=%q]\n",
			dotID(e.src), portField("o", src, e.flow.SrcPort()),
			dotID(e.dst), portField("i", dst, e.flow.TargetPort()),
			e.flow.Distance().String())
	}
	b.WriteString("}\n")
	return b.String()
}

func dotID(id uuid.UUID) string {
	return "i" + strings.ReplaceAll(id.String(), "-", "")
}

// recordLabel lays out inputs, name and outputs as three record rows. The
// same label reads left to right under rankdir LR.
func recordLabel(node optical.Node) string {
	p := node.Ports()
	name := node.Name()
	if node.Inverted() {
		name += " (inv)"
	}
	return fmt.Sprintf("{{%s}|%s|{%s}}",
		portFields("i", p.Names(ports.Input)), dotEscaper.Replace(name), portFields("o", p.Names(ports.Output)))
}

func portFields(prefix string, names []string) string {
	fields := make([]string, len(names))
	for i, name := range names {
		fields[i] = fmt.Sprintf("<%s%d> %s", prefix, i, dotEscaper.Replace(name))
	}
	return strings.Join(fields, "|")
}

func portField(prefix string, names []string, port string) string {
	for i, name := range names {
		if name == port {
			return fmt.Sprintf("%s%d", prefix, i)
		}
	}
	return prefix
}
