package config

import (
	"fmt"
	"strings"
)

// Scenery is the unified representation of a scenery description.
type Scenery struct {
	Graph    *Graph
	Analysis *Analysis
}

// Graph holds the contents of the top level or of a group.
type Graph struct {
	Nodes       []*Node
	Connections []*Connection
	Inputs      []*Mapping
	Outputs     []*Mapping
	Groups      []*Group
}

// Node is a single optical element. Properties carry plain Go values
// (string, bool, float64) keyed by property name.
type Node struct {
	Type       string
	Key        string
	Properties map[string]any
}

// Endpoint addresses one port of a node by its key.
type Endpoint struct {
	Node string
	Port string
}

func (e Endpoint) String() string { return e.Node + "." + e.Port }

// ParseEndpoint splits a "node.port" reference.
func ParseEndpoint(s string) (Endpoint, error) {
	node, port, ok := strings.Cut(s, ".")
	if !ok || node == "" || port == "" {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q, expected \"node.port\"", s)
	}
	return Endpoint{Node: node, Port: port}, nil
}

// Connection joins an output port to an input port.
type Connection struct {
	From     Endpoint
	To       Endpoint
	Distance float64
}

// Mapping exposes a node port under an external name.
type Mapping struct {
	External string
	Node     string
	Port     string
}

// Group is a node made of a nested graph.
type Group struct {
	Key        string
	Properties map[string]any
	Graph      *Graph
}

// Analysis holds the settings of an analysis run. Light maps external input
// names to energies in joules, Distances maps them to the path length in
// metres in front of the port.
type Analysis struct {
	Inverted  *bool
	Light     map[string]float64
	Distances map[string]float64
}

// NewScenery returns an empty scenery with all collections initialized.
func NewScenery() *Scenery {
	return &Scenery{Graph: &Graph{}, Analysis: NewAnalysis()}
}

// NewAnalysis returns empty analysis settings.
func NewAnalysis() *Analysis {
	return &Analysis{Light: make(map[string]float64), Distances: make(map[string]float64)}
}

// Merge appends the contents of other to g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	g.Nodes = append(g.Nodes, other.Nodes...)
	g.Connections = append(g.Connections, other.Connections...)
	g.Inputs = append(g.Inputs, other.Inputs...)
	g.Outputs = append(g.Outputs, other.Outputs...)
	g.Groups = append(g.Groups, other.Groups...)
}

// Merge folds other into a. Settings given twice for the same port are an
// error.
func (a *Analysis) Merge(other *Analysis) error {
	if other == nil {
		return nil
	}
	if other.Inverted != nil {
		if a.Inverted != nil {
			return fmt.Errorf("analysis setting `inverted` is defined more than once")
		}
		inv := *other.Inverted
		a.Inverted = &inv
	}
	for name, e := range other.Light {
		if _, dup := a.Light[name]; dup {
			return fmt.Errorf("light for input %q is defined more than once", name)
		}
		a.Light[name] = e
	}
	for name, d := range other.Distances {
		if _, dup := a.Distances[name]; dup {
			return fmt.Errorf("distance for input %q is defined more than once", name)
		}
		a.Distances[name] = d
	}
	return nil
}
