package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Nodes    []*nodeBlock     `hcl:"node,block"`
	Connects []*connectBlock  `hcl:"connect,block"`
	Inputs   []*mappingBlock  `hcl:"input,block"`
	Outputs  []*mappingBlock  `hcl:"output,block"`
	Groups   []*groupBlock    `hcl:"group,block"`
	Analysis []*analysisBlock `hcl:"analysis,block"`
}

// nodeBlock is `node "<type>" "<key>" { <property> = <value> ... }`.
type nodeBlock struct {
	Type   string   `hcl:"type,label"`
	Key    string   `hcl:"key,label"`
	Remain hcl.Body `hcl:",remain"`
}

type connectBlock struct {
	From     string   `hcl:"from"`
	To       string   `hcl:"to"`
	Distance *float64 `hcl:"distance,optional"`
}

// mappingBlock is used for both `input` and `output` blocks.
type mappingBlock struct {
	Name string `hcl:"name,label"`
	Node string `hcl:"node"`
	Port string `hcl:"port"`
}

// groupBlock nests a complete graph. Attributes left in Remain become the
// group's properties.
type groupBlock struct {
	Key      string          `hcl:"key,label"`
	Nodes    []*nodeBlock    `hcl:"node,block"`
	Connects []*connectBlock `hcl:"connect,block"`
	Inputs   []*mappingBlock `hcl:"input,block"`
	Outputs  []*mappingBlock `hcl:"output,block"`
	Groups   []*groupBlock   `hcl:"group,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

type analysisBlock struct {
	Inverted  *bool            `hcl:"inverted,optional"`
	Lights    []*lightBlock    `hcl:"light,block"`
	Distances []*distanceBlock `hcl:"distance,block"`
}

type lightBlock struct {
	Input  string  `hcl:"input,label"`
	Energy float64 `hcl:"energy"`
}

type distanceBlock struct {
	Input  string  `hcl:"input,label"`
	Length float64 `hcl:"length"`
}
