// Package optical defines the capability contract every node placed in an
// optical graph fulfils, plus Attr, the shared bookkeeping (name, type,
// inversion, placement, properties) concrete node kinds embed.
//
// The graph only ever talks to nodes through Node. Two narrower capabilities
// are discovered by type assertion: Referencer for nodes aliasing another
// node, and the group type of the opticgraph package for nested graphs.
package optical
