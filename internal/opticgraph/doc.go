// Package opticgraph implements the optical connection graph and its
// analysis engine.
//
// A Graph is a directed acyclic graph of nodes (see package optical) whose
// edges join an output port of one node to an input port of another and
// carry the propagation distance between them. Unconnected ports can be
// exposed under external names through two port maps, which is what makes a
// graph usable as a single node inside another graph (see Group).
//
// # Invariants
//
//   - The graph is always acyclic. Every new edge is followed by a cycle
//     check and removed again if it closed a loop.
//   - At most one edge leaves a given (node, output port) pair and at most
//     one edge enters a given (node, input port) pair.
//   - A port is never mapped externally and connected internally at the
//     same time: connecting a mapped port drops its mapping.
//   - Every exported mutating method either succeeds completely or leaves
//     the graph exactly as it was.
//
// # Analysis
//
// Analyze walks the nodes in topological order. Each node receives the
// external light mapped onto its input ports plus the light stored on its
// incoming edges by already processed predecessors; its output is stored on
// its outgoing edges and, for mapped output ports, copied into the result.
// When the graph is flagged inverted the whole structure is flipped for the
// duration of the pass, so callers see the same orientation before and
// after.
//
// # Persistence
//
// Graphs are saved as YAML documents with the fields nodes, edges,
// input_map and output_map. Loading happens in passes: nodes are created
// from the registry with their saved ids, reference nodes are linked to
// their targets, edges are replayed through Connect and the port maps are
// restored and checked against the rebuilt graph.
//
// A Graph is not safe for concurrent use.
package opticgraph
