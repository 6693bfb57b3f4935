/*
Package builder turns a format-agnostic scenery (see package config) into an
optical graph (see package opticgraph).

The construction is a multi-pass process, run once per graph scope; group
scopes are built recursively during the first pass:

 1. Node Creation: every node is created through the node registry with its
    properties, named after its key unless a name is given. Groups build
    their nested graph first and receive their own properties last, so that
    an inverted group is flagged only once its contents are in place.

 2. Reference Linking: reference nodes name their target by key through the
    `target` property. The target must live in the same scope.

 3. Connection: every connection is replayed through Graph.Connect, which
    rejects unknown ports, doubly used ports and loops.

 4. Port Mapping: input and output mappings are applied through
    Graph.MapPort.

Keys are unique per scope. Errors name the scope path ("arm/inner") so that
problems in nested groups are easy to find.
*/
package builder
