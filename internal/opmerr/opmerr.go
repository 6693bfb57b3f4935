// Package opmerr defines the error kinds shared by every optical package.
//
// Errors are built by wrapping one of the sentinel kinds below, for example
//
//	fmt.Errorf("%w: target node %s does not exist", opmerr.ErrStructure, id)
//
// so that callers can classify a failure with errors.Is while still getting
// a descriptive message chain.
package opmerr

import "errors"

var (
	// ErrStructure reports an invalid graph mutation: unknown nodes or ports,
	// duplicate connections, would-be cycles or invalid distances.
	ErrStructure = errors.New("structural error")

	// ErrMapping reports a failed port mapping or a mutation attempted on an
	// inverted graph.
	ErrMapping = errors.New("mapping error")

	// ErrAnalysis reports a failure while propagating light through a graph.
	ErrAnalysis = errors.New("analysis error")

	// ErrSerialization reports a graph document that cannot be restored.
	ErrSerialization = errors.New("serialization error")

	// ErrPort reports misuse of a port set or port map.
	ErrPort = errors.New("port error")

	// ErrProperty reports an invalid or unknown node property.
	ErrProperty = errors.New("property error")
)
