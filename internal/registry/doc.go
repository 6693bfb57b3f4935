// Package registry maps the node type names used in scenery files and saved
// graphs (e.g., "beam_splitter") to the Go factories that build those nodes.
//
// Node kinds are grouped into modules. During application startup every
// module registers its factories, after which the registry is validated to
// make sure each factory builds a node that reports the type it was
// registered under. A saved graph can then only be restored through the
// same registry, which keeps the set of known node kinds closed.
package registry
