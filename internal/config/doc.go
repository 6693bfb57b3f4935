// Package config defines the format-agnostic model of a scenery description
// together with the Loader interface that concrete formats implement.
//
// A Scenery is what a user writes down: named nodes, connections between
// "node.port" endpoints, external port mappings, nested groups and the
// settings of an analysis run. The builder package turns it into an
// opticgraph.Graph. Concrete loaders, such as the HCL one, live in separate
// packages.
package config
