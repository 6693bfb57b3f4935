// Package nodes contains the node kinds that can be placed in an optical
// graph. Their physics is intentionally reduced to energy bookkeeping: a
// dummy passes light through, a beam splitter divides it by a ratio, an
// ideal filter attenuates it, an energy meter records it and a source emits
// it. Reference nodes alias another node of the same graph so that a beam
// can pass one physical element twice.
//
// All kinds are made available to scenery loading and graph persistence
// through Module.
package nodes
