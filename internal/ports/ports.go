// Package ports models the named input and output sockets of an optical
// node. A Set can be flipped under inversion, in which case its inputs are
// reported as outputs and vice versa.
package ports

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vk/beamgrid/internal/opmerr"
)

// Direction selects the input or output side of a node.
type Direction int

const (
	Input Direction = iota
	Output
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Input {
		return Output
	}
	return Input
}

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// ParseDirection parses "input" or "output".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "input":
		return Input, nil
	case "output":
		return Output, nil
	}
	return Input, fmt.Errorf("%w: unknown port direction %q", opmerr.ErrPort, s)
}

// Set holds the port names of one node.
type Set struct {
	inputs   mapset.Set[string]
	outputs  mapset.Set[string]
	inverted bool
}

// New returns an empty port set.
func New() *Set {
	return &Set{
		inputs:  mapset.NewThreadUnsafeSet[string](),
		outputs: mapset.NewThreadUnsafeSet[string](),
	}
}

// FromNames builds a port set from fixed name lists. It panics on duplicate
// or empty names, which are programming errors in a node definition.
func FromNames(inputs, outputs []string) *Set {
	s := New()
	for _, name := range inputs {
		if err := s.Add(Input, name); err != nil {
			panic(err)
		}
	}
	for _, name := range outputs {
		if err := s.Add(Output, name); err != nil {
			panic(err)
		}
	}
	return s
}

// Add creates a port. It is applied to the unflipped side, independent of
// the current inversion state.
func (s *Set) Add(dir Direction, name string) error {
	if name == "" {
		return fmt.Errorf("%w: port name must not be empty", opmerr.ErrPort)
	}
	if !s.raw(dir).Add(name) {
		return fmt.Errorf("%w: %s port %q already exists", opmerr.ErrPort, dir, name)
	}
	return nil
}

// Names returns the sorted port names of the given direction, honouring
// inversion.
func (s *Set) Names(dir Direction) []string {
	names := s.side(dir).ToSlice()
	sort.Strings(names)
	return names
}

// Has reports whether a port exists in the given direction.
func (s *Set) Has(dir Direction, name string) bool {
	return s.side(dir).Contains(name)
}

// Len returns the number of ports in the given direction.
func (s *Set) Len(dir Direction) int {
	return s.side(dir).Cardinality()
}

// Inverted reports whether the set is flipped.
func (s *Set) Inverted() bool { return s.inverted }

// SetInverted flips (or unflips) the set.
func (s *Set) SetInverted(inverted bool) { s.inverted = inverted }

// String lists the ports, for example "front -> rear".
func (s *Set) String() string {
	return fmt.Sprintf("%s -> %s", strings.Join(s.Names(Input), ", "), strings.Join(s.Names(Output), ", "))
}

func (s *Set) side(dir Direction) mapset.Set[string] {
	if s.inverted {
		dir = dir.Opposite()
	}
	return s.raw(dir)
}

func (s *Set) raw(dir Direction) mapset.Set[string] {
	if dir == Input {
		return s.inputs
	}
	return s.outputs
}
