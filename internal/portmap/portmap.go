// Package portmap translates external (group facing) port names to the
// internal node port they stand for.
package portmap

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/opmerr"
	"gopkg.in/yaml.v3"
)

// Target is the internal end of a mapping.
type Target struct {
	NodeID uuid.UUID
	Port   string
}

// Assignment pairs an external name with the internal port of one node.
type Assignment struct {
	External string
	Internal string
}

// Map is a table from external port names to internal node ports. External
// names are unique within one map.
type Map struct {
	entries map[string]Target
}

// New returns an empty map.
func New() *Map {
	return &Map{entries: make(map[string]Target)}
}

// Add maps external to the internal port of a node.
func (m *Map) Add(external string, nodeID uuid.UUID, internal string) error {
	if external == "" {
		return fmt.Errorf("%w: external port name must not be empty", opmerr.ErrPort)
	}
	if internal == "" {
		return fmt.Errorf("%w: internal port name must not be empty", opmerr.ErrPort)
	}
	if _, ok := m.entries[external]; ok {
		return fmt.Errorf("%w: external port name %q already assigned", opmerr.ErrPort, external)
	}
	m.entries[external] = Target{NodeID: nodeID, Port: internal}
	return nil
}

// Remove deletes every mapping pointing at the given internal port.
func (m *Map) Remove(nodeID uuid.UUID, internal string) {
	for name, target := range m.entries {
		if target.NodeID == nodeID && target.Port == internal {
			delete(m.entries, name)
		}
	}
}

// RemoveNode deletes every mapping pointing at the given node.
func (m *Map) RemoveNode(nodeID uuid.UUID) {
	for name, target := range m.entries {
		if target.NodeID == nodeID {
			delete(m.entries, name)
		}
	}
}

// Get looks up an external name.
func (m *Map) Get(external string) (Target, bool) {
	t, ok := m.entries[external]
	return t, ok
}

// ExternalName performs the reverse lookup.
func (m *Map) ExternalName(nodeID uuid.UUID, internal string) (string, bool) {
	for _, name := range m.Names() {
		t := m.entries[name]
		if t.NodeID == nodeID && t.Port == internal {
			return name, true
		}
	}
	return "", false
}

// Contains reports whether an external name is in use.
func (m *Map) Contains(external string) bool {
	_, ok := m.entries[external]
	return ok
}

// ContainsNode reports whether any mapping points at the node.
func (m *Map) ContainsNode(nodeID uuid.UUID) bool {
	for _, t := range m.entries {
		if t.NodeID == nodeID {
			return true
		}
	}
	return false
}

// AssignedPorts returns the mappings of one node, sorted by external name.
func (m *Map) AssignedPorts(nodeID uuid.UUID) []Assignment {
	var out []Assignment
	for _, name := range m.Names() {
		if t := m.entries[name]; t.NodeID == nodeID {
			out = append(out, Assignment{External: name, Internal: t.Port})
		}
	}
	return out
}

// Names returns the external names in sorted order.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of mappings.
func (m *Map) Len() int { return len(m.entries) }

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	c := New()
	for k, v := range m.entries {
		c.entries[k] = v
	}
	return c
}

// MarshalYAML writes the map as `external: [node_id, internal_port]`.
func (m *Map) MarshalYAML() (any, error) {
	out := make(map[string][]string, len(m.entries))
	for name, t := range m.entries {
		out[name] = []string{t.NodeID.String(), t.Port}
	}
	return out, nil
}

// UnmarshalYAML reads the format written by MarshalYAML. Entries go through
// Add so empty names are rejected.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string][]string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("%w: port map: %w", opmerr.ErrSerialization, err)
	}
	m.entries = make(map[string]Target, len(raw))
	for name, pair := range raw {
		if len(pair) != 2 {
			return fmt.Errorf("%w: port map entry %q must be [node_id, port], got %d values", opmerr.ErrSerialization, name, len(pair))
		}
		id, err := uuid.Parse(pair[0])
		if err != nil {
			return fmt.Errorf("%w: port map entry %q: %w", opmerr.ErrSerialization, name, err)
		}
		if err := m.Add(name, id, pair[1]); err != nil {
			return fmt.Errorf("%w: %w", opmerr.ErrSerialization, err)
		}
	}
	return nil
}
