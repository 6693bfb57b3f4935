package optical

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/opmerr"
)

// Well-known property keys shared by all node kinds.
const (
	PropName     = "name"
	PropInverted = "inverted"
)

// Properties is the persisted, loosely typed configuration of a node. Values
// are kept in the plain forms a YAML or HCL decoder produces (string, bool,
// int, float64) so a node survives a save and load unchanged.
type Properties map[string]any

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy.
func (p Properties) Clone() Properties {
	c := make(Properties, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// String returns a string property.
func (p Properties) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "string", v)
	}
	return s, nil
}

// Bool returns a boolean property.
func (p Properties) Bool(key string) (bool, error) {
	v, ok := p[key]
	if !ok {
		return false, missing(key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(key, "bool", v)
	}
	return b, nil
}

// Float returns a numeric property as float64. Integers are accepted because
// decoders produce them for whole numbers.
func (p Properties) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, missing(key)
	}
	return ToFloat(key, v)
}

// UUID returns a property holding a node id, stored either as uuid.UUID or
// as its string form.
func (p Properties) UUID(key string) (uuid.UUID, error) {
	v, ok := p[key]
	if !ok {
		return uuid.Nil, missing(key)
	}
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: property %q: %w", opmerr.ErrProperty, key, err)
		}
		return parsed, nil
	}
	return uuid.Nil, wrongType(key, "uuid", v)
}

// ToFloat converts a decoded numeric value to float64.
func ToFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, wrongType(key, "number", v)
}

func missing(key string) error {
	return fmt.Errorf("%w: property %q not found", opmerr.ErrProperty, key)
}

func wrongType(key, want string, got any) error {
	return fmt.Errorf("%w: property %q must be a %s, got %T", opmerr.ErrProperty, key, want, got)
}
