package optical

import (
	"fmt"

	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/opmerr"
)

// Attr carries the state every node kind has in common. Node kinds embed it
// and add Ports and Analyze.
type Attr struct {
	nodeType string
	props    Properties
	isometry *geom.Isometry
}

// NewAttr creates the attributes of a node of the given type. The name
// defaults to the type.
func NewAttr(nodeType, name string) Attr {
	if name == "" {
		name = nodeType
	}
	return Attr{
		nodeType: nodeType,
		props: Properties{
			PropName:     name,
			PropInverted: false,
		},
	}
}

func (a *Attr) NodeType() string { return a.nodeType }

func (a *Attr) Name() string {
	name, _ := a.props.String(PropName)
	return name
}

func (a *Attr) SetName(name string) { a.props[PropName] = name }

func (a *Attr) Inverted() bool {
	inv, _ := a.props.Bool(PropInverted)
	return inv
}

// SetInverted flips the node. Node kinds that cannot work backwards override
// it.
func (a *Attr) SetInverted(inverted bool) error {
	a.props[PropInverted] = inverted
	return nil
}

func (a *Attr) Isometry() (geom.Isometry, bool) {
	if a.isometry == nil {
		return geom.Isometry{}, false
	}
	return *a.isometry, true
}

func (a *Attr) SetIsometry(iso geom.Isometry) { a.isometry = &iso }

// ResetIsometry forgets the placement of the node.
func (a *Attr) ResetIsometry() { a.isometry = nil }

// Properties returns a copy of the node properties.
func (a *Attr) Properties() Properties { return a.props.Clone() }

// Prop returns the stored value of one property.
func (a *Attr) Prop(key string) (any, bool) {
	v, ok := a.props[key]
	return v, ok
}

// SetProperty stores a property. The shared keys are type checked; node
// kinds validate their own keys before delegating here.
func (a *Attr) SetProperty(key string, value any) error {
	switch key {
	case PropName:
		if _, ok := value.(string); !ok {
			return wrongType(key, "string", value)
		}
	case PropInverted:
		if _, ok := value.(bool); !ok {
			return wrongType(key, "bool", value)
		}
	case "":
		return fmt.Errorf("%w: property name must not be empty", opmerr.ErrProperty)
	}
	a.props[key] = value
	return nil
}

// String identifies the node in log lines and error messages.
func (a *Attr) String() string {
	return fmt.Sprintf("'%s' (%s)", a.Name(), a.nodeType)
}
