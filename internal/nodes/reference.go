package nodes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/beamgrid/internal/light"
	"github.com/vk/beamgrid/internal/opmerr"
	"github.com/vk/beamgrid/internal/optical"
	"github.com/vk/beamgrid/internal/ports"
)

// PropReferenceID holds the id of the node a reference stands for.
const PropReferenceID = "reference id"

// Reference aliases another node of the same graph, for example the second
// pass through a mirror in a double-pass setup. Only the target id is
// persisted; the graph links the live target after loading.
type Reference struct {
	optical.Attr
	target optical.Node
}

// NewReference creates an unassigned reference.
func NewReference() *Reference {
	r := &Reference{Attr: optical.NewAttr(TypeReference, "")}
	_ = r.Attr.SetProperty(PropReferenceID, uuid.Nil.String())
	return r
}

// NewReferenceTo creates a reference pointing at the node with the given id.
func NewReferenceTo(id uuid.UUID, target optical.Node) *Reference {
	r := NewReference()
	_ = r.Attr.SetProperty(PropReferenceID, id.String())
	r.AssignReference(target)
	return r
}

// ReferenceID returns the id of the referenced node.
func (r *Reference) ReferenceID() uuid.UUID {
	id, err := r.Properties().UUID(PropReferenceID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// AssignReference links the live target and renames the reference after it.
func (r *Reference) AssignReference(target optical.Node) {
	r.target = target
	if target != nil {
		r.SetName(fmt.Sprintf("ref (%s)", target.Name()))
	}
}

// Target returns the referenced node, or nil before it was assigned.
func (r *Reference) Target() optical.Node { return r.target }

func (r *Reference) SetProperty(key string, value any) error {
	if key == PropReferenceID {
		switch id := value.(type) {
		case uuid.UUID:
			value = id.String()
		case string:
			if _, err := uuid.Parse(id); err != nil {
				return fmt.Errorf("%w: %s: %w", opmerr.ErrProperty, key, err)
			}
		default:
			return fmt.Errorf("%w: property %q must be a uuid, got %T", opmerr.ErrProperty, key, value)
		}
	}
	return r.Attr.SetProperty(key, value)
}

// Ports mirrors the target's ports, oriented by the reference's own flag
// regardless of the target's current orientation.
func (r *Reference) Ports() *ports.Set {
	if r.target == nil {
		return ports.New()
	}
	p := r.target.Ports()
	p.SetInverted(r.Inverted())
	return p
}

// Analyze runs the target in the reference's orientation and restores the
// target's own flag afterwards.
func (r *Reference) Analyze(ctx context.Context, in light.Result) (light.Result, error) {
	if r.target == nil {
		return nil, fmt.Errorf("%w: no reference defined", opmerr.ErrAnalysis)
	}
	was := r.target.Inverted()
	if was == r.Inverted() {
		return r.target.Analyze(ctx, in)
	}
	if err := r.target.SetInverted(r.Inverted()); err != nil {
		return nil, fmt.Errorf("%w: referenced node '%s' (%s) cannot be inverted", opmerr.ErrAnalysis, r.target.Name(), r.target.NodeType())
	}
	out, err := r.target.Analyze(ctx, in)
	if rerr := r.target.SetInverted(was); rerr != nil && err == nil {
		err = rerr
	}
	return out, err
}
