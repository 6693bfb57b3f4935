package geom

import (
	"fmt"
)

// Ray is a single geometric ray with a position and a unit direction.
type Ray struct {
	Position  Vec3
	Direction Vec3
}

// NewRay creates a ray, normalizing its direction.
func NewRay(position, direction Vec3) (Ray, error) {
	dir, err := direction.Normalized()
	if err != nil {
		return Ray{}, fmt.Errorf("invalid ray direction: %w", err)
	}
	return Ray{Position: position, Direction: dir}, nil
}

// Propagate moves the ray along its direction by the given length.
func (r Ray) Propagate(d Length) (Ray, error) {
	if !d.IsFinite() {
		return Ray{}, fmt.Errorf("propagation length must be finite, got %v", float64(d))
	}
	r.Position = r.Position.Add(r.Direction.Scale(d.Meters()))
	return r, nil
}

// Isometry returns the placement of an element sitting at the ray position,
// aligned with the ray direction.
func (r Ray) Isometry() Isometry {
	return Isometry{Position: r.Position, Axis: r.Direction}
}
