package geom

import "fmt"

// Isometry places an optical element in space: its position and the
// direction of its optical axis.
type Isometry struct {
	Position Vec3 `yaml:"position"`
	Axis     Vec3 `yaml:"axis"`
}

// Identity is the placement at the origin along the z axis.
func Identity() Isometry {
	return Isometry{Axis: ZAxis}
}

// Ray returns a ray leaving the element along its axis.
func (i Isometry) Ray() (Ray, error) {
	return NewRay(i.Position, i.Axis)
}

// ApproxEqual compares two placements within a fixed tolerance.
func (i Isometry) ApproxEqual(o Isometry) bool {
	return i.Position.ApproxEqual(o.Position) && i.Axis.ApproxEqual(o.Axis)
}

func (i Isometry) String() string {
	return fmt.Sprintf("pos (%g, %g, %g) m, axis (%g, %g, %g)",
		i.Position[0], i.Position[1], i.Position[2], i.Axis[0], i.Axis[1], i.Axis[2])
}
