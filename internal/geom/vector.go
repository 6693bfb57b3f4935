package geom

import (
	"fmt"
	"math"
)

// tolerance used when comparing placements.
const tolerance = 1e-9

// Vec3 is a vector in 3D space. Coordinates are in meters.
type Vec3 [3]float64

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Scale returns v*f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

// Norm returns the euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Normalized returns v scaled to unit length. The zero vector cannot be
// normalized.
func (v Vec3) Normalized() (Vec3, error) {
	n := v.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Vec3{}, fmt.Errorf("cannot normalize vector %v", v)
	}
	return v.Scale(1 / n), nil
}

// ApproxEqual compares two vectors component-wise within a fixed tolerance.
func (v Vec3) ApproxEqual(o Vec3) bool {
	for i := range v {
		if math.Abs(v[i]-o[i]) > tolerance {
			return false
		}
	}
	return true
}

// ZAxis is the default optical axis.
var ZAxis = Vec3{0, 0, 1}
