package geom

import (
	"fmt"
	"math"
)

// Length is a physical length in meters.
type Length float64

// Meter returns a Length of v meters.
func Meter(v float64) Length { return Length(v) }

// Millimeter returns a Length of v millimeters.
func Millimeter(v float64) Length { return Length(v / 1000) }

// Meters returns the length in meters.
func (l Length) Meters() float64 { return float64(l) }

// IsFinite reports whether the length is neither NaN nor infinite.
func (l Length) IsFinite() bool {
	return !math.IsNaN(float64(l)) && !math.IsInf(float64(l), 0)
}

// String formats the length with a unit picked for readability.
func (l Length) String() string {
	v := float64(l)
	switch {
	case !l.IsFinite():
		return fmt.Sprintf("%v m", v)
	case v != 0 && math.Abs(v) < 1:
		return fmt.Sprintf("%.3f mm", v*1000)
	default:
		return fmt.Sprintf("%.3f m", v)
	}
}
