// Package light defines the payloads that travel along the edges of an
// optical graph during one analysis pass.
package light

import (
	"fmt"
	"sort"

	"github.com/vk/beamgrid/internal/geom"
	"github.com/vk/beamgrid/internal/opmerr"
)

// Data is a payload carried by a port. The set of variants is closed:
// Energy and Geometric.
type Data interface {
	fmt.Stringer
	isData()
}

// Energy is a plain energy value in joules.
type Energy struct {
	Joules float64
}

func (Energy) isData() {}

func (e Energy) String() string { return fmt.Sprintf("%g J", e.Joules) }

// Geometric is a bundle of rays, used to place nodes in space.
type Geometric struct {
	Rays []geom.Ray
}

func (Geometric) isData() {}

func (g Geometric) String() string { return fmt.Sprintf("%d ray(s)", len(g.Rays)) }

// Result maps port names to payloads.
type Result map[string]Data

// Ports returns the port names of the result in sorted order.
func (r Result) Ports() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnergyAt returns the energy stored at the given port. A missing port counts
// as zero energy; a payload of another variant is an analysis error.
func (r Result) EnergyAt(port string) (float64, error) {
	data, ok := r[port]
	if !ok {
		return 0, nil
	}
	e, ok := data.(Energy)
	if !ok {
		return 0, fmt.Errorf("%w: expected energy data at port %q, got %T", opmerr.ErrAnalysis, port, data)
	}
	return e.Joules, nil
}

// RayAt returns the first ray stored at the given port.
func (r Result) RayAt(port string) (geom.Ray, error) {
	data, ok := r[port]
	if !ok {
		return geom.Ray{}, fmt.Errorf("%w: no light at port %q", opmerr.ErrAnalysis, port)
	}
	g, ok := data.(Geometric)
	if !ok {
		return geom.Ray{}, fmt.Errorf("%w: expected geometric data at port %q, got %T", opmerr.ErrAnalysis, port, data)
	}
	if len(g.Rays) == 0 {
		return geom.Ray{}, fmt.Errorf("%w: no rays at port %q, cannot position nodes", opmerr.ErrAnalysis, port)
	}
	return g.Rays[0], nil
}
