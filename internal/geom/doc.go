// Package geom holds the small amount of geometry the optical graph needs:
// physical lengths, 3D vectors, rays and node placements (isometries).
package geom
