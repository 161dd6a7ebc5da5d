// Package opt computes closed tours over a city set by hill climbing with random restarts.
package opt

import "math"

// Point is a planar coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the straight-line (planar) distance between a and b.
// Coordinates are treated as Cartesian; no earth curvature is applied.
func Distance(a, b Point) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}
