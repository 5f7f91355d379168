package types

import (
	"fmt"

	"github.com/paulmach/orb"
)

// PlanarPoint is a location in a city-local metric frame.
// Z is carried through every geographic transform unchanged.
type PlanarPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Key is the cache key for a planar point; Z never affects projection.
func (p PlanarPoint) Key() [2]float64 {
	return [2]float64{p.X, p.Y}
}

func (p PlanarPoint) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Orb returns the point in (lon, lat) order.
func (g GeoPoint) Orb() orb.Point {
	return orb.Point{g.Lon, g.Lat}
}

func (g GeoPoint) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", g.Lat, g.Lon)
}
