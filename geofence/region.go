package geofence

import (
	"github.com/paulmach/orb"
	"github.com/rotblauer/av2kml/projection"
	"github.com/rotblauer/av2kml/types"
)

// Region is the static identity of a target area.
type Region struct {
	Name string

	// City is the frame queried points are expressed in.
	City projection.City

	// Boundary is a closed, simple ring of (lon, lat) vertices.
	// It is not validated.
	Boundary orb.Ring

	// LocalBounds is a rectangle in the city frame: Min is (minX, minY), Max is (maxX, maxY).
	LocalBounds orb.Bound

	// BroadBounds is a coarse (lon, lat) rectangle around Boundary.
	BroadBounds orb.Bound
}

func (r Region) inLocalBounds(p types.PlanarPoint) bool {
	return r.LocalBounds.Min[0] <= p.X && p.X <= r.LocalBounds.Max[0] &&
		r.LocalBounds.Min[1] <= p.Y && p.Y <= r.LocalBounds.Max[1]
}

func (r Region) inBroadBounds(g types.GeoPoint) bool {
	return r.BroadBounds.Min[0] <= g.Lon && g.Lon <= r.BroadBounds.Max[0] &&
		r.BroadBounds.Min[1] <= g.Lat && g.Lat <= r.BroadBounds.Max[1]
}
