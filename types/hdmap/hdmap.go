// Package hdmap models Argoverse 2 vector map archives.
package hdmap

import (
	"github.com/rotblauer/av2kml/types"
)

const (
	DefaultLaneType = "VEHICLE"
	DefaultMarkType = "NONE"
)

// Polyline is an ordered run of city-frame vertices.
type Polyline []types.PlanarPoint

type LaneSegment struct {
	ID            string   `json:"-"`
	LaneType      string   `json:"lane_type"`
	LeftBoundary  Polyline `json:"left_lane_boundary"`
	RightBoundary Polyline `json:"right_lane_boundary"`
	LeftMarkType  string   `json:"left_lane_mark_type"`
	RightMarkType string   `json:"right_lane_mark_type"`
}

type PedestrianCrossing struct {
	ID    string   `json:"-"`
	Edge1 Polyline `json:"edge1"`
	Edge2 Polyline `json:"edge2"`
}

type DrivableArea struct {
	ID       string   `json:"-"`
	Boundary Polyline `json:"area_boundary"`
}

// Map holds the elements of one archive in document order.
type Map struct {
	LaneSegments        []LaneSegment
	PedestrianCrossings []PedestrianCrossing
	DrivableAreas       []DrivableArea

	// Skipped counts elements that failed to decode.
	Skipped int
}

// SamplePoints returns one representative vertex per element: the first
// left-boundary vertex of each lane, then the first edge1 vertex of each
// crossing, then the first boundary vertex of each drivable area.
func (m *Map) SamplePoints() []types.PlanarPoint {
	out := make([]types.PlanarPoint, 0, len(m.LaneSegments)+len(m.PedestrianCrossings)+len(m.DrivableAreas))
	for _, ls := range m.LaneSegments {
		if len(ls.LeftBoundary) > 0 {
			out = append(out, ls.LeftBoundary[0])
		}
	}
	for _, pc := range m.PedestrianCrossings {
		if len(pc.Edge1) > 0 {
			out = append(out, pc.Edge1[0])
		}
	}
	for _, da := range m.DrivableAreas {
		if len(da.Boundary) > 0 {
			out = append(out, da.Boundary[0])
		}
	}
	return out
}

// Empty is true when the archive holds no elements at all.
func (m *Map) Empty() bool {
	return len(m.LaneSegments) == 0 && len(m.PedestrianCrossings) == 0 && len(m.DrivableAreas) == 0
}
