package render

import (
	"fmt"

	"github.com/rotblauer/av2kml/projection"
	"github.com/rotblauer/av2kml/types"
	"github.com/rotblauer/av2kml/types/hdmap"
)

// Projector places a city-frame point in WGS84 as (lon, lat, alt).
// *geofence.Classifier is a Projector.
type Projector interface {
	ToWGS84(p types.PlanarPoint) (lon, lat, alt float64, ok bool)
}

type ProjectorFunc func(p types.PlanarPoint) (lon, lat, alt float64, ok bool)

func (f ProjectorFunc) ToWGS84(p types.PlanarPoint) (float64, float64, float64, bool) {
	return f(p)
}

// MultiCityProjector resolves each point against every AV2 city in turn.
func MultiCityProjector(m *projection.MultiCity) Projector {
	return ProjectorFunc(func(p types.PlanarPoint) (float64, float64, float64, bool) {
		lat, lon, _, ok := m.Resolve(p.X, p.Y)
		return lon, lat, p.Z, ok
	})
}

// FallbackProjector returns the first successful projection of ps.
func FallbackProjector(ps ...Projector) Projector {
	return ProjectorFunc(func(p types.PlanarPoint) (float64, float64, float64, bool) {
		for _, pr := range ps {
			if lon, lat, alt, ok := pr.ToWGS84(p); ok {
				return lon, lat, alt, true
			}
		}
		return 0, 0, p.Z, false
	})
}

// ReferenceProjector flattens points onto the ground at the reference placement.
func ReferenceProjector(r projection.Reference) Projector {
	return ProjectorFunc(func(p types.PlanarPoint) (float64, float64, float64, bool) {
		lat, lon := r.ToWGS84(p.X, p.Y)
		return lon, lat, 0, true
	})
}

// Layers selects which map elements become features.
type Layers struct {
	Lanes     bool
	Crossings bool
	Drivable  bool
}

var AllLayers = Layers{Lanes: true, Crossings: true, Drivable: true}

type ConvertStats struct {
	Lanes     int
	Crossings int
	Areas     int

	// Dropped counts vertices that could not be projected.
	Dropped int
}

func (s *ConvertStats) Add(o ConvertStats) {
	s.Lanes += o.Lanes
	s.Crossings += o.Crossings
	s.Areas += o.Areas
	s.Dropped += o.Dropped
}

// Converter turns map archives into features.
// Unprojectable vertices are dropped; lines need two remaining vertices and
// polygons three. Lanes and crossings are counted whether or not they yield
// a feature, drivable areas only when they do.
type Converter struct {
	Projector Projector
	Layers    Layers
	Stats     ConvertStats
}

func NewConverter(p Projector, layers Layers) *Converter {
	return &Converter{Projector: p, Layers: layers}
}

// ShortID is the leading 8 characters of a log or scenario ID.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Map converts one archive; owner is the log or scenario it belongs to.
func (c *Converter) Map(split, owner string, m *hdmap.Map) []Feature {
	var out []Feature
	prefix := fmt.Sprintf("%s/%s", split, ShortID(owner))

	if c.Layers.Lanes {
		for _, ls := range m.LaneSegments {
			if f, ok := c.Path(ls.LeftBoundary, LaneMarkStyle(ls.LeftMarkType)); ok {
				f.Name = fmt.Sprintf("%s/L%s/left", prefix, ls.ID)
				f.Description = fmt.Sprintf("Lane %s - %s - Left boundary (%s)", ls.ID, ls.LaneType, ls.LeftMarkType)
				out = append(out, f)
			}
			if f, ok := c.Path(ls.RightBoundary, LaneMarkStyle(ls.RightMarkType)); ok {
				f.Name = fmt.Sprintf("%s/L%s/right", prefix, ls.ID)
				f.Description = fmt.Sprintf("Lane %s - %s - Right boundary (%s)", ls.ID, ls.LaneType, ls.RightMarkType)
				out = append(out, f)
			}
			c.Stats.Lanes++
		}
	}
	if c.Layers.Crossings {
		for _, pc := range m.PedestrianCrossings {
			if f, ok := c.Path(pc.Edge1, CrossingStyle); ok {
				f.Name = fmt.Sprintf("%s/C%s/edge1", prefix, pc.ID)
				f.Description = fmt.Sprintf("Pedestrian crossing %s - Edge 1", pc.ID)
				out = append(out, f)
			}
			if f, ok := c.Path(pc.Edge2, CrossingStyle); ok {
				f.Name = fmt.Sprintf("%s/C%s/edge2", prefix, pc.ID)
				f.Description = fmt.Sprintf("Pedestrian crossing %s - Edge 2", pc.ID)
				out = append(out, f)
			}
			c.Stats.Crossings++
		}
	}
	if c.Layers.Drivable {
		for _, da := range m.DrivableAreas {
			f, ok := c.Area(da.Boundary, DrivableStyle)
			if !ok {
				continue
			}
			f.Name = fmt.Sprintf("%s/A%s", prefix, da.ID)
			f.Description = fmt.Sprintf("Drivable area %s", da.ID)
			out = append(out, f)
			c.Stats.Areas++
		}
	}
	return out
}

// Coords projects a polyline, dropping vertices without a location.
func (c *Converter) Coords(pl hdmap.Polyline) []Coord {
	out := make([]Coord, 0, len(pl))
	for _, p := range pl {
		lon, lat, alt, ok := c.Projector.ToWGS84(p)
		if !ok {
			c.Stats.Dropped++
			continue
		}
		out = append(out, Coord{Lon: lon, Lat: lat, Alt: alt})
	}
	return out
}

// Path converts a polyline into a Line feature.
func (c *Converter) Path(pl hdmap.Polyline, style Style) (Feature, bool) {
	cs := c.Coords(pl)
	if len(cs) < 2 {
		return Feature{}, false
	}
	return Feature{Kind: Line, Coords: cs, Style: style}, true
}

// Area converts a boundary into a Polygon feature.
func (c *Converter) Area(pl hdmap.Polyline, style Style) (Feature, bool) {
	cs := c.Coords(pl)
	if len(cs) < 3 {
		return Feature{}, false
	}
	return Feature{Kind: Polygon, Coords: cs, Style: style}, true
}

// PointFeature places a named marker.
func PointFeature(name string, lat, lon float64, style Style) Feature {
	return Feature{Name: name, Kind: Point, Coords: []Coord{{Lon: lon, Lat: lat}}, Style: style}
}
