package projection

import "math"

// MetersPerDegreeLat is the flat-earth scale used by Reference.
const MetersPerDegreeLat = 111320.0

// Reference is an approximate local-tangent-plane transform that pins a
// local center to a chosen WGS84 location. It predates the UTM projection
// and is kept for comparing candidate placements of a single map.
type Reference struct {
	Name        string
	Description string

	// CenterX and CenterY are the local coordinates mapped onto (Lat, Lon).
	CenterX, CenterY float64
	Lat, Lon         float64
}

// ToWGS84 converts a local point relative to the reference center.
func (r Reference) ToWGS84(x, y float64) (lat, lon float64) {
	latScale := 1.0 / MetersPerDegreeLat
	lonScale := 1.0 / (MetersPerDegreeLat * math.Cos(r.Lat*math.Pi/180))
	lat = r.Lat + (y-r.CenterY)*latScale
	lon = r.Lon + (x-r.CenterX)*lonScale
	return lat, lon
}

// DowntownDetroit is the default reference location.
var DowntownDetroit = struct{ Lat, Lon float64 }{42.3314, -83.0458}

// ReferenceAttempts returns the named candidate placements around downtown
// Detroit, all centered on the same local point.
func ReferenceAttempts(centerX, centerY float64) []Reference {
	return []Reference{
		{Name: "downtown_centered", Description: "Centered on downtown Detroit",
			CenterX: centerX, CenterY: centerY, Lat: 42.3314, Lon: -83.0458},
		{Name: "shifted_north", Description: "Shifted north of downtown",
			CenterX: centerX, CenterY: centerY, Lat: 42.3514, Lon: -83.0458},
		{Name: "shifted_east", Description: "Shifted east of downtown",
			CenterX: centerX, CenterY: centerY, Lat: 42.3314, Lon: -83.0258},
	}
}

// Landmark is a named WGS84 location drawn for orientation.
type Landmark struct {
	Name     string
	Lat, Lon float64
}

var DetroitLandmarks = []Landmark{
	{"Detroit Downtown", 42.3314, -83.0458},
	{"Detroit Metro Airport", 42.2124, -83.3534},
	{"Belle Isle", 42.3401, -82.9851},
	{"Ford Field", 42.3400, -83.0456},
}
