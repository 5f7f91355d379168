package params

import (
	"github.com/paulmach/orb"
	"github.com/rotblauer/av2kml/geofence"
	"github.com/rotblauer/av2kml/projection"
)

// DetroitBoundary is a coarse outline of the Detroit metro area in (lon, lat),
// running clockwise from the southwest corner near Monroe County.
var DetroitBoundary = orb.Ring{
	{-83.55, 42.10},
	{-83.55, 42.65},
	{-83.30, 42.75},
	{-82.85, 42.70},
	{-82.80, 42.45},
	{-82.95, 42.30},
	{-83.10, 42.20},
	{-83.25, 42.05},
	{-83.55, 42.10},
}

// DetroitLocalBounds is the Detroit city-frame rectangle, in meters from
// the DTW origin, that covers the published map archives with margin.
var DetroitLocalBounds = orb.Bound{
	Min: orb.Point{-15_000, -10_000},
	Max: orb.Point{35_000, 25_000},
}

// DetroitBroadBounds roughly covers southeast Michigan.
var DetroitBroadBounds = orb.Bound{
	Min: orb.Point{-84.0, 41.7},
	Max: orb.Point{-82.4, 43.2},
}

func DetroitRegion() geofence.Region {
	return geofence.Region{
		Name:        "Detroit",
		City:        projection.DTW,
		Boundary:    DetroitBoundary.Clone(),
		LocalBounds: DetroitLocalBounds,
		BroadBounds: DetroitBroadBounds,
	}
}

type GeofenceConfig struct {
	// SampleLimit caps the points sampled per scenario.
	SampleLimit int `mapstructure:"sample_limit"`

	// ConfidenceThreshold is exclusive.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`

	// DegenerateThreshold rejects projections near (0, 0).
	DegenerateThreshold float64 `mapstructure:"degenerate_threshold"`
}

var DefaultGeofenceConfig = &GeofenceConfig{
	SampleLimit:         20,
	ConfidenceThreshold: geofence.DefaultConfidenceThreshold,
	DegenerateThreshold: projection.DefaultDegenerateThreshold,
}

// Options returns classifier options for the configured thresholds.
func (c *GeofenceConfig) Options() []geofence.Option {
	return []geofence.Option{
		geofence.WithConfidenceThreshold(c.ConfidenceThreshold),
		geofence.WithDegenerateThreshold(c.DegenerateThreshold),
	}
}
