package projection

import (
	"fmt"
	"math"

	utm "github.com/im7mortal/UTM"
)

// Provider converts city-frame coordinates to WGS84.
type Provider interface {
	ToWGS84(x, y float64, city City) (lat, lon float64, err error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(x, y float64, city City) (lat, lon float64, err error)

func (f ProviderFunc) ToWGS84(x, y float64, city City) (float64, float64, error) {
	return f(x, y, city)
}

type utmOrigin struct {
	easting, northing float64
	zone              int
}

// utmOrigins holds each city origin in its own UTM zone.
var utmOrigins = map[City]utmOrigin{}

func init() {
	for _, c := range Cities {
		lat, lon, _ := c.Origin()
		e, n, zone, _, err := utm.FromLatLon(lat, lon, lat >= 0)
		if err != nil {
			panic(fmt.Sprintf("utm origin for %s: %v", c, err))
		}
		if zone != c.UTMZone() {
			panic(fmt.Sprintf("utm origin for %s: zone %d, want %d", c, zone, c.UTMZone()))
		}
		utmOrigins[c] = utmOrigin{easting: e, northing: n, zone: zone}
	}
}

// UTM is the devkit projection: a city frame is a translation of the
// city's UTM zone, offset by the UTM coordinates of the city origin.
type UTM struct{}

// ToWGS84 returns an error when the offset coordinates fall outside
// the valid easting/northing range of the zone.
func (UTM) ToWGS84(x, y float64, city City) (lat, lon float64, err error) {
	o, ok := utmOrigins[city]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownCity, int(city))
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, fmt.Errorf("non-finite coordinate (%v, %v)", x, y)
	}
	originLat, _, _ := city.Origin()
	lat, lon, err = utm.ToLatLon(o.easting+x, o.northing+y, o.zone, "", originLat >= 0)
	if err != nil {
		return 0, 0, fmt.Errorf("utm inverse %s (%.3f, %.3f): %w", city, x, y, err)
	}
	return lat, lon, nil
}

// FromWGS84 is the forward projection into a city frame.
func FromWGS84(lat, lon float64, city City) (x, y float64, err error) {
	o, ok := utmOrigins[city]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownCity, int(city))
	}
	e, n, zone, _, err := utm.FromLatLon(lat, lon, lat >= 0)
	if err != nil {
		return 0, 0, err
	}
	if zone != o.zone {
		return 0, 0, fmt.Errorf("point (%.6f, %.6f) is in utm zone %d, %s uses %d", lat, lon, zone, city, o.zone)
	}
	return e - o.easting, n - o.northing, nil
}
