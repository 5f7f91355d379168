// Package rgeo names the country, province, county and city of a WGS84 point.
package rgeo

import (
	"fmt"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/rotblauer/av2kml/types"
	srgeo "github.com/sams96/rgeo"
)

type ReverseGeocoder interface {
	GetLocation(pt orb.Point) (srgeo.Location, error)
}

// rR is our wrapped rgeo.Rgeo instance, which implements ReverseGeocoder.
type rR srgeo.Rgeo

func (rr *rR) GetLocation(pt orb.Point) (srgeo.Location, error) {
	return (*srgeo.Rgeo)(rr).ReverseGeocode(pt)
}

var (
	Cities10      = srgeo.Cities10
	Countries10   = srgeo.Countries10
	Provinces10   = srgeo.Provinces10
	US_Counties10 = srgeo.US_Counties10
)

// defaultDatasets are loaded by R.
var defaultDatasets = []func() []byte{
	Cities10,
	Countries10,
	Provinces10,
	US_Counties10,
}

// New builds a geocoder over the given datasets.
func New(datasets ...func() []byte) (ReverseGeocoder, error) {
	r1, err := srgeo.New(datasets...)
	if err != nil {
		return nil, fmt.Errorf("rgeo: load datasets: %w", err)
	}
	return (*rR)(r1), nil
}

var (
	rOnce sync.Once
	r     ReverseGeocoder
	rErr  error
)

// R returns the shared geocoder over every default dataset,
// loading it on first use. Loading takes a few seconds.
func R() (ReverseGeocoder, error) {
	rOnce.Do(func() {
		r, rErr = New(defaultDatasets...)
	})
	return r, rErr
}

// Locate reverse geocodes a projected point.
func Locate(g ReverseGeocoder, p types.GeoPoint) (srgeo.Location, error) {
	return g.GetLocation(p.Orb())
}

// Describe joins the known parts of loc from most to least specific,
// like "Detroit, Wayne, Michigan, United States of America".
func Describe(loc srgeo.Location) string {
	var parts []string
	for _, s := range []string{loc.City, loc.County, loc.Province, loc.CountryLong} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, ", ")
}
