package rgeo

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rotblauer/av2kml/types"
	srgeo "github.com/sams96/rgeo"
)

type fakeGeocoder struct {
	got orb.Point
	loc srgeo.Location
	err error
}

func (f *fakeGeocoder) GetLocation(pt orb.Point) (srgeo.Location, error) {
	f.got = pt
	return f.loc, f.err
}

func TestLocateUsesLonLat(t *testing.T) {
	f := &fakeGeocoder{loc: srgeo.Location{Province: "Michigan"}}
	loc, err := Locate(f, types.GeoPoint{Lat: 42.33, Lon: -83.04})
	if err != nil {
		t.Fatal(err)
	}
	if f.got != (orb.Point{-83.04, 42.33}) {
		t.Errorf("Expected/Got %v/%v", orb.Point{-83.04, 42.33}, f.got)
	}
	if loc.Province != "Michigan" {
		t.Errorf("unexpected location %+v", loc)
	}

	f.err = errors.New("no match")
	if _, err := Locate(f, types.GeoPoint{}); err == nil {
		t.Error("Expected error to pass through")
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		loc  srgeo.Location
		want string
	}{
		{srgeo.Location{City: "Detroit", County: "Wayne", Province: "Michigan", CountryLong: "United States of America"},
			"Detroit, Wayne, Michigan, United States of America"},
		{srgeo.Location{Province: "Ontario", CountryLong: "Canada"}, "Ontario, Canada"},
		{srgeo.Location{}, "unknown"},
	}
	for _, c := range cases {
		if got := Describe(c.loc); got != c.want {
			t.Errorf("Expected/Got %q/%q", c.want, got)
		}
	}
}

func TestProvincesDetroit(t *testing.T) {
	if testing.Short() {
		t.Skip("loads geocoding datasets")
	}
	g, err := New(Provinces10)
	if err != nil {
		t.Fatal(err)
	}
	loc, err := Locate(g, types.GeoPoint{Lat: 42.3314, Lon: -83.0458})
	if err != nil {
		t.Fatal(err)
	}
	if loc.Province != "Michigan" {
		t.Errorf("Expected Michigan, got %+v", loc)
	}
}
