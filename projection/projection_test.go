package projection

import (
	"errors"
	"math"
	"testing"
)

func TestUTMOriginRoundTrip(t *testing.T) {
	for _, c := range Cities {
		lat, lon, err := UTM{}.ToWGS84(0, 0, c)
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		wantLat, wantLon, _ := c.Origin()
		if math.Abs(lat-wantLat) > 1e-5 || math.Abs(lon-wantLon) > 1e-5 {
			t.Errorf("%s origin Expected/Got\n%.8f,%.8f\n%.8f,%.8f", c, wantLat, wantLon, lat, lon)
		}
	}
}

func TestUTMDowntownDetroit(t *testing.T) {
	x, y, err := FromWGS84(DowntownDetroit.Lat, DowntownDetroit.Lon, DTW)
	if err != nil {
		t.Fatal(err)
	}
	// Map archives around downtown center near (10125, 3540).
	if x < 9500 || x > 11500 || y < 3000 || y > 4200 {
		t.Errorf("unexpected city frame coordinates for downtown: (%.1f, %.1f)", x, y)
	}
	lat, lon, err := UTM{}.ToWGS84(x, y, DTW)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lat-DowntownDetroit.Lat) > 1e-5 || math.Abs(lon-DowntownDetroit.Lon) > 1e-5 {
		t.Errorf("round trip Expected/Got\n%v,%v\n%v,%v", DowntownDetroit.Lat, DowntownDetroit.Lon, lat, lon)
	}
}

func TestUTMOutOfRange(t *testing.T) {
	if _, _, err := (UTM{}).ToWGS84(1e7, 0, DTW); err == nil {
		t.Fatal("expected error for easting far outside the zone")
	}
	if _, _, err := (UTM{}).ToWGS84(math.NaN(), 0, DTW); err == nil {
		t.Fatal("expected error for NaN")
	}
	if _, _, err := (UTM{}).ToWGS84(0, 0, City(99)); !errors.Is(err, ErrUnknownCity) {
		t.Fatalf("expected ErrUnknownCity, got %v", err)
	}
}

func TestParseCity(t *testing.T) {
	cases := map[string]City{"DTW": DTW, "dtw": DTW, " pit ": PIT, "WDC": WDC}
	for in, want := range cases {
		got, err := ParseCity(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Errorf("%q: Expected/Got %s/%s", in, want, got)
		}
	}
	if _, err := ParseCity("NYC"); !errors.Is(err, ErrUnknownCity) {
		t.Errorf("expected ErrUnknownCity, got %v", err)
	}
}

func TestMultiCityResolve(t *testing.T) {
	fake := ProviderFunc(func(x, y float64, city City) (float64, float64, error) {
		switch city {
		case DTW:
			return 0.05, 0.05, nil
		case ATX:
			return 0, 0, errors.New("boom")
		case MIA:
			return 25.7, -80.2, nil
		}
		t.Fatalf("city %s should not be reached", city)
		return 0, 0, nil
	})
	m := NewMultiCity(fake)
	lat, lon, city, ok := m.Resolve(1, 2)
	if !ok {
		t.Fatal("expected a usable result")
	}
	if city != MIA || lat != 25.7 || lon != -80.2 {
		t.Errorf("unexpected resolve result %s %v %v", city, lat, lon)
	}

	none := NewMultiCity(ProviderFunc(func(x, y float64, city City) (float64, float64, error) {
		return 0, 0, nil
	}))
	if _, _, _, ok := none.Resolve(1, 2); ok {
		t.Error("expected no usable result")
	}
}

func TestReference(t *testing.T) {
	r := ReferenceAttempts(10000, 3500)[0]
	lat, lon := r.ToWGS84(10000, 3500)
	if lat != r.Lat || lon != r.Lon {
		t.Errorf("center should map onto reference, got %v %v", lat, lon)
	}
	lat, _ = r.ToWGS84(10000, 3500+MetersPerDegreeLat)
	if math.Abs(lat-(r.Lat+1)) > 1e-9 {
		t.Errorf("one degree of northing expected, got %v", lat-r.Lat)
	}
}
