package projection

import (
	"errors"
	"fmt"
	"strings"
)

// City is one of the Argoverse 2 city codes.
// Each city has its own local metric frame anchored at a fixed WGS84 origin.
type City int

const (
	DTW City = iota // Detroit
	ATX             // Austin
	MIA             // Miami
	PAO             // Palo Alto
	PIT             // Pittsburgh
	WDC             // Washington, DC
)

var ErrUnknownCity = errors.New("unknown city")

// Cities is the stable lookup order used by MultiCity.
var Cities = []City{DTW, ATX, MIA, PAO, PIT, WDC}

type cityInfo struct {
	code    string
	lat     float64
	lon     float64
	utmZone int
}

var cityTable = map[City]cityInfo{
	ATX: {"ATX", 30.27464237939507, -97.7404457407424, 14},
	DTW: {"DTW", 42.29993066912924, -83.17555750783717, 17},
	MIA: {"MIA", 25.77452579915163, -80.19656914449405, 17},
	PAO: {"PAO", 37.416065, -122.13571963362166, 10},
	PIT: {"PIT", 40.44177902989321, -80.01294377242584, 17},
	WDC: {"WDC", 38.889377, -77.0355047439081, 18},
}

func (c City) String() string {
	if info, ok := cityTable[c]; ok {
		return info.code
	}
	return fmt.Sprintf("City(%d)", int(c))
}

// Origin returns the WGS84 latitude and longitude of the city frame origin.
func (c City) Origin() (lat, lon float64, err error) {
	info, ok := cityTable[c]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownCity, int(c))
	}
	return info.lat, info.lon, nil
}

// UTMZone returns the UTM zone the city frame is defined in.
func (c City) UTMZone() int {
	return cityTable[c].utmZone
}

// ParseCity parses a city code like "DTW", case-insensitively.
func ParseCity(s string) (City, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for c, info := range cityTable {
		if info.code == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCity, s)
}

// Set and Type let City be used as a pflag.Value.
func (c *City) Set(s string) error {
	parsed, err := ParseCity(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *City) Type() string {
	return "city"
}
