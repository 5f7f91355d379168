package projection

import "math"

// DefaultDegenerateThreshold rejects projections that land near (0, 0).
// The devkit projection silently produces such values for coordinates
// outside its city frame instead of failing.
const DefaultDegenerateThreshold = 0.1

// Usable reports whether a projected coordinate is non-degenerate.
func Usable(lat, lon, threshold float64) bool {
	return math.Abs(lat) > threshold && math.Abs(lon) > threshold
}

// MultiCity tries each city in order and keeps the first usable result.
type MultiCity struct {
	Provider  Provider
	Cities    []City
	Threshold float64
}

func NewMultiCity(p Provider) *MultiCity {
	if p == nil {
		p = UTM{}
	}
	return &MultiCity{
		Provider:  p,
		Cities:    Cities,
		Threshold: DefaultDegenerateThreshold,
	}
}

// Resolve returns the first usable projection and the city it came from.
func (m *MultiCity) Resolve(x, y float64) (lat, lon float64, city City, ok bool) {
	for _, c := range m.Cities {
		la, lo, err := m.Provider.ToWGS84(x, y, c)
		if err != nil {
			continue
		}
		if Usable(la, lo, m.Threshold) {
			return la, lo, c, true
		}
	}
	return 0, 0, 0, false
}
