package s2

import "fmt"

/*
Approximate S2 cell sizes at Detroit's latitude, from
https://s2geometry.io/resources/s2cell_statistics.html

level  average area  edge length
10     81.07 km2     9 km
11     20.27 km2     4-5 km
12     5.07 km2      2 km
13     1.27 km2      1.1-1.2 km
14     0.32 km2      560-610 m
15     79172 m2      280-300 m
16     19793 m2      140-150 m
*/

// CellLevel represents the S2 cell level, from 0-30.
type CellLevel int

const (
	CellLevel10 CellLevel = 10
	CellLevel11 CellLevel = 11
	CellLevel12 CellLevel = 12

	// CellLevel13 is about a kilometer square, a few city blocks each way.
	CellLevel13 CellLevel = 13

	CellLevel14 CellLevel = 14
	CellLevel15 CellLevel = 15
	CellLevel16 CellLevel = 16

	CellLevelMax CellLevel = 30
)

// DefaultCoverageLevel groups scenarios by neighbourhood.
const DefaultCoverageLevel = CellLevel13

func (l CellLevel) Valid() error {
	if l < 0 || l > CellLevelMax {
		return fmt.Errorf("s2: cell level %d out of range 0-%d", l, CellLevelMax)
	}
	return nil
}
