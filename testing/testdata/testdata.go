// Package testdata holds map archive fixtures shared by package tests.
package testdata

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// Source_DowntownSensorMap is a trimmed DTW sensor log archive near
// Campus Martius: two lanes, one crossing and one drivable area.
var Source_DowntownSensorMap = "./maps/log_map_archive_sample____DTW_city_73889.json"

// MapArchive returns an archive with one lane, one crossing and one
// drivable area placed relative to the city-frame point (x, y).
// It renders to five features with every layer on.
func MapArchive(x, y float64) string {
	pt := func(dx, dy float64) string {
		return fmt.Sprintf(`{"x": %f, "y": %f, "z": 180}`, x+dx, y+dy)
	}
	return fmt.Sprintf(`{
  "lane_segments": {"1": {"id": 1, "lane_type": "VEHICLE",
    "left_lane_boundary": [%s, %s], "right_lane_boundary": [%s, %s],
    "left_lane_mark_type": "SOLID_WHITE", "right_lane_mark_type": "DASHED_WHITE"}},
  "pedestrian_crossings": {"2": {"id": 2, "edge1": [%s, %s], "edge2": [%s, %s]}},
  "drivable_areas": {"3": {"id": 3, "area_boundary": [%s, %s, %s]}}
}`,
		pt(0, 0), pt(10, 0), pt(0, 3), pt(10, 3),
		pt(20, 0), pt(20, 5), pt(22, 0), pt(22, 5),
		pt(0, 0), pt(30, 0), pt(30, 30))
}
