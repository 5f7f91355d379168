package hdmap

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// SensorMapGlob matches Detroit vector map archives in a sensor log's map dir.
const SensorMapGlob = "log_map_archive_*____DTW_city_*.json"

// ForecastingMapName is the archive file name inside a scenario directory.
func ForecastingMapName(scenarioID string) string {
	return fmt.Sprintf("log_map_archive_%s.json", scenarioID)
}

// IsDetroitArchive reports whether an object key names a DTW vector map.
func IsDetroitArchive(key string) bool {
	base := filepath.Base(key)
	return strings.Contains(base, "log_map_archive") && strings.Contains(base, "DTW")
}

// SensorMaps lists the DTW archives in mapDir, sorted by name.
func SensorMaps(mapDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(mapDir, SensorMapGlob))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
