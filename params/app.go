package params

import (
	"os"
	"path/filepath"
)

// Splits are the dataset partitions in the order they are rendered.
var Splits = []string{"train", "val", "test"}

// DiscoverySplits starts with the smallest partitions.
var DiscoverySplits = []string{"test", "val", "train"}

const (
	// DefaultSensorDir holds <split>/<log>/{city_SE3_egovehicle.feather,map/...}.
	DefaultSensorDir = "detroit_logs"

	// DefaultForecastingDir holds <split>/<scenario>/log_map_archive_<scenario>.json.
	DefaultForecastingDir = "motion_forecasting"

	ManifestFileName = "download_manifest.json"
	CatalogFileName  = "catalog.db"
	PoseFileName     = "city_SE3_egovehicle.feather"
	MapDirName       = "map"
)

var DatadirRoot = func() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".av2kml")
}()
