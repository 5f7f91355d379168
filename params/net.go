package params

import "time"

type BucketConfig struct {
	// Name is the public dataset bucket.
	Name   string
	Region string

	// SensorPrefix and ForecastingPrefix are joined with "<split>/".
	SensorPrefix      string
	ForecastingPrefix string

	ListTimeout     time.Duration
	DownloadTimeout time.Duration
}

func DefaultBucketConfig() *BucketConfig {
	return &BucketConfig{
		Name:              "argoverse",
		Region:            "us-east-1",
		SensorPrefix:      "datasets/av2/sensor/",
		ForecastingPrefix: "datasets/av2/motion-forecasting/",
		ListTimeout:       2 * time.Minute,
		DownloadTimeout:   5 * time.Minute,
	}
}

var (
	DefaultSensorDownloadWorkers      = 3
	DefaultForecastingDownloadWorkers = 8
)
