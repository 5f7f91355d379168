package params

// MaxFeaturesPerChunk keeps each KML file below the 10,000 feature limit
// of common viewers, with some buffer.
const MaxFeaturesPerChunk = 9500

const (
	SummaryLogsPerSplit = 2
	SummaryMaxFiles     = 5
)

type SimplificationConfig struct {
	// DouglasPeuckerThreshold is in degrees; zero disables simplification.
	DouglasPeuckerThreshold float64
}

var DefaultSimplifierConfig = &SimplificationConfig{
	DouglasPeuckerThreshold: 0,
}

// DefaultDedupeCacheSize bounds the feature dedupe LRU.
const DefaultDedupeCacheSize = 100_000
