package params

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigName = "av2kml"
	EnvPrefix  = "AV2KML"
)

// Config is the global configuration shared by all commands.
// Command-local options stay on their cobra flags.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Data     DataConfig     `mapstructure:"data"`
	Output   OutputConfig   `mapstructure:"output"`
	Bucket   BucketSettings `mapstructure:"bucket"`
	Geofence GeofenceConfig `mapstructure:"geofence"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// File, if set, receives a JSON copy of every record.
	File string `mapstructure:"file"`
}

type DataConfig struct {
	// Dir holds the discovery catalog.
	Dir string `mapstructure:"dir"`
}

type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

type BucketSettings struct {
	Name   string `mapstructure:"name"`
	Region string `mapstructure:"region"`
}

type MetricsConfig struct {
	Influx InfluxConfig `mapstructure:"influx"`
}

// InfluxConfig locates an InfluxDB v2 bucket for run statistics.
type InfluxConfig struct {
	URL    string `mapstructure:"url"`
	Token  string `mapstructure:"token"`
	Org    string `mapstructure:"org"`
	Bucket string `mapstructure:"bucket"`
}

// Enabled reports whether a URL is configured.
func (c *InfluxConfig) Enabled() bool {
	return c.URL != ""
}

// Load reads defaults, an optional av2kml.{yaml,yml,json,toml} (working directory, then the
// data directory root), AV2KML_* environment variables and finally any
// flags bound from the given flag set, in increasing precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// No config type: an extensionless "av2kml" is the binary, not a config.
	v.SetConfigName(ConfigName)
	v.AddConfigPath(".")
	v.AddConfigPath(DatadirRoot)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bucket := DefaultBucketConfig()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("data.dir", DatadirRoot)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "kml")
	v.SetDefault("bucket.name", bucket.Name)
	v.SetDefault("bucket.region", bucket.Region)
	v.SetDefault("geofence.sample_limit", DefaultGeofenceConfig.SampleLimit)
	v.SetDefault("geofence.confidence_threshold", DefaultGeofenceConfig.ConfidenceThreshold)
	v.SetDefault("geofence.degenerate_threshold", DefaultGeofenceConfig.DegenerateThreshold)
	v.SetDefault("metrics.influx.url", "")
	v.SetDefault("metrics.influx.token", "")
	v.SetDefault("metrics.influx.org", "")
	v.SetDefault("metrics.influx.bucket", "av2kml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	for _, p := range []*string{&cfg.Data.Dir, &cfg.Output.Dir, &cfg.Log.File} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, fmt.Errorf("config: expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return &cfg, nil
}
