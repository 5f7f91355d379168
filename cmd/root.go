/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/rotblauer/av2kml/common"
	"github.com/rotblauer/av2kml/metrics/influxdb"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/pipeline"
	"github.com/rotblauer/av2kml/render"
	"github.com/spf13/cobra"
)

// cfg is loaded before any subcommand runs.
var cfg *params.Config

var logCloser io.Closer

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "av2kml",
	Short: "Argoverse 2 Detroit HD maps to KML",
	Long: `Downloads Argoverse 2 sensor logs and motion forecasting scenarios,
keeps what lies in Detroit, and renders lane boundaries, pedestrian crossings,
drivable areas and ego trajectories as KML or GeoJSON.

Configuration is read from av2kml.yaml (in the working directory or ~/.av2kml),
AV2KML_* environment variables and flags, in increasing precedence.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = params.Load(cmd.Flags())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pFlags := rootCmd.PersistentFlags()
	pFlags.String("log.level", "info", "Log level: debug, info, warn, error")
	pFlags.String("log.file", "", "Also write JSON logs to this file")
	pFlags.String("data.dir", params.DatadirRoot, "Directory for the discovery catalog")
	pFlags.String("output.dir", ".", "Directory for generated documents")
	pFlags.String("output.format", "kml", "Output format: kml or geojson")
	pFlags.String("bucket.name", params.DefaultBucketConfig().Name, "Argoverse S3 bucket")
	pFlags.String("bucket.region", params.DefaultBucketConfig().Region, "Argoverse S3 bucket region")
}

func setDefaultSlog(cmd *cobra.Command, args []string) {
	closer, err := common.SetupSlog(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalln(err)
	}
	logCloser = closer
	slog.Debug("Config", "command", cmd.Name(), "args", args, "config", cfg)
}

func output() pipeline.Output {
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		log.Fatalln(err)
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		log.Fatalln(err)
	}
	return pipeline.Output{Dir: cfg.Output.Dir, Format: format}
}

func bucketConfig() *params.BucketConfig {
	bc := params.DefaultBucketConfig()
	bc.Name = cfg.Bucket.Name
	bc.Region = cfg.Bucket.Region
	return bc
}

// exportRun sends a command's stats to InfluxDB when configured.
// Failures are logged; they never fail the command.
func exportRun(cmd *cobra.Command, tags map[string]string, fields map[string]any) {
	influx := &cfg.Metrics.Influx
	if !influx.Enabled() {
		return
	}
	err := influxdb.Export(influx, influxdb.Run{
		Command: cmd.CommandPath(),
		Time:    time.Now(),
		Tags:    tags,
		Fields:  fields,
	})
	if err != nil {
		slog.Error("Failed to export run metrics", "url", influx.URL, "error", err)
	}
}
