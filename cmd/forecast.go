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
	"log"
	"log/slog"
	"strconv"

	"github.com/rotblauer/av2kml/common"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/pipeline"
	"github.com/rotblauer/av2kml/render"
	"github.com/rotblauer/av2kml/s2"
	"github.com/spf13/cobra"
)

var (
	optForecastDir             string
	optForecastSplits          []string
	optForecastDetroitOnly     bool
	optForecastIncludeDrivable bool
	optForecastLanesOnly       bool
	optForecastDedupe          bool
	optForecastWorkers         int
	optForecastCoverage        bool
	optForecastCoverageLevel   int
)

// forecastCmd represents the forecast command
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Render motion forecasting scenario maps",
	Long: `Renders the map archive of every downloaded scenario under
<dir>/<split>/<scenario>/ into one document per split.

Scenarios are converted in parallel batches, one geofence classifier per batch,
and merged back in scenario order.

Flags:

  --detroit-only      Keep only scenarios whose sampled points lie in Detroit.
  --include-drivable  Also render drivable area polygons.
  --lanes-only        Render lanes and crossings only; overrides --include-drivable.
  --dedupe            Drop features repeated across scenarios.
  --coverage          Also write the S2 cells holding rendered scenarios.

Examples:

  av2kml forecast --detroit-only --include-drivable --workers 8
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		ctx, cancel := common.InterruptContext(cmd.Context())
		defer cancel()

		f := pipeline.NewForecasting(optForecastDir, output())
		f.Splits = optForecastSplits
		f.DetroitOnly = optForecastDetroitOnly
		f.Layers = render.Layers{Lanes: true, Crossings: true, Drivable: optForecastIncludeDrivable}
		if optForecastLanesOnly {
			if optForecastIncludeDrivable {
				slog.Warn("--lanes-only overrides --include-drivable")
			}
			f.Layers.Drivable = false
		}
		f.Dedupe = optForecastDedupe
		f.Workers = optForecastWorkers
		f.Coverage = optForecastCoverage
		f.CoverageLevel = s2.CellLevel(optForecastCoverageLevel)
		f.Geofence = &cfg.Geofence
		if err := f.Run(ctx); err != nil {
			log.Fatalln(err)
		}
		exportRun(cmd, map[string]string{
			"format":       cfg.Output.Format,
			"detroit_only": strconv.FormatBool(f.DetroitOnly),
		}, map[string]any{
			"scenarios": f.Stats.Scenarios,
			"rejected":  f.Stats.Rejected,
			"lanes":     f.Stats.Lanes,
			"crossings": f.Stats.Crossings,
			"areas":     f.Stats.Areas,
			"dropped":   f.Stats.Dropped,
			"files":     len(f.Written),
		})
	},
}

func init() {
	rootCmd.AddCommand(forecastCmd)

	flags := forecastCmd.Flags()
	flags.StringVar(&optForecastDir, "dir", params.DefaultForecastingDir, "Scenario directory")
	flags.StringSliceVar(&optForecastSplits, "splits", []string{"test"}, "Splits to render")
	flags.BoolVar(&optForecastDetroitOnly, "detroit-only", false, "Keep only Detroit scenarios")
	flags.BoolVar(&optForecastIncludeDrivable, "include-drivable", false, "Render drivable areas")
	flags.BoolVar(&optForecastLanesOnly, "lanes-only", false, "Render lanes and crossings only")
	flags.BoolVar(&optForecastDedupe, "dedupe", false, "Drop repeated features")
	flags.BoolVar(&optForecastCoverage, "coverage", false, "Write S2 cell coverage of rendered scenarios")
	flags.IntVar(&optForecastCoverageLevel, "coverage-level", int(s2.DefaultCoverageLevel), "S2 cell level for --coverage")
	flags.IntVar(&optForecastWorkers, "workers", params.DefaultForecastingDownloadWorkers, "Parallel conversion batches")
}
