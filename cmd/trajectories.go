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

	"github.com/rotblauer/av2kml/common"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/pipeline"
	"github.com/spf13/cobra"
)

var (
	optTrajectoriesDir      string
	optTrajectoriesSplits   []string
	optTrajectoriesSimplify float64
)

// trajectoriesCmd represents the trajectories command
var trajectoriesCmd = &cobra.Command{
	Use:   "trajectories",
	Short: "Render ego vehicle trajectories of downloaded sensor logs",
	Long: `Reads <dir>/<split>/<log>/city_SE3_egovehicle.feather for each log and
writes one line per log, coloured by split, to detroit_ego_trajectories.

--simplify applies Douglas-Peucker with the given tolerance in degrees.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		ctx, cancel := common.InterruptContext(cmd.Context())
		defer cancel()

		t := pipeline.NewTrajectories(optTrajectoriesDir, output())
		t.Splits = optTrajectoriesSplits
		t.Simplify = optTrajectoriesSimplify
		t.Geofence = &cfg.Geofence
		if err := t.Run(ctx); err != nil {
			log.Fatalln(err)
		}
		exportRun(cmd, map[string]string{"format": cfg.Output.Format}, map[string]any{
			"logs":    t.Stats.Logs,
			"poses":   t.Stats.Poses,
			"points":  t.Stats.Points,
			"dropped": t.Stats.Dropped,
		})
	},
}

func init() {
	rootCmd.AddCommand(trajectoriesCmd)

	flags := trajectoriesCmd.Flags()
	flags.StringVar(&optTrajectoriesDir, "dir", params.DefaultSensorDir, "Sensor log directory")
	flags.StringSliceVar(&optTrajectoriesSplits, "splits", []string{"test"}, "Splits to render")
	flags.Float64Var(&optTrajectoriesSimplify, "simplify", params.DefaultSimplifierConfig.DouglasPeuckerThreshold, "Douglas-Peucker tolerance in degrees, 0 to keep every pose")
}
