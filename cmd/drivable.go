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

	"github.com/rotblauer/av2kml/pipeline"
	"github.com/spf13/cobra"
)

// drivableCmd represents the drivable command
var drivableCmd = &cobra.Command{
	Use:   "drivable <map.json>",
	Short: "Place one map's drivable areas around downtown Detroit",
	Long: `Computes drivable area coordinate statistics for a single map archive and
pins the centre of its vertices to downtown Detroit. Writes
detroit_drivable_areas_improved with reference landmarks, and one
detroit_attempt_<name> document per candidate placement for comparison.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		d := pipeline.NewDrivable(args[0], output())
		if err := d.Run(); err != nil {
			log.Fatalln(err)
		}
		exportRun(cmd, map[string]string{"format": cfg.Output.Format}, map[string]any{
			"vertices": d.Stats.Vertices,
			"x_span":   d.Stats.X.Span,
			"y_span":   d.Stats.Y.Span,
			"files":    len(d.Written),
		})
	},
}

func init() {
	rootCmd.AddCommand(drivableCmd)
}
