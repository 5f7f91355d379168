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
	optHDMapsDir         string
	optHDMapsMaxFeatures int
)

// hdmapsCmd represents the hdmaps command
var hdmapsCmd = &cobra.Command{
	Use:   "hdmaps",
	Short: "Render downloaded Detroit sensor log HD maps",
	Long: `Renders every DTW map archive under <dir>/<split>/<log>/map/ into
detroit_hd_maps_<split>_part_<n> documents of at most --max-features features,
plus a detroit_hd_maps_summary document from the first logs of each split.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		ctx, cancel := common.InterruptContext(cmd.Context())
		defer cancel()

		h := pipeline.NewHDMaps(optHDMapsDir, output())
		h.MaxFeatures = optHDMapsMaxFeatures
		h.Geofence = &cfg.Geofence
		if err := h.Run(ctx); err != nil {
			log.Fatalln(err)
		}
		exportRun(cmd, map[string]string{"format": cfg.Output.Format}, map[string]any{
			"logs":      h.Stats.Logs,
			"lanes":     h.Stats.Lanes,
			"crossings": h.Stats.Crossings,
			"areas":     h.Stats.Areas,
			"dropped":   h.Stats.Dropped,
			"files":     len(h.Written),
		})
	},
}

func init() {
	rootCmd.AddCommand(hdmapsCmd)

	flags := hdmapsCmd.Flags()
	flags.StringVar(&optHDMapsDir, "dir", params.DefaultSensorDir, "Sensor log directory")
	flags.IntVar(&optHDMapsMaxFeatures, "max-features", params.MaxFeaturesPerChunk, "Features per document")
}
