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
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strconv"

	"github.com/rotblauer/av2kml/geofence"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/projection"
	"github.com/rotblauer/av2kml/rgeo"
	"github.com/rotblauer/av2kml/types"
	"github.com/spf13/cobra"
)

var (
	optClassifyMethod = geofence.Auto
	optClassifyCity   = projection.DTW
	optClassifyRgeo   bool
	optClassifyZ      float64
)

// classifyResult is printed as JSON.
type classifyResult struct {
	geofence.DetectionResult
	City     string `json:"city"`
	Method   string `json:"method"`
	InRegion bool   `json:"in_region"`
	Location string `json:"location,omitempty"`
}

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [flags] <x> <y>",
	Short: "Explain whether a city-frame point lies in Detroit",
	Long: `Projects a city-frame point from --city into WGS84 and reports every
geofence heuristic, plus the verdict of --method.

--rgeo also names the place the point projects to; loading the
reverse geocoding datasets takes a few seconds.

Flags go before the coordinates, so a negative y needs no quoting.
A negative x must follow "--".

Examples:

  av2kml classify 10100 3500
  av2kml classify --city PIT --method polygon --rgeo 1200 -400
  av2kml classify --city MIA -- -2500 1800
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		res, err := classifyPoint(cfg.Geofence, args[0], args[1])
		if err != nil {
			log.Fatalln(err)
		}
		if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
			log.Fatalln(err)
		}
	},
}

func classifyPoint(gc params.GeofenceConfig, xs, ys string) (classifyResult, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return classifyResult{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return classifyResult{}, fmt.Errorf("y: %w", err)
	}

	region := params.DetroitRegion()
	region.City = optClassifyCity
	c := geofence.New(region, gc.Options()...)
	p := types.PlanarPoint{X: x, Y: y, Z: optClassifyZ}

	res := classifyResult{
		DetectionResult: c.Explain(p),
		City:            optClassifyCity.String(),
		Method:          optClassifyMethod.String(),
		InRegion:        c.Classify(p, optClassifyMethod),
	}
	if optClassifyRgeo && res.Geo != nil {
		g, err := rgeo.R()
		if err != nil {
			return classifyResult{}, err
		}
		loc, err := rgeo.Locate(g, *res.Geo)
		if err != nil {
			slog.Warn("Reverse geocode failed", "point", res.Geo, "error", err)
		} else {
			res.Location = rgeo.Describe(loc)
		}
	}
	return res, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	flags := classifyCmd.Flags()
	// Stop at the first coordinate so "-400" is an argument, not a shorthand.
	flags.SetInterspersed(false)
	flags.Var(&optClassifyMethod, "method", "Heuristic: auto, polygon, range, broad")
	flags.Var(&optClassifyCity, "city", "City frame of the point: DTW, ATX, MIA, PAO, PIT, WDC")
	flags.BoolVar(&optClassifyRgeo, "rgeo", false, "Reverse geocode the projected point")
	flags.Float64Var(&optClassifyZ, "z", 0, "Elevation, passed through")
}
