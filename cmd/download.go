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
	"bufio"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotblauer/av2kml/bucket"
	"github.com/rotblauer/av2kml/catalog"
	"github.com/rotblauer/av2kml/common"
	"github.com/rotblauer/av2kml/params"
	"github.com/spf13/cobra"
)

var (
	optDownloadSplits  []string
	optDownloadYes     bool
	optDownloadRefresh bool
	optDownloadLimit   int

	optSensorDir          string
	optSensorWorkers      int
	optForecastingDir     string
	optForecastingWorkers int
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download Argoverse 2 data from the public bucket",
}

var downloadSensorCmd = &cobra.Command{
	Use:   "sensor",
	Short: "Download Detroit sensor log poses and HD maps",
	Long: `Lists every sensor log of each split, keeps the logs that carry a DTW
vector map archive, and downloads their ego poses and map directories into
<dir>/<split>/<log>/.

Discovery results are cached in <data.dir>/catalog.db; --refresh ignores the cache.
Files that already exist locally are skipped.

Examples:

  av2kml download sensor --splits test --yes
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		ctx, cancel := common.InterruptContext(cmd.Context())
		defer cancel()

		bc := bucketConfig()
		b, err := bucket.New(bc)
		if err != nil {
			log.Fatalln(err)
		}
		cat, err := catalog.Open(filepath.Join(cfg.Data.Dir, params.CatalogFileName))
		if err != nil {
			log.Fatalln(err)
		}
		defer cat.Close()

		plan := bucket.NewSensorPlan(b, bc, optSensorDir)
		plan.Workers = optSensorWorkers
		plan.Catalog = cat
		plan.Refresh = optDownloadRefresh
		plan.Progress = os.Stderr
		if cmd.Flags().Changed("splits") {
			plan.Splits = optDownloadSplits
		}

		found, err := plan.Discover(ctx)
		if err != nil {
			log.Fatalln(err)
		}
		total := 0
		for _, split := range plan.Splits {
			slog.Info("Detroit logs", "split", split, "count", len(found[split]))
			total += len(found[split])
		}
		if total == 0 {
			slog.Warn("No Detroit logs found")
			return
		}
		if !optDownloadYes && !confirm(os.Stdin, os.Stdout, fmt.Sprintf("Download %d Detroit logs to %s?", total, optSensorDir)) {
			slog.Info("Download cancelled")
			return
		}
		if err := plan.Download(ctx, found); err != nil {
			log.Fatalln(err)
		}

		m := bucket.NewManifest(time.Now(), plan.Stats.Snapshot())
		m.Dataset = "sensor"
		m.FoundLogs = bucket.IDs(found)
		writeManifest(cmd, m, optSensorDir, plan.Splits)
	},
}

var downloadForecastingCmd = &cobra.Command{
	Use:   "forecasting",
	Short: "Download motion forecasting scenario map archives",
	Long: `Lists the scenarios of each split and downloads each scenario's
log_map_archive_<id>.json into <dir>/<split>/<scenario>/.
Use av2kml forecast --detroit-only to keep only Detroit scenarios afterwards.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		ctx, cancel := common.InterruptContext(cmd.Context())
		defer cancel()

		bc := bucketConfig()
		b, err := bucket.New(bc)
		if err != nil {
			log.Fatalln(err)
		}
		plan := bucket.NewForecastingPlan(b, bc, optForecastingDir)
		plan.Workers = optForecastingWorkers
		plan.Limit = optDownloadLimit
		plan.Progress = os.Stderr
		if cmd.Flags().Changed("splits") {
			plan.Splits = optDownloadSplits
		}

		found, err := plan.Discover(ctx)
		if err != nil {
			log.Fatalln(err)
		}
		total := 0
		for _, ids := range found {
			total += len(ids)
		}
		if total == 0 {
			slog.Warn("No scenarios found")
			return
		}
		if !optDownloadYes && !confirm(os.Stdin, os.Stdout, fmt.Sprintf("Download %d scenario maps to %s?", total, optForecastingDir)) {
			slog.Info("Download cancelled")
			return
		}
		if err := plan.Download(ctx, found); err != nil {
			log.Fatalln(err)
		}

		m := bucket.NewManifest(time.Now(), plan.Stats.Snapshot())
		m.Dataset = "motion-forecasting"
		m.FoundScenarios = found
		writeManifest(cmd, m, optForecastingDir, plan.Splits)
	},
}

func writeManifest(cmd *cobra.Command, m *bucket.Manifest, dir string, splits []string) {
	if err := m.Scan(dir, splits); err != nil {
		slog.Error("Failed to scan download directory", "error", err)
	}
	path, err := m.Write(dir)
	if err != nil {
		log.Fatalln(err)
	}
	slog.Info("Wrote manifest", "path", path,
		"downloaded", m.Stats.Downloaded, "skipped", m.Stats.Skipped, "failed", m.Stats.Failed)
	exportRun(cmd, map[string]string{"dataset": m.Dataset}, map[string]any{
		"downloaded": m.Stats.Downloaded,
		"skipped":    m.Stats.Skipped,
		"failed":     m.Stats.Failed,
		"bytes":      m.Stats.Bytes,
	})
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.AddCommand(downloadSensorCmd, downloadForecastingCmd)

	pFlags := downloadCmd.PersistentFlags()
	pFlags.BoolVarP(&optDownloadYes, "yes", "y", false, "Do not ask for confirmation")
	pFlags.StringSliceVar(&optDownloadSplits, "splits", nil, "Splits to download")

	sFlags := downloadSensorCmd.Flags()
	sFlags.StringVar(&optSensorDir, "dir", params.DefaultSensorDir, "Download directory")
	sFlags.IntVar(&optSensorWorkers, "workers", params.DefaultSensorDownloadWorkers, "Parallel discovery and download workers")
	sFlags.BoolVar(&optDownloadRefresh, "refresh", false, "Ignore the discovery catalog")

	fFlags := downloadForecastingCmd.Flags()
	fFlags.StringVar(&optForecastingDir, "dir", params.DefaultForecastingDir, "Download directory")
	fFlags.IntVar(&optForecastingWorkers, "workers", params.DefaultForecastingDownloadWorkers, "Parallel download workers")
	fFlags.IntVar(&optDownloadLimit, "limit", 0, "Maximum scenarios per split, 0 for all")
}
