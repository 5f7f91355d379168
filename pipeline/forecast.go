package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/rotblauer/av2kml/dedupe"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/projection"
	"github.com/rotblauer/av2kml/render"
	"github.com/rotblauer/av2kml/s2"
	"github.com/rotblauer/av2kml/stream"
	"github.com/rotblauer/av2kml/types/hdmap"
	"github.com/sourcegraph/conc/pool"
)

type ForecastingStats struct {
	render.ConvertStats
	Scenarios int

	// Rejected counts scenarios outside the region when filtering.
	Rejected int
}

// Forecasting renders motion-forecasting scenario maps, one document per split.
type Forecasting struct {
	Dir    string
	Out    Output
	Splits []string

	DetroitOnly bool
	Layers      render.Layers

	Dedupe     bool
	DedupeSize int

	// Coverage also writes the S2 cells at CoverageLevel holding each
	// rendered scenario's first sample point.
	Coverage      bool
	CoverageLevel s2.CellLevel

	Workers  int
	Geofence *params.GeofenceConfig

	Stats   ForecastingStats
	Written []string
}

func NewForecasting(dir string, out Output) *Forecasting {
	return &Forecasting{
		Dir:           dir,
		Out:           out,
		Splits:        []string{"test"},
		Layers:        render.Layers{Lanes: true, Crossings: true},
		DedupeSize:    params.DefaultDedupeCacheSize,
		CoverageLevel: s2.DefaultCoverageLevel,
		Workers:       params.DefaultForecastingDownloadWorkers,
		Geofence:      params.DefaultGeofenceConfig,
	}
}

// batchResult is one batch's output, kept in scenario order.
type batchResult struct {
	features  []render.Feature
	locations []orb.Point
	stats     ForecastingStats
}

func (f *Forecasting) regionLabel() (name, file string) {
	if f.DetroitOnly {
		return "Detroit", "detroit"
	}
	return "All Regions", "all_regions"
}

func (f *Forecasting) layersLabel() (name, file string) {
	if f.Layers.Drivable {
		return "Lanes+Crossings+Drivable Areas", "lanes_drivable"
	}
	return "Lanes+Crossings", "lanes"
}

// BaseName is the output file name of a split, without extension.
func (f *Forecasting) BaseName(split string) string {
	_, region := f.regionLabel()
	_, layers := f.layersLabel()
	return fmt.Sprintf("motion_forecasting_maps_%s_%s_%s", region, layers, split)
}

func (f *Forecasting) Run(ctx context.Context) error {
	f.Stats = ForecastingStats{}
	f.Written = nil
	if f.Geofence == nil {
		f.Geofence = params.DefaultGeofenceConfig
	}
	for _, split := range f.Splits {
		if err := ctx.Err(); err != nil {
			return err
		}
		written, err := f.split(ctx, split)
		f.Written = append(f.Written, written...)
		if err != nil {
			return err
		}
	}
	slog.Info("Forecasting maps complete", "scenarios", f.Stats.Scenarios, "rejected", f.Stats.Rejected,
		"lanes", f.Stats.Lanes, "crossings", f.Stats.Crossings, "areas", f.Stats.Areas)
	return nil
}

// Scenarios lists the scenario IDs of a split that have a map archive.
func (f *Forecasting) Scenarios(ctx context.Context, split string) ([]string, error) {
	dirs, err := subdirs(splitDir(f.Dir, split))
	if err != nil {
		return nil, err
	}
	archive := func(id string) scenarioArchive {
		return scenarioArchive{id: id, path: filepath.Join(f.Dir, split, id, hdmap.ForecastingMapName(id))}
	}
	hasArchive := func(a scenarioArchive) bool { return exists(a.path) }
	id := func(a scenarioArchive) string { return a.id }

	archives := stream.Filter(ctx, hasArchive, stream.Transform(ctx, archive, stream.Slice(ctx, dirs)))
	ids := stream.Collect(ctx, stream.Transform(ctx, id, archives))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

type scenarioArchive struct {
	id, path string
}

func (f *Forecasting) split(ctx context.Context, split string) ([]string, error) {
	ids, err := f.Scenarios(ctx, split)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		slog.Warn("No scenarios found", "split", split, "dir", f.Dir)
		return nil, nil
	}
	workers := f.Workers
	if workers < 1 {
		workers = 1
	}
	batches := stream.Batches(ids, workers)
	results := make([]batchResult, len(batches))
	slog.Info("Converting scenarios", "split", split, "scenarios", len(ids), "batches", len(batches))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers)
	for i, batch := range batches {
		p.Go(func(ctx context.Context) error {
			res, err := f.batch(ctx, split, batch)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var features []render.Feature
	var locations []orb.Point
	for _, r := range results {
		features = append(features, r.features...)
		locations = append(locations, r.locations...)
		f.Stats.ConvertStats.Add(r.stats.ConvertStats)
		f.Stats.Scenarios += r.stats.Scenarios
		f.Stats.Rejected += r.stats.Rejected
	}
	if f.Dedupe {
		before := len(features)
		features = dedupe.Filter(features, dedupe.NewPassLRUFunc(f.DedupeSize))
		slog.Info("Deduplicated features", "split", split, "before", before, "after", len(features))
	}
	if len(features) == 0 {
		slog.Warn("No features to write", "split", split)
		return nil, nil
	}

	region, _ := f.regionLabel()
	layers, _ := f.layersLabel()
	doc := render.NewDocument(
		fmt.Sprintf("Motion Forecasting HD Maps - %s - %s - %s", region, layers, title(split)),
		fmt.Sprintf("HD map data from %s Argoverse 2 motion forecasting scenarios (%s split)",
			strings.ToLower(region), split),
	)
	doc.Add(features...)
	path, err := f.Out.Write(f.BaseName(split), doc)
	if err != nil {
		return nil, err
	}
	written := []string{path}
	if f.Coverage && len(locations) > 0 {
		path, err := f.writeCoverage(split, locations)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// CoverageName is the coverage file name of a split, without extension.
func (f *Forecasting) CoverageName(split string) string {
	_, region := f.regionLabel()
	return fmt.Sprintf("motion_forecasting_coverage_%s_%s", region, split)
}

func (f *Forecasting) writeCoverage(split string, locations []orb.Point) (string, error) {
	if err := f.CoverageLevel.Valid(); err != nil {
		return "", err
	}
	cov := s2.NewCoverage(f.CoverageLevel)
	for _, pt := range locations {
		cov.Add(pt)
	}
	region, _ := f.regionLabel()
	doc := render.NewDocument(
		fmt.Sprintf("Motion Forecasting Coverage - %s - %s", region, title(split)),
		fmt.Sprintf("%d scenarios in %d S2 level %d cells", len(locations), cov.Len(), f.CoverageLevel),
	)
	for _, cc := range cov.Cells() {
		ring := s2.CellPolygon(cc.ID)[0]
		coords := make([]render.Coord, len(ring))
		for i, pt := range ring {
			coords[i] = render.Coord{Lon: pt.Lon(), Lat: pt.Lat()}
		}
		doc.Add(render.Feature{
			Name:        cc.Token,
			Description: fmt.Sprintf("%d scenarios", cc.Count),
			Kind:        render.Polygon,
			Coords:      coords,
			Style:       render.CoverageStyle,
		})
	}
	slog.Info("Scenario coverage", "split", split, "cells", cov.Len(), "level", f.CoverageLevel)
	return f.Out.Write(f.CoverageName(split), doc)
}

// batch converts consecutive scenarios with a classifier of its own.
func (f *Forecasting) batch(ctx context.Context, split string, ids []string) (batchResult, error) {
	classifier := newDetroitClassifier(f.Geofence)
	multi := projection.NewMultiCity(projection.UTM{})
	multi.Threshold = f.Geofence.DegenerateThreshold

	var proj render.Projector = render.MultiCityProjector(multi)
	if f.DetroitOnly {
		proj = render.FallbackProjector(classifier, proj)
	}
	conv := render.NewConverter(proj, f.Layers)

	var res batchResult
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		path := filepath.Join(f.Dir, split, id, hdmap.ForecastingMapName(id))
		m, err := hdmap.ReadFile(path)
		if err != nil {
			slog.Error("Failed to read scenario map", "scenario", id, "error", err)
			continue
		}
		if f.DetroitOnly {
			a := classifier.Analyze(m, f.Geofence.SampleLimit)
			if !a.IsRegion {
				slog.Debug("Skipping scenario outside region", "scenario", render.ShortID(id),
					"confidence", a.Confidence, "sampled", a.Sampled)
				res.stats.Rejected++
				continue
			}
		}
		res.features = append(res.features, conv.Map(split, id, m)...)
		res.stats.Scenarios++
		if f.Coverage {
			if pts := m.SamplePoints(); len(pts) > 0 {
				if lon, lat, _, ok := proj.ToWGS84(pts[0]); ok {
					res.locations = append(res.locations, orb.Point{lon, lat})
				}
			}
		}
	}
	res.stats.ConvertStats = conv.Stats
	return res, nil
}
