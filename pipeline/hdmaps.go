package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/render"
	"github.com/rotblauer/av2kml/types/hdmap"
)

type HDMapStats struct {
	render.ConvertStats
	Logs int
}

// HDMaps renders the DTW map archives of downloaded sensor logs, one
// chunked series of documents per split plus a small summary document.
type HDMaps struct {
	Dir    string
	Out    Output
	Splits []string

	MaxFeatures  int
	SummaryLogs  int
	SummaryFiles int

	Geofence *params.GeofenceConfig

	Stats   HDMapStats
	Written []string
}

func NewHDMaps(dir string, out Output) *HDMaps {
	return &HDMaps{
		Dir:          dir,
		Out:          out,
		Splits:       params.Splits,
		MaxFeatures:  params.MaxFeaturesPerChunk,
		SummaryLogs:  params.SummaryLogsPerSplit,
		SummaryFiles: params.SummaryMaxFiles,
	}
}

func (h *HDMaps) Run(ctx context.Context) error {
	h.Stats = HDMapStats{}
	h.Written = nil
	conv := render.NewConverter(newDetroitClassifier(h.Geofence), render.AllLayers)

	for _, split := range h.Splits {
		if err := ctx.Err(); err != nil {
			return err
		}
		docs, err := h.split(ctx, conv, split)
		if err != nil {
			return err
		}
		wrote := false
		for i, d := range docs {
			if d.Len() == 0 {
				continue
			}
			path, err := h.Out.Write(fmt.Sprintf("detroit_hd_maps_%s_part_%d", split, i+1), d)
			if err != nil {
				return err
			}
			h.Written = append(h.Written, path)
			wrote = true
		}
		if !wrote {
			slog.Warn("No data found", "split", split)
		}
	}
	h.Stats.ConvertStats = conv.Stats

	if err := h.summary(ctx); err != nil {
		return err
	}
	slog.Info("HD maps complete", "logs", h.Stats.Logs, "lanes", h.Stats.Lanes,
		"crossings", h.Stats.Crossings, "areas", h.Stats.Areas, "dropped", h.Stats.Dropped)
	if h.Stats.Logs == 0 {
		return fmt.Errorf("%w: no DTW map archives under %s", ErrNoInput, h.Dir)
	}
	return nil
}

func (h *HDMaps) split(ctx context.Context, conv *render.Converter, split string) ([]*render.Document, error) {
	logs, err := subdirs(splitDir(h.Dir, split))
	if err != nil {
		return nil, err
	}
	chunker := render.NewChunker(h.MaxFeatures, func(part int) (string, string) {
		return fmt.Sprintf("Detroit HD Maps - %s - Part %d", title(split), part),
			fmt.Sprintf("Detroit HD Maps for %s split (Part %d)", split, part)
	})
	for _, logID := range logs {
		maps, err := hdmap.SensorMaps(filepath.Join(h.Dir, split, logID, params.MapDirName))
		if err != nil {
			return nil, err
		}
		for _, path := range maps {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			doc := chunker.Next()
			m, err := hdmap.ReadFile(path)
			if err != nil {
				slog.Error("Failed to read map", "path", path, "error", err)
				continue
			}
			fs := conv.Map(split, logID, m)
			doc.Add(fs...)
			h.Stats.Logs++
			slog.Debug("Processed map", "split", split, "log", render.ShortID(logID),
				"file", filepath.Base(path), "features", len(fs))
		}
	}
	return chunker.Documents(), nil
}

func (h *HDMaps) summary(ctx context.Context) error {
	doc := render.NewDocument("Detroit HD Maps - Summary", fmt.Sprintf(`Detroit HD Maps Summary
Generated from %d logs

Statistics:
- Lane segments: %d
- Pedestrian crossings: %d
- Drivable areas: %d

Color Legend:
- Blue lines: Vehicle lanes
- Green lines: Bike lanes
- Orange lines: Bus lanes
- Yellow lines: Pedestrian crossings
- Light blue polygons: Drivable areas`, h.Stats.Logs, h.Stats.Lanes, h.Stats.Crossings, h.Stats.Areas))

	conv := render.NewConverter(newDetroitClassifier(h.Geofence), render.AllLayers)
	samples := 0
splits:
	for _, split := range h.Splits {
		logs, err := subdirs(splitDir(h.Dir, split))
		if err != nil {
			return err
		}
		if len(logs) > h.SummaryLogs {
			logs = logs[:h.SummaryLogs]
		}
		for _, logID := range logs {
			maps, err := hdmap.SensorMaps(filepath.Join(h.Dir, split, logID, params.MapDirName))
			if err != nil {
				return err
			}
			for _, path := range maps {
				if samples >= h.SummaryFiles {
					break splits
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				m, err := hdmap.ReadFile(path)
				if err != nil {
					slog.Error("Failed to read map", "path", path, "error", err)
					continue
				}
				doc.Add(conv.Map(split, logID, m)...)
				samples++
			}
		}
	}
	path, err := h.Out.Write("detroit_hd_maps_summary", doc)
	if err != nil {
		return err
	}
	h.Written = append(h.Written, path)
	return nil
}
