package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/render"
	"github.com/rotblauer/av2kml/types/pose"
)

type TrajectoryStats struct {
	Logs   int
	Poses  int
	Points int

	// Dropped counts poses that could not be projected.
	Dropped int
}

// Trajectories renders each log's ego vehicle path as a line.
type Trajectories struct {
	Dir    string
	Out    Output
	Splits []string

	// Simplify is the Douglas-Peucker threshold in degrees; zero keeps every pose.
	Simplify float64

	Geofence *params.GeofenceConfig

	Stats   TrajectoryStats
	Written string
}

func NewTrajectories(dir string, out Output) *Trajectories {
	return &Trajectories{
		Dir:      dir,
		Out:      out,
		Splits:   []string{"test"},
		Simplify: params.DefaultSimplifierConfig.DouglasPeuckerThreshold,
	}
}

func (t *Trajectories) Run(ctx context.Context) error {
	t.Stats = TrajectoryStats{}
	t.Written = ""
	classifier := newDetroitClassifier(t.Geofence)
	doc := render.NewDocument("Detroit Ego Vehicle Trajectories",
		"Ego vehicle trajectories from Argoverse 2 Detroit sensor logs")

	for _, split := range t.Splits {
		logs, err := subdirs(splitDir(t.Dir, split))
		if err != nil {
			return err
		}
		for _, logID := range logs {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(t.Dir, split, logID, params.PoseFileName)
			if !exists(path) {
				continue
			}
			poses, err := pose.ReadFeather(path)
			if err != nil {
				slog.Error("Failed to read poses", "path", path, "error", err)
				continue
			}
			coords := make([]render.Coord, 0, len(poses))
			for _, p := range pose.Points(poses) {
				lon, lat, alt, ok := classifier.ToWGS84(p)
				if !ok {
					t.Stats.Dropped++
					continue
				}
				coords = append(coords, render.Coord{Lon: lon, Lat: lat, Alt: alt})
			}
			if t.Simplify > 0 {
				coords = SimplifyCoords(coords, t.Simplify)
			}
			t.Stats.Poses += len(poses)
			if len(coords) < 2 {
				slog.Warn("Trajectory too short", "split", split, "log", render.ShortID(logID), "points", len(coords))
				continue
			}
			doc.Add(render.Feature{
				Name:        fmt.Sprintf("%s/%s", split, logID),
				Description: fmt.Sprintf("Ego trajectory, %d poses, %d points", len(poses), len(coords)),
				Kind:        render.Line,
				Coords:      coords,
				Style:       render.TrajectoryStyle(split),
			})
			t.Stats.Logs++
			t.Stats.Points += len(coords)
		}
	}
	if doc.Len() == 0 {
		return fmt.Errorf("%w: no trajectories under %s", ErrNoInput, t.Dir)
	}
	path, err := t.Out.Write("detroit_ego_trajectories", doc)
	if err != nil {
		return err
	}
	t.Written = path
	slog.Info("Trajectories complete", "logs", t.Stats.Logs, "poses", t.Stats.Poses,
		"points", t.Stats.Points, "dropped", t.Stats.Dropped)
	return nil
}

// SimplifyCoords runs Douglas-Peucker on (lon, lat) and keeps the altitude
// of each surviving vertex.
func SimplifyCoords(cs []render.Coord, threshold float64) []render.Coord {
	ls := make(orb.LineString, len(cs))
	for i, c := range cs {
		ls[i] = orb.Point{c.Lon, c.Lat}
	}
	simplified, ok := simplify.DouglasPeucker(threshold).Simplify(ls.Clone()).(orb.LineString)
	if !ok {
		return cs
	}
	out := make([]render.Coord, 0, len(simplified))
	j := 0
	for _, p := range simplified {
		for j < len(cs) && (cs[j].Lon != p[0] || cs[j].Lat != p[1]) {
			j++
		}
		if j == len(cs) {
			break
		}
		out = append(out, cs[j])
		j++
	}
	return out
}
