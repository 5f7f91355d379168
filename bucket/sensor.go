package bucket

import (
	"context"
	"io"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/rotblauer/av2kml/common"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/types/hdmap"
	"golang.org/x/sync/errgroup"
)

// Catalog remembers which map archive, if any, marks a log as Detroit.
type Catalog interface {
	Lookup(split, logID string) (mapFile string, found bool, err error)
	Record(split, logID, mapFile string) error
}

// LogRef is a Detroit sensor log and the base name of its DTW map archive.
type LogRef struct {
	Split   string
	ID      string
	MapFile string
}

// SensorPlan finds Detroit sensor logs and downloads their poses and maps
// into Dir/<split>/<log>/.
type SensorPlan struct {
	Bucket  *Bucket
	Prefix  string
	Dir     string
	Splits  []string
	Workers int

	// Catalog is optional. Refresh ignores what it already knows.
	Catalog Catalog
	Refresh bool

	// Progress, when set, receives a progress bar.
	Progress io.Writer

	Stats Stats
}

func NewSensorPlan(b *Bucket, cfg *params.BucketConfig, dir string) *SensorPlan {
	return &SensorPlan{
		Bucket:  b,
		Prefix:  cfg.SensorPrefix,
		Dir:     dir,
		Splits:  params.DiscoverySplits,
		Workers: params.DefaultSensorDownloadWorkers,
	}
}

func (p *SensorPlan) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}

// Discover lists every log of each split and keeps those with a DTW map.
// A split that cannot be listed is logged and yields no logs.
func (p *SensorPlan) Discover(ctx context.Context) (map[string][]LogRef, error) {
	found := make(map[string][]LogRef, len(p.Splits))
	for _, split := range p.Splits {
		ids, err := p.Bucket.ListPrefixes(ctx, p.Prefix+split+"/")
		if err != nil {
			if ctx.Err() != nil {
				return found, ctx.Err()
			}
			slog.Error("Failed to list logs", "split", split, "error", err)
			found[split] = nil
			continue
		}
		slog.Info("Listed logs", "split", split, "logs", len(ids))

		refs := make([]LogRef, len(ids))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers())
		for i, id := range ids {
			g.Go(func() error {
				mapFile, err := p.detroitMap(gctx, split, id)
				if err != nil {
					slog.Warn("Failed to list log map", "split", split, "log", id, "error", err)
					return nil
				}
				if mapFile != "" {
					slog.Info("Found Detroit log", "split", split, "log", id)
					refs[i] = LogRef{Split: split, ID: id, MapFile: mapFile}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return found, err
		}
		if ctx.Err() != nil {
			return found, ctx.Err()
		}
		var detroit []LogRef
		for _, r := range refs {
			if r.ID != "" {
				detroit = append(detroit, r)
			}
		}
		found[split] = detroit
		slog.Info("Discovered Detroit logs", "split", split, "detroit", len(detroit), "total", len(ids))
	}
	return found, nil
}

func (p *SensorPlan) detroitMap(ctx context.Context, split, id string) (string, error) {
	if p.Catalog != nil && !p.Refresh {
		mapFile, ok, err := p.Catalog.Lookup(split, id)
		if err != nil {
			slog.Warn("Catalog lookup failed", "split", split, "log", id, "error", err)
		} else if ok {
			return mapFile, nil
		}
	}
	keys, err := p.Bucket.ListKeys(ctx, p.Prefix+path.Join(split, id, params.MapDirName)+"/")
	if err != nil {
		return "", err
	}
	mapFile := ""
	for _, k := range keys {
		if hdmap.IsDetroitArchive(k) {
			mapFile = path.Base(k)
			break
		}
	}
	if p.Catalog != nil {
		if err := p.Catalog.Record(split, id, mapFile); err != nil {
			slog.Warn("Catalog record failed", "split", split, "log", id, "error", err)
		}
	}
	return mapFile, nil
}

// Download fetches the pose file and the DTW map of every found log.
// A log counts as downloaded when at least one of its files is present
// afterwards, and as skipped when all of them already were.
func (p *SensorPlan) Download(ctx context.Context, found map[string][]LogRef) error {
	var all []LogRef
	for _, split := range p.Splits {
		all = append(all, found[split]...)
	}
	if len(all) == 0 {
		slog.Warn("No Detroit logs to download")
		return nil
	}
	slog.Info("Downloading Detroit logs", "logs", len(all), "workers", p.workers())

	var bar *pb.ProgressBar
	if p.Progress != nil {
		bar = common.NewProgressBar(p.Progress, len(all), "Downloading logs")
		defer bar.Finish()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for _, ref := range all {
		g.Go(func() error {
			p.downloadLog(gctx, ref)
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s := p.Stats.Snapshot()
	slog.Info("Download complete", "downloaded", s.Downloaded, "skipped", s.Skipped,
		"failed", s.Failed, "size", humanize.Bytes(uint64(s.Bytes)))
	return ctx.Err()
}

func (p *SensorPlan) downloadLog(ctx context.Context, ref LogRef) {
	logDir := filepath.Join(p.Dir, ref.Split, ref.ID)
	remote := p.Prefix + path.Join(ref.Split, ref.ID)

	type file struct{ key, local string }
	files := []file{{
		key:   remote + "/" + params.PoseFileName,
		local: filepath.Join(logDir, params.PoseFileName),
	}}
	if ref.MapFile != "" {
		files = append(files, file{
			key:   remote + "/" + params.MapDirName + "/" + ref.MapFile,
			local: filepath.Join(logDir, params.MapDirName, ref.MapFile),
		})
	}

	present, skipped := 0, 0
	for _, f := range files {
		wasSkipped, n, err := p.Bucket.Download(ctx, f.key, f.local)
		if err != nil {
			slog.Warn("Download failed", "key", f.key, "error", err)
			continue
		}
		present++
		if wasSkipped {
			skipped++
			slog.Debug("Skipping existing file", "path", f.local)
			continue
		}
		p.Stats.Bytes.Add(n)
	}
	switch {
	case present == 0:
		p.Stats.Failed.Add(1)
		slog.Error("Failed log", "split", ref.Split, "log", ref.ID)
	case skipped == len(files):
		p.Stats.Skipped.Add(1)
	default:
		p.Stats.Downloaded.Add(1)
		slog.Info("Downloaded log", "split", ref.Split, "log", ref.ID)
	}
}

// IDs flattens refs to log IDs per split, for the manifest.
func IDs(found map[string][]LogRef) map[string][]string {
	out := make(map[string][]string, len(found))
	for split, refs := range found {
		ids := make([]string, len(refs))
		for i, r := range refs {
			ids[i] = r.ID
		}
		out[split] = ids
	}
	return out
}
