package bucket

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/rotblauer/av2kml/common"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/types/hdmap"
	"golang.org/x/sync/errgroup"
)

// ForecastingPlan downloads the map archive of every motion-forecasting
// scenario into Dir/<split>/<scenario>/.
type ForecastingPlan struct {
	Bucket  *Bucket
	Prefix  string
	Dir     string
	Splits  []string
	Workers int

	// Limit caps the scenarios per split; zero means all.
	Limit int

	Progress io.Writer

	Stats Stats
}

func NewForecastingPlan(b *Bucket, cfg *params.BucketConfig, dir string) *ForecastingPlan {
	return &ForecastingPlan{
		Bucket:  b,
		Prefix:  cfg.ForecastingPrefix,
		Dir:     dir,
		Splits:  []string{"test"},
		Workers: params.DefaultForecastingDownloadWorkers,
	}
}

// Discover lists scenario IDs per split.
func (p *ForecastingPlan) Discover(ctx context.Context) (map[string][]string, error) {
	found := make(map[string][]string, len(p.Splits))
	for _, split := range p.Splits {
		ids, err := p.Bucket.ListPrefixes(ctx, p.Prefix+split+"/")
		if err != nil {
			if ctx.Err() != nil {
				return found, ctx.Err()
			}
			slog.Error("Failed to list scenarios", "split", split, "error", err)
			found[split] = nil
			continue
		}
		if p.Limit > 0 && len(ids) > p.Limit {
			ids = ids[:p.Limit]
		}
		found[split] = ids
		slog.Info("Listed scenarios", "split", split, "scenarios", len(ids))
	}
	return found, nil
}

func (p *ForecastingPlan) Download(ctx context.Context, found map[string][]string) error {
	type job struct{ split, id string }
	var jobs []job
	for _, split := range p.Splits {
		for _, id := range found[split] {
			jobs = append(jobs, job{split, id})
		}
	}
	if len(jobs) == 0 {
		slog.Warn("No scenarios to download")
		return nil
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	slog.Info("Downloading scenario maps", "scenarios", len(jobs), "workers", workers)

	var bar *pb.ProgressBar
	if p.Progress != nil {
		bar = common.NewProgressBar(p.Progress, len(jobs), "Downloading HD maps")
		defer bar.Finish()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, j := range jobs {
		g.Go(func() error {
			name := hdmap.ForecastingMapName(j.id)
			key := p.Prefix + j.split + "/" + j.id + "/" + name
			skipped, n, err := p.Bucket.Download(gctx, key, filepath.Join(p.Dir, j.split, j.id, name))
			switch {
			case err != nil:
				p.Stats.Failed.Add(1)
				slog.Warn("Download failed", "key", key, "error", err)
			case skipped:
				p.Stats.Skipped.Add(1)
			default:
				p.Stats.Downloaded.Add(1)
				p.Stats.Bytes.Add(n)
			}
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
