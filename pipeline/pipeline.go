// Package pipeline turns downloaded Argoverse 2 data into map documents.
package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotblauer/av2kml/geofence"
	"github.com/rotblauer/av2kml/params"
	"github.com/rotblauer/av2kml/render"
)

var ErrNoInput = errors.New("no input found")

// Output is where and how documents are written.
type Output struct {
	Dir    string
	Format render.Format
}

// Write saves a document and logs it.
func (o Output) Write(base string, d *render.Document) (string, error) {
	path, err := o.Format.WriteFile(o.Dir, base, d)
	if err != nil {
		return "", err
	}
	slog.Info("Wrote document", "path", path, "features", d.Len())
	return path, nil
}

// subdirs lists the directories directly under dir, sorted by name.
// A missing dir yields no entries.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// newDetroitClassifier builds a fresh classifier; callers own it.
func newDetroitClassifier(cfg *params.GeofenceConfig) *geofence.Classifier {
	if cfg == nil {
		cfg = params.DefaultGeofenceConfig
	}
	return geofence.New(params.DetroitRegion(), cfg.Options()...)
}

func splitDir(root, split string) string {
	return filepath.Join(root, split)
}
