package bucket

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rotblauer/av2kml/params"
)

type DirEntry struct {
	Files      []string `json:"files"`
	FileCount  int      `json:"file_count"`
	TotalBytes int64    `json:"total_size_bytes"`
}

// Manifest records one download run and what is on disk afterwards.
type Manifest struct {
	Timestamp      string                         `json:"download_timestamp"`
	Dataset        string                         `json:"dataset,omitempty"`
	FoundLogs      map[string][]string            `json:"found_logs,omitempty"`
	FoundScenarios map[string][]string            `json:"found_scenarios,omitempty"`
	Stats          StatsSnapshot                  `json:"download_stats"`
	Structure      map[string]map[string]DirEntry `json:"directory_structure"`
}

func NewManifest(now time.Time, stats StatsSnapshot) *Manifest {
	return &Manifest{
		Timestamp: now.Format(time.DateTime),
		Stats:     stats,
		Structure: map[string]map[string]DirEntry{},
	}
}

// Scan fills the directory structure from dir/<split>/<unit>/, listing files
// relative to each unit directory.
func (m *Manifest) Scan(dir string, splits []string) error {
	for _, split := range splits {
		splitDir := filepath.Join(dir, split)
		entries, err := os.ReadDir(splitDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		units := map[string]DirEntry{}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			de, err := scanUnit(filepath.Join(splitDir, e.Name()))
			if err != nil {
				return err
			}
			units[e.Name()] = de
		}
		m.Structure[split] = units
	}
	return nil
}

func scanUnit(root string) (DirEntry, error) {
	de := DirEntry{Files: []string{}}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		de.Files = append(de.Files, filepath.ToSlash(rel))
		de.TotalBytes += info.Size()
		return nil
	})
	sort.Strings(de.Files)
	de.FileCount = len(de.Files)
	return de, err
}

// Write saves the manifest as dir/download_manifest.json.
func (m *Manifest) Write(dir string) (string, error) {
	path := filepath.Join(dir, params.ManifestFileName)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, data, 0644)
}
