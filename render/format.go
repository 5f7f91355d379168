package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Format int

const (
	KML Format = iota
	GeoJSON
)

func (f Format) String() string {
	switch f {
	case KML:
		return "kml"
	case GeoJSON:
		return "geojson"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext is the file extension including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "kml":
		return KML, nil
	case "geojson", "json":
		return GeoJSON, nil
	}
	return KML, fmt.Errorf("unknown format %q (want kml or geojson)", s)
}

func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f *Format) Type() string {
	return "format"
}

func (f Format) Write(w io.Writer, d *Document) error {
	switch f {
	case KML:
		return WriteKML(w, d)
	case GeoJSON:
		return WriteGeoJSON(w, d)
	}
	panic(fmt.Sprintf("render: unhandled format %v", f))
}

// WriteFile writes d to dir/base plus the format extension and returns
// the path. The file is written under a temporary name and renamed.
func (f Format) WriteFile(dir, base string, d *Document) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, base+f.Ext())
	tmp, err := os.CreateTemp(dir, "."+base+"-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if err := f.Write(tmp, d); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}
