// Package render builds renderer-neutral map features and encodes them as
// KML or GeoJSON.
package render

import (
	"image/color"
)

type Kind int

const (
	Line Kind = iota
	Polygon
	Point
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Polygon:
		return "polygon"
	case Point:
		return "point"
	}
	return "unknown"
}

// Coord is a WGS84 vertex in KML order.
type Coord struct {
	Lon, Lat, Alt float64
}

type Style struct {
	LineColor color.RGBA
	LineWidth float64

	// FillColor is used by polygons only when Fill is set.
	FillColor color.RGBA
	Fill      bool
	Outline   bool

	IconScale float64
}

// Feature is one placemark. Name and Description are ignored by dedupe.
type Feature struct {
	Name        string `hash:"ignore"`
	Description string `hash:"ignore"`
	Kind        Kind
	Coords      []Coord
	Style       Style
}

type Folder struct {
	Name     string
	Features []Feature
}

type Document struct {
	Name        string
	Description string
	Features    []Feature
	Folders     []Folder
}

func NewDocument(name, description string) *Document {
	return &Document{Name: name, Description: description}
}

func (d *Document) Add(fs ...Feature) {
	d.Features = append(d.Features, fs...)
}

func (d *Document) AddFolder(f Folder) {
	d.Folders = append(d.Folders, f)
}

// Len counts features, including those in folders.
func (d *Document) Len() int {
	n := len(d.Features)
	for _, f := range d.Folders {
		n += len(f.Features)
	}
	return n
}

// closed returns cs with the first vertex repeated at the end if needed.
func closed(cs []Coord) []Coord {
	if len(cs) == 0 || cs[0] == cs[len(cs)-1] {
		return cs
	}
	out := make([]Coord, len(cs), len(cs)+1)
	copy(out, cs)
	return append(out, cs[0])
}
