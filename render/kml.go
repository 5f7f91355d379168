package render

import (
	"io"

	"github.com/twpayne/go-kml/v3"
)

// WriteKML encodes d as an indented KML document.
func WriteKML(w io.Writer, d *Document) error {
	children := []kml.Element{kml.Name(d.Name)}
	if d.Description != "" {
		children = append(children, kml.Description(d.Description))
	}
	for _, f := range d.Folders {
		folder := []kml.Element{kml.Name(f.Name)}
		for _, ft := range f.Features {
			folder = append(folder, placemark(ft))
		}
		children = append(children, kml.Folder(folder...))
	}
	for _, f := range d.Features {
		children = append(children, placemark(f))
	}
	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}

func placemark(f Feature) kml.Element {
	children := []kml.Element{kml.Name(f.Name)}
	if f.Description != "" {
		children = append(children, kml.Description(f.Description))
	}
	children = append(children, kmlStyle(f.Kind, f.Style))
	switch f.Kind {
	case Line:
		children = append(children, kml.LineString(kml.Coordinates(kmlCoords(f.Coords)...)))
	case Polygon:
		children = append(children, kml.Polygon(
			kml.OuterBoundaryIs(
				kml.LinearRing(kml.Coordinates(kmlCoords(closed(f.Coords))...)),
			),
		))
	case Point:
		children = append(children, kml.Point(kml.Coordinates(kmlCoords(f.Coords)...)))
	}
	return kml.Placemark(children...)
}

func kmlStyle(k Kind, s Style) kml.Element {
	if k == Point {
		scale := s.IconScale
		if scale == 0 {
			scale = 1
		}
		return kml.Style(kml.IconStyle(kml.Scale(scale)))
	}
	children := []kml.Element{
		kml.LineStyle(kml.Color(s.LineColor), kml.Width(s.LineWidth)),
	}
	if k == Polygon {
		children = append(children, kml.PolyStyle(
			kml.Color(s.FillColor),
			kml.Fill(s.Fill),
			kml.Outline(s.Outline),
		))
	}
	return kml.Style(children...)
}

func kmlCoords(cs []Coord) []kml.Coordinate {
	out := make([]kml.Coordinate, len(cs))
	for i, c := range cs {
		out[i] = kml.Coordinate{Lon: c.Lon, Lat: c.Lat, Alt: c.Alt}
	}
	return out
}
