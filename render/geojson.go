package render

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WriteGeoJSON encodes d as one FeatureCollection. Styles follow the
// simplestyle property names; folder membership is kept as a property.
// Altitudes are dropped.
func WriteGeoJSON(w io.Writer, d *Document) error {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"name": d.Name}
	if d.Description != "" {
		fc.ExtraMembers["description"] = d.Description
	}
	for _, folder := range d.Folders {
		for _, f := range folder.Features {
			gf := geojsonFeature(f)
			gf.Properties["folder"] = folder.Name
			fc.Append(gf)
		}
	}
	for _, f := range d.Features {
		fc.Append(geojsonFeature(f))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

func geojsonFeature(f Feature) *geojson.Feature {
	var g orb.Geometry
	switch f.Kind {
	case Line:
		g = orbLine(f.Coords)
	case Polygon:
		g = orb.Polygon{orb.Ring(orbLine(closed(f.Coords)))}
	case Point:
		var p orb.Point
		if len(f.Coords) > 0 {
			p = orb.Point{f.Coords[0].Lon, f.Coords[0].Lat}
		}
		g = p
	}
	gf := geojson.NewFeature(g)
	gf.Properties["name"] = f.Name
	if f.Description != "" {
		gf.Properties["description"] = f.Description
	}
	if f.Kind != Point {
		gf.Properties["stroke"] = hexColor(f.Style.LineColor)
		gf.Properties["stroke-width"] = f.Style.LineWidth
	}
	if f.Kind == Polygon && f.Style.Fill {
		gf.Properties["fill"] = hexColor(f.Style.FillColor)
		gf.Properties["fill-opacity"] = float64(f.Style.FillColor.A) / 255
	}
	return gf
}

func orbLine(cs []Coord) orb.LineString {
	ls := make(orb.LineString, len(cs))
	for i, c := range cs {
		ls[i] = orb.Point{c.Lon, c.Lat}
	}
	return ls
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
