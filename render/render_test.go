package render

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotblauer/av2kml/projection"
	"github.com/rotblauer/av2kml/types"
	"github.com/rotblauer/av2kml/types/hdmap"
)

// offsetProjector maps (x, y) onto (lon, lat) = (x/1000 - 83, y/1000 + 42)
// and fails for negative x.
var offsetProjector = ProjectorFunc(func(p types.PlanarPoint) (float64, float64, float64, bool) {
	if p.X < 0 {
		return 0, 0, p.Z, false
	}
	return p.X/1000 - 83, p.Y/1000 + 42, p.Z, true
})

func pl(xy ...float64) hdmap.Polyline {
	var out hdmap.Polyline
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, types.PlanarPoint{X: xy[i], Y: xy[i+1], Z: 1})
	}
	return out
}

func testMap() *hdmap.Map {
	return &hdmap.Map{
		LaneSegments: []hdmap.LaneSegment{
			{ID: "1", LaneType: "VEHICLE", LeftBoundary: pl(0, 0, 10, 10), RightBoundary: pl(0, 5, -1, 5),
				LeftMarkType: "SOLID_YELLOW", RightMarkType: "NONE"},
		},
		PedestrianCrossings: []hdmap.PedestrianCrossing{
			{ID: "7", Edge1: pl(1, 1, 2, 2), Edge2: pl(3, 3, 4, 4)},
		},
		DrivableAreas: []hdmap.DrivableArea{
			{ID: "9", Boundary: pl(0, 0, 10, 0, 10, 10)},
			{ID: "10", Boundary: pl(0, 0, -5, 0, 10, 10)},
		},
	}
}

func TestConverterMap(t *testing.T) {
	c := NewConverter(offsetProjector, AllLayers)
	fs := c.Map("test", "0123456789abcdef", testMap())

	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	want := []string{
		"test/01234567/L1/left",
		"test/01234567/C7/edge1",
		"test/01234567/C7/edge2",
		"test/01234567/A9",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, names)
	}
	if c.Stats.Lanes != 1 || c.Stats.Crossings != 1 || c.Stats.Areas != 1 {
		t.Errorf("unexpected stats %+v", c.Stats)
	}
	if c.Stats.Dropped != 2 {
		t.Errorf("Expected 2 dropped vertices, got %d", c.Stats.Dropped)
	}
	if fs[0].Style.LineWidth != 3 || fs[0].Style.LineColor != Yellow {
		t.Errorf("unexpected lane style %+v", fs[0].Style)
	}
	if got := fs[0].Coords[1]; math.Abs(got.Lon+82.99) > 1e-9 || math.Abs(got.Lat-42.01) > 1e-9 || got.Alt != 1 {
		t.Errorf("unexpected coord %+v", fs[0].Coords[1])
	}
	if fs[3].Kind != Polygon || fs[3].Style != DrivableStyle {
		t.Errorf("unexpected area feature %+v", fs[3])
	}
}

func TestConverterLayers(t *testing.T) {
	c := NewConverter(offsetProjector, Layers{Drivable: true})
	fs := c.Map("val", "abc", testMap())
	if len(fs) != 1 || fs[0].Name != "val/abc/A9" {
		t.Errorf("Expected only the drivable area, got %+v", fs)
	}
	if c.Stats.Lanes != 0 || c.Stats.Crossings != 0 {
		t.Errorf("disabled layers should not count: %+v", c.Stats)
	}
}

func TestFallbackProjector(t *testing.T) {
	never := ProjectorFunc(func(p types.PlanarPoint) (float64, float64, float64, bool) { return 0, 0, 0, false })
	p := FallbackProjector(never, offsetProjector)
	lon, _, _, ok := p.ToWGS84(types.PlanarPoint{X: 1000})
	if !ok || lon != -82 {
		t.Errorf("Expected fallback, got %v %v", lon, ok)
	}
	if _, _, _, ok := p.ToWGS84(types.PlanarPoint{X: -1}); ok {
		t.Error("Expected no projection")
	}
}

func TestReferenceProjector(t *testing.T) {
	ref := projection.Reference{CenterX: 100, CenterY: 200, Lat: 42.3314, Lon: -83.0458}
	lon, lat, alt, ok := ReferenceProjector(ref).ToWGS84(types.PlanarPoint{X: 100, Y: 200, Z: 50})
	if !ok || lon != -83.0458 || lat != 42.3314 || alt != 0 {
		t.Errorf("unexpected reference projection %v %v %v %v", lon, lat, alt, ok)
	}
}

func sampleDocument() *Document {
	d := NewDocument("Detroit HD Maps - Test - Part 1", "Detroit HD Maps for test split (Part 1)")
	c := NewConverter(offsetProjector, AllLayers)
	d.Add(c.Map("test", "log", testMap())...)
	d.AddFolder(Folder{Name: "Reference Points", Features: []Feature{
		PointFeature("Belle Isle", 42.3401, -82.9851, LandmarkStyle),
	}})
	return d
}

func TestWriteKML(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := WriteKML(buf, sampleDocument()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"<kml", "<Document>", "Detroit HD Maps - Test - Part 1",
		"test/log/L1/left", "<LineString>", "<Polygon>", "<LinearRing>",
		"<Folder>", "Belle Isle", "<Point>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("KML missing %q", want)
		}
	}
	if n := strings.Count(out, "<Placemark>"); n != 5 {
		t.Errorf("Expected 5 placemarks, got %d", n)
	}
}

func TestWriteGeoJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := WriteGeoJSON(buf, sampleDocument()); err != nil {
		t.Fatal(err)
	}
	var fc struct {
		Type     string `json:"type"`
		Name     string `json:"name"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Type != "FeatureCollection" || fc.Name != "Detroit HD Maps - Test - Part 1" {
		t.Errorf("unexpected collection header %s %s", fc.Type, fc.Name)
	}
	if len(fc.Features) != 5 {
		t.Fatalf("Expected 5 features, got %d", len(fc.Features))
	}
	if fc.Features[0].Properties["folder"] != "Reference Points" {
		t.Errorf("Expected folder features first, got %v", fc.Features[0].Properties)
	}
	var poly [][][2]float64
	for _, f := range fc.Features {
		if f.Geometry.Type == "Polygon" {
			if err := json.Unmarshal(f.Geometry.Coordinates, &poly); err != nil {
				t.Fatal(err)
			}
			if f.Properties["fill"] != "#add8e6" {
				t.Errorf("unexpected fill %v", f.Properties["fill"])
			}
		}
	}
	if len(poly) != 1 || len(poly[0]) != 4 || poly[0][0] != poly[0][3] {
		t.Errorf("polygon ring should be closed: %v", poly)
	}
}

func TestFormatWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{KML, GeoJSON} {
		path, err := f.WriteFile(dir, "detroit_hd_maps_summary", sampleDocument())
		if err != nil {
			t.Fatal(err)
		}
		if path != filepath.Join(dir, "detroit_hd_maps_summary"+f.Ext()) {
			t.Errorf("unexpected path %s", path)
		}
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Errorf("Expected non-empty %s: %v", path, err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("GeoJSON"); err != nil || f != GeoJSON {
		t.Errorf("Expected geojson, got %v %v", f, err)
	}
	if _, err := ParseFormat("shp"); err == nil {
		t.Error("Expected error")
	}
}

func TestChunker(t *testing.T) {
	c := NewChunker(3, func(part int) (string, string) {
		return "part", ""
	})
	unit := []Feature{{Name: "a"}, {Name: "b"}}
	for i := 0; i < 3; i++ {
		c.Next().Add(unit...)
	}
	docs := c.Documents()
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].Len() != 4 || docs[1].Len() != 2 {
		t.Errorf("Expected sizes [4 2], got [%d %d]", docs[0].Len(), docs[1].Len())
	}
}

func TestChunkerBoundary(t *testing.T) {
	c := NewChunker(2, func(part int) (string, string) { return "", "" })
	c.Next().Add(Feature{}, Feature{})
	if c.Next() == c.Documents()[0] {
		t.Error("a full document should start a new part")
	}
	c2 := NewChunker(3, func(part int) (string, string) { return "", "" })
	c2.Next().Add(Feature{}, Feature{})
	if c2.Next() != c2.Documents()[0] {
		t.Error("a document below the limit should be reused")
	}
}
