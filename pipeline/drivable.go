package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rotblauer/av2kml/projection"
	"github.com/rotblauer/av2kml/render"
	"github.com/rotblauer/av2kml/types/hdmap"
)

// Drivable places the drivable areas of a single map file by pinning the
// centre of its vertices to a reference location, and writes the candidate
// placements for comparison.
type Drivable struct {
	MapFile string
	Out     Output

	Stats   hdmap.Stats
	Written []string
}

func NewDrivable(mapFile string, out Output) *Drivable {
	return &Drivable{MapFile: mapFile, Out: out}
}

func (d *Drivable) Run() error {
	d.Written = nil
	m, err := hdmap.ReadFile(d.MapFile)
	if err != nil {
		return err
	}
	if len(m.DrivableAreas) == 0 {
		return fmt.Errorf("%w: no drivable areas in %s", ErrNoInput, d.MapFile)
	}
	st, err := m.DrivableStats()
	if errors.Is(err, hdmap.ErrNoVertices) {
		return fmt.Errorf("%w: %v", ErrNoInput, err)
	}
	if err != nil {
		return err
	}
	d.Stats = st
	slog.Info("Drivable area coordinates", "areas", len(m.DrivableAreas), "vertices", st.Vertices,
		"x_min", st.X.Min, "x_max", st.X.Max, "y_min", st.Y.Min, "y_max", st.Y.Max,
		"x_span", st.X.Span, "y_span", st.Y.Span)

	ref := projection.Reference{
		Name:        "improved",
		Description: "Centered on downtown Detroit",
		CenterX:     st.X.Mean,
		CenterY:     st.Y.Mean,
		Lat:         projection.DowntownDetroit.Lat,
		Lon:         projection.DowntownDetroit.Lon,
	}
	if err := d.write("detroit_drivable_areas_improved", d.improved(m, ref)); err != nil {
		return err
	}
	for _, attempt := range projection.ReferenceAttempts(st.X.Mean, st.Y.Mean) {
		if err := d.write("detroit_attempt_"+attempt.Name, d.attempt(m, attempt)); err != nil {
			return err
		}
	}
	return nil
}

func (d *Drivable) write(base string, doc *render.Document) error {
	path, err := d.Out.Write(base, doc)
	if err != nil {
		return err
	}
	d.Written = append(d.Written, path)
	return nil
}

func (d *Drivable) improved(m *hdmap.Map, ref projection.Reference) *render.Document {
	doc := render.NewDocument("Detroit Drivable Areas - Improved",
		fmt.Sprintf("Argoverse 2 drivable areas placed with reference point (%.4f, %.4f)", ref.Lat, ref.Lon))
	conv := render.NewConverter(render.ReferenceProjector(ref), render.AllLayers)

	areas := render.Folder{Name: "Drivable Areas"}
	for _, da := range m.DrivableAreas {
		f, ok := conv.Area(da.Boundary, render.ReferenceAreaStyle)
		if !ok {
			continue
		}
		cx, cy := da.Boundary.Centroid()
		lat, lon := ref.ToWGS84(cx, cy)
		f.Name = "Area " + da.ID
		f.Description = fmt.Sprintf("Drivable area %s\nPoints: %d\nLocal center: (%.1f, %.1f)\nTransformed center: (%.6f, %.6f)",
			da.ID, len(da.Boundary), cx, cy, lat, lon)
		areas.Features = append(areas.Features, f)
	}
	doc.AddFolder(areas)

	landmarks := render.Folder{Name: "Reference Points"}
	for _, l := range projection.DetroitLandmarks {
		p := render.PointFeature(l.Name, l.Lat, l.Lon, render.LandmarkStyle)
		p.Description = fmt.Sprintf("Reference point: %s", l.Name)
		landmarks.Features = append(landmarks.Features, p)
	}
	doc.AddFolder(landmarks)
	return doc
}

func (d *Drivable) attempt(m *hdmap.Map, ref projection.Reference) *render.Document {
	doc := render.NewDocument("Detroit Attempt - "+ref.Name, ref.Description)
	conv := render.NewConverter(render.ReferenceProjector(ref), render.AllLayers)
	for _, da := range m.DrivableAreas {
		f, ok := conv.Area(da.Boundary, render.AttemptAreaStyle)
		if !ok {
			continue
		}
		f.Name = "Area " + da.ID
		f.Description = ref.Description
		doc.Add(f)
	}
	return doc
}
