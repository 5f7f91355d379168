package hdmap

import (
	"errors"

	"github.com/montanaflynn/stats"
)

var ErrNoVertices = errors.New("no drivable area vertices")

// AxisStats summarizes one coordinate axis.
type AxisStats struct {
	Min, Max, Mean, Span float64
}

// Stats summarizes the drivable-area vertices of a map.
type Stats struct {
	X, Y     AxisStats
	Vertices int
}

// DrivableStats computes coordinate statistics over every drivable-area
// boundary vertex.
func (m *Map) DrivableStats() (Stats, error) {
	var xs, ys []float64
	for _, da := range m.DrivableAreas {
		for _, p := range da.Boundary {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}
	if len(xs) == 0 {
		return Stats{}, ErrNoVertices
	}
	x, err := axisStats(xs)
	if err != nil {
		return Stats{}, err
	}
	y, err := axisStats(ys)
	if err != nil {
		return Stats{}, err
	}
	return Stats{X: x, Y: y, Vertices: len(xs)}, nil
}

func axisStats(data []float64) (AxisStats, error) {
	d := stats.Float64Data(data)
	minV, err := d.Min()
	if err != nil {
		return AxisStats{}, err
	}
	maxV, err := d.Max()
	if err != nil {
		return AxisStats{}, err
	}
	mean, err := d.Mean()
	if err != nil {
		return AxisStats{}, err
	}
	return AxisStats{Min: minV, Max: maxV, Mean: mean, Span: maxV - minV}, nil
}

// Centroid is the vertex mean of a polyline.
func (p Polyline) Centroid() (x, y float64) {
	if len(p) == 0 {
		return 0, 0
	}
	for _, v := range p {
		x += v.X
		y += v.Y
	}
	n := float64(len(p))
	return x / n, y / n
}
