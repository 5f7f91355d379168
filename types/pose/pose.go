// Package pose reads ego-vehicle poses from city_SE3_egovehicle.feather.
package pose

import (
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/rotblauer/av2kml/types"
)

const (
	ColumnTimestamp = "timestamp_ns"
	ColumnX         = "tx_m"
	ColumnY         = "ty_m"
	ColumnZ         = "tz_m"
)

var ErrMissingColumn = errors.New("missing column")

// Pose is the translation of one ego pose in the city frame.
type Pose struct {
	TimestampNS int64
	types.PlanarPoint
}

// ReadFeather reads every row of an Arrow IPC (feather v2) pose file.
// timestamp_ns is optional; the translation columns must be float64.
func ReadFeather(path string) ([]Pose, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer r.Close()

	schema := r.Schema()
	ix, err := columnIndex(schema, ColumnX)
	if err != nil {
		return nil, err
	}
	iy, err := columnIndex(schema, ColumnY)
	if err != nil {
		return nil, err
	}
	iz, err := columnIndex(schema, ColumnZ)
	if err != nil {
		return nil, err
	}
	its := -1
	if idx := schema.FieldIndices(ColumnTimestamp); len(idx) > 0 {
		its = idx[0]
	}

	var out []Pose
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i, err)
		}
		xs, xok := rec.Column(ix).(*array.Float64)
		ys, yok := rec.Column(iy).(*array.Float64)
		zs, zok := rec.Column(iz).(*array.Float64)
		if !xok || !yok || !zok {
			return nil, fmt.Errorf("%s: translation columns must be float64", path)
		}
		var ts *array.Int64
		if its >= 0 {
			ts, _ = rec.Column(its).(*array.Int64)
		}
		for j := 0; j < int(rec.NumRows()); j++ {
			p := Pose{PlanarPoint: types.PlanarPoint{X: xs.Value(j), Y: ys.Value(j), Z: zs.Value(j)}}
			if ts != nil {
				p.TimestampNS = ts.Value(j)
			}
			out = append(out, p)
		}
	}
	return out, nil
}

func columnIndex(schema *arrow.Schema, name string) (int, error) {
	idx := schema.FieldIndices(name)
	if len(idx) == 0 {
		return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return idx[0], nil
}

// Points drops timestamps.
func Points(poses []Pose) []types.PlanarPoint {
	out := make([]types.PlanarPoint, len(poses))
	for i, p := range poses {
		out[i] = p.PlanarPoint
	}
	return out
}
