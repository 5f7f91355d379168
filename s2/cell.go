// Package s2 counts points per S2 cell and draws the cells.
package s2

import (
	"sort"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// CellIDWithLevel returns the cellID truncated to the given level.
// https://docs.s2cell.aliddell.com/en/stable/s2_concepts.html#truncation
func CellIDWithLevel(cellID s2.CellID, level CellLevel) s2.CellID {
	var lsb uint64 = 1 << (2 * (30 - level))
	truncatedCellID := (uint64(cellID) & -lsb) | lsb
	return s2.CellID(truncatedCellID)
}

// CellIDForPointAtLevel returns the cell containing a (lon, lat) point.
func CellIDForPointAtLevel(pt orb.Point, level CellLevel) s2.CellID {
	leaf := s2.CellIDFromLatLng(s2.LatLngFromDegrees(pt.Lat(), pt.Lon()))
	return CellIDWithLevel(leaf, level)
}

// CellPolygon returns the closed (lon, lat) outline of a cell.
func CellPolygon(id s2.CellID) orb.Polygon {
	cell := s2.CellFromCellID(id)
	ring := make(orb.Ring, 0, 5)
	for i := 0; i < 4; i++ {
		ll := s2.LatLngFromPoint(cell.Vertex(i))
		ring = append(ring, orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()})
	}
	return orb.Polygon{append(ring, ring[0])}
}

// CellCount is one covered cell.
type CellCount struct {
	ID    s2.CellID
	Token string
	Count int
}

// Coverage counts points per cell at one level.
// It is not safe for concurrent use.
type Coverage struct {
	Level  CellLevel
	counts map[s2.CellID]int
}

func NewCoverage(level CellLevel) *Coverage {
	return &Coverage{Level: level, counts: make(map[s2.CellID]int)}
}

func (c *Coverage) Add(pt orb.Point) {
	c.counts[CellIDForPointAtLevel(pt, c.Level)]++
}

// Len is the number of distinct cells.
func (c *Coverage) Len() int {
	return len(c.counts)
}

// Cells returns every covered cell ordered by cell ID.
func (c *Coverage) Cells() []CellCount {
	out := make([]CellCount, 0, len(c.counts))
	for id, n := range c.counts {
		out = append(out, CellCount{ID: id, Token: id.ToToken(), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
