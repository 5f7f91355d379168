package dedupe

import (
	"testing"
)

type element struct {
	Name   string `hash:"ignore"`
	Coords [][2]float64
}

func TestNewPassLRUFunc(t *testing.T) {
	pass := NewPassLRUFunc(10)
	a := element{Name: "test/aaaaaaaa/L1/left", Coords: [][2]float64{{1, 2}, {3, 4}}}
	b := element{Name: "test/bbbbbbbb/L1/left", Coords: [][2]float64{{1, 2}, {3, 4}}}
	c := element{Name: "test/bbbbbbbb/L2/left", Coords: [][2]float64{{5, 6}, {7, 8}}}

	if !pass(a) {
		t.Error("first sighting should pass")
	}
	if pass(b) {
		t.Error("same geometry under another name should be dropped")
	}
	if !pass(c) {
		t.Error("different geometry should pass")
	}
}

func TestNewPassLRUFuncEviction(t *testing.T) {
	pass := NewPassLRUFunc(1)
	if !pass(1) || !pass(2) {
		t.Fatal("distinct values should pass")
	}
	if !pass(1) {
		t.Error("evicted value should pass again")
	}
}

func TestFilter(t *testing.T) {
	in := []element{
		{Name: "a", Coords: [][2]float64{{1, 1}}},
		{Name: "b", Coords: [][2]float64{{1, 1}}},
		{Name: "c", Coords: [][2]float64{{2, 2}}},
	}
	out := Filter(in, NewPassLRUFunc(100))
	if len(out) != 2 || out[0].Name != "a" || out[1].Name != "c" {
		t.Errorf("Expected [a c], got %+v", out)
	}
	if in[1].Name != "b" {
		t.Error("Filter must not modify its input")
	}
}
