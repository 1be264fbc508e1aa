package d3

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestBoxEdges(t *testing.T) {
	b := Box{Min: r3.Vec{}, Max: r3.Vec{X: 1, Y: 2, Z: 3}}
	lengths := map[float64]int{}
	for _, e := range b.Edges() {
		lengths[r3.Norm(r3.Sub(e[1], e[0]))]++
	}
	for _, l := range []float64{1, 2, 3} {
		if lengths[l] != 4 {
			t.Errorf("want 4 edges of length %g, got %d", l, lengths[l])
		}
	}
}

func TestBoxScaleAboutCenter(t *testing.T) {
	b := Box{Min: r3.Vec{X: -1, Y: 0, Z: 2}, Max: r3.Vec{X: 1, Y: 4, Z: 4}}
	got := b.ScaleAboutCenter(r3.Vec{X: 2, Y: 0.5, Z: -1})
	want := Box{Min: r3.Vec{X: -2, Y: 1, Z: 2}, Max: r3.Vec{X: 2, Y: 3, Z: 4}}
	if !EqualWithin(got.Min, want.Min, 1e-12) || !EqualWithin(got.Max, want.Max, 1e-12) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSetBounds(t *testing.T) {
	if (Set{}).Bounds() != (Box{}) {
		t.Error("empty set should have zero box")
	}
	s := FromFlat([]float64{1, 2, 3, -1, 5, 0})
	got := s.Bounds()
	want := Box{Min: r3.Vec{X: -1, Y: 2, Z: 0}, Max: r3.Vec{X: 1, Y: 5, Z: 3}}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
