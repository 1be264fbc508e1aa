package glscene

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestColorMaterial(t *testing.T) {
	if (Color{}).IsSet() {
		t.Error("zero color reported set")
	}
	c := RGBA(2, 0.5, -1, 0.25).
		WithSpecular([4]float32{1, 1, 1, 1}, 300).
		WithEmission([4]float32{0.1, 0, 0, 1})
	if !c.IsSet() {
		t.Error("color not set")
	}
	if got := c.Diffuse(); got != [4]float32{1, 0.5, 0, 0.25} {
		t.Errorf("diffuse not clamped: %v", got)
	}
	if got := c.Ambient(); got != [4]float32{0.2, 0.1, 0, 0.25} {
		t.Errorf("ambient got %v", got)
	}
	if c.Shininess() != maxShininess {
		t.Errorf("shininess not clamped: %g", c.Shininess())
	}
	m := c.Material()
	if !m.Transparent || m.Specular != c.Specular() || m.Emission != c.Emission() || m.Shininess != maxShininess {
		t.Errorf("material %+v", m)
	}
	if RGBA(1, 1, 1, 1).Material().Transparent || RGBA(1, 1, 1, 0).Material().Transparent {
		t.Error("opaque and zero alpha colors must not be transparent")
	}
}

func TestBBoxData(t *testing.T) {
	data := [6]float64{-1, 1, -2, 2, -3, 3}
	b := BBoxFromData(data)
	if b.Data() != data || b.RangeY() != [2]float64{-2, 2} || b.RangeZ() != [2]float64{-3, 3} {
		t.Errorf("got %v", b.Data())
	}
	b.SetBBox(0, 1, 0, 1, 0, 1)
	if b.Center() != (r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("center got %v", b.Center())
	}
	b.SetData(data)
	if b.RangeX() != [2]float64{-1, 1} {
		t.Errorf("SetData got %v", b.Data())
	}
}
