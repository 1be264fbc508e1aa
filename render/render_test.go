package render_test

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

const imgDelta = 0.01

func TestMaterialRGBA(t *testing.T) {
	if got := (render.Material{}).RGBA(); got != render.DefaultColor {
		t.Errorf("unset material got %v", got)
	}
	if got := (render.Material{Diffuse: [4]float32{1, 0, 0, 0}}).RGBA(); got[3] != 1 {
		t.Errorf("opaque material with zero alpha got %v", got)
	}
	if got := (render.Material{Diffuse: [4]float32{1, 0, 0, 0.5}, Transparent: true}).RGBA(); got[3] != 0.5 {
		t.Errorf("transparent material got %v", got)
	}
	m := render.Material{Diffuse: [4]float32{1, 1, 1, 1}, Ambient: [4]float32{0.1, 0.1, 0.1, 1}}
	front := m.Shade(r3.Vec{Z: 1}, r3.Vec{Z: 1})
	back := m.Shade(r3.Vec{Z: -1}, r3.Vec{Z: 1})
	side := m.Shade(r3.Vec{X: 1}, r3.Vec{Z: 1})
	if front != back || front[0] != 1 {
		t.Errorf("two sided shading: front %v back %v", front, back)
	}
	if side[0] > 0.11 {
		t.Errorf("grazing light should leave ambient only, got %v", side)
	}
}

func TestFrustumVisible(t *testing.T) {
	fr := render.NewFrustum(render.DefaultView)
	unit := r3.Box{Min: r3.Vec{X: -0.5, Y: -0.5, Z: -0.5}, Max: r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}}
	if !fr.Visible(unit) {
		t.Error("box at look-at point not visible")
	}
	far := r3.Box{Min: r3.Vec{X: -21, Y: -21, Z: -21}, Max: r3.Vec{X: -19, Y: -19, Z: -19}}
	if fr.Visible(far) {
		t.Error("box beyond far plane visible")
	}
	side := r3.Box{Min: r3.Vec{X: 5, Y: -8, Z: 0}, Max: r3.Vec{X: 6, Y: -7, Z: 1}}
	if fr.Visible(side) {
		t.Error("box outside side plane visible")
	}
	var nilFr *render.Frustum
	if !nilFr.Visible(far) {
		t.Error("nil frustum should see everything")
	}
	c := fr.Clip(r3.Vec{})
	if c.W <= 0 || math.Abs(c.X/c.W) > 1e-9 || math.Abs(c.Y/c.W) > 1e-9 {
		t.Errorf("look-at point not centered: %+v", c)
	}
}

func drawScene(dst render.Backend, offset r3.Vec) {
	red := render.Material{Diffuse: [4]float32{1, 0, 0, 1}}
	glass := render.Material{Diffuse: [4]float32{0, 0, 1, 0.5}, Transparent: true}
	shift := func(vs ...r3.Vec) []r3.Vec {
		for i := range vs {
			vs[i] = r3.Add(vs[i], offset)
		}
		return vs
	}
	dst.Light(0, r3.Vec{X: 5, Y: 5, Z: 10}, render.Material{})
	dst.Polygon(shift(r3.Vec{X: -1, Y: -1}, r3.Vec{X: 1, Y: -1}, r3.Vec{X: 1, Y: 1}, r3.Vec{X: -1, Y: 1}), nil, red)
	dst.Polygon(shift(r3.Vec{X: -0.5, Z: 0.5}, r3.Vec{X: 0.5, Z: 0.5}, r3.Vec{Z: 1.2}), nil, glass)
	dst.LineStrip(shift(r3.Vec{X: -1, Y: -1, Z: 0.1}, r3.Vec{X: 1, Y: 1, Z: 0.1}), render.Material{})
	dst.Points(shift(r3.Vec{Z: 1.5}), render.Material{Diffuse: [4]float32{0, 0, 0, 1}})
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func TestRasterReplay(t *testing.T) {
	const width, height = 160, 90
	fr := render.NewFrustum(render.DefaultView)

	direct := render.NewRaster(fr, width, height, 2)
	drawScene(direct, r3.Vec{})
	img := direct.Image()
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		t.Fatalf("got image bounds %v", b)
	}

	var rec render.Recorder
	drawScene(&rec, r3.Vec{})
	if rec.Count(render.PrimPolygon) != 2 || rec.Count(render.PrimLight) != 1 {
		t.Fatalf("recorded %d commands", len(rec.Commands))
	}
	replayed := render.NewRaster(fr, width, height, 2)
	rec.Replay(replayed)

	equal, err := cmpimg.EqualApprox("png", encodePNG(t, img), encodePNG(t, replayed.Image()), imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("replayed recording differs from direct drawing")
	}

	shifted := render.NewRaster(fr, width, height, 2)
	drawScene(shifted, r3.Vec{X: 1})
	equal, err = cmpimg.EqualApprox("png", encodePNG(t, img), encodePNG(t, shifted.Image()), imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if equal {
		t.Error("shifted scene rendered the same image")
	}

	direct.Reset()
	empty := render.NewRaster(fr, width, height, 2)
	equal, err = cmpimg.EqualApprox("png", encodePNG(t, direct.Image()), encodePNG(t, empty.Image()), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("reset raster is not blank")
	}

	noView := render.NewRaster(nil, width, height, 2)
	drawScene(noView, r3.Vec{})
	equal, err = cmpimg.EqualApprox("png", encodePNG(t, img), encodePNG(t, noView.Image()), imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("nil frustum raster differs from default view raster")
	}
}
