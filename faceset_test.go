package glscene

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/soypat/glscene/internal/d3"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-12

func vecEqual(a, b r3.Vec) bool { return d3.EqualWithin(a, b, tol) }

func TestFaceSetUnitSquare(t *testing.T) {
	fs := NewFaceSet(Buffer3D{
		Points: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Polys:  []int{4, 0, 1, 2, 3},
	}, Color{}, 0, 0)
	if fs.NumVertices() != 4 || fs.NumPolygons() != 1 {
		t.Fatalf("got %d vertices %d polygons, want 4 and 1", fs.NumVertices(), fs.NumPolygons())
	}
	for i := 0; i < 4; i++ {
		if n := fs.Normal(i); !vecEqual(n, r3.Vec{Z: 1}) {
			t.Errorf("normal %d: got %v, want +Z", i, n)
		}
	}
	want := NewBBox(0, 1, 0, 1, 0, 0)
	if fs.BBox() != want {
		t.Errorf("bbox got %v, want %v", fs.BBox().Data(), want.Data())
	}
}

func TestFaceSetSharedVertexNormals(t *testing.T) {
	// Two triangles sharing an edge, one in the z=0 plane and one in the
	// x=0 plane. Raw points 3 and 4 duplicate raw points 0 and 2.
	fs := NewFaceSet(Buffer3D{
		Points: []float64{
			0, 0, 0, 1, 0, 0, 0, 1, 0,
			0, 0, 0, 0, 1, 0, 0, 0, 1,
		},
		Polys: []int{3, 0, 1, 2, 3, 3, 4, 5},
	}, Color{}, 0, 0)
	if fs.NumVertices() != 4 {
		t.Fatalf("got %d unique vertices, want 4", fs.NumVertices())
	}
	wantDesc := []int{3, 0, 1, 2, 3, 0, 2, 3}
	if !intsEqual(fs.PolyDesc(), wantDesc) {
		t.Errorf("desc got %v, want %v", fs.PolyDesc(), wantDesc)
	}
	s := 1 / math.Sqrt2
	wantN := []r3.Vec{{X: s, Z: s}, {Z: 1}, {X: s, Z: s}, {X: 1}}
	for i, w := range wantN {
		if n := fs.Normal(i); !vecEqual(n, w) {
			t.Errorf("normal %d: got %v, want %v", i, n, w)
		}
	}
	if got := fs.Polygon(1); !intsEqual(got, []int{0, 2, 3}) {
		t.Errorf("polygon 1 got %v", got)
	}
}

func TestFaceSetTolerance(t *testing.T) {
	within := VertexTolerance / 10
	beyond := VertexTolerance * 10
	for _, test := range []struct {
		offset float64
		want   int
	}{
		{0, 3},
		{within, 3},
		{-within, 3},
		{beyond, 4},
	} {
		fs := NewFaceSet(Buffer3D{
			Points: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 1 + test.offset, test.offset, 0},
			Polys:  []int{3, 0, 1, 2, 3, 3, 2, 0},
		}, Color{}, 0, 0)
		if fs.NumVertices() != test.want {
			t.Errorf("offset %g: got %d vertices, want %d", test.offset, fs.NumVertices(), test.want)
		}
	}
}

func TestFaceSetIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	buf := randomMesh(rng, 300, 120)
	fs := NewFaceSet(buf, Color{}, 0, 0)
	again := NewFaceSet(Buffer3D{Points: fs.Vertices(), Polys: fs.PolyDesc()}, Color{}, 0, 0)
	if !floatsEqual(fs.Vertices(), again.Vertices()) {
		t.Error("vertices changed on rebuild")
	}
	if !intsEqual(fs.PolyDesc(), again.PolyDesc()) {
		t.Error("descriptors changed on rebuild")
	}
	if !floatsEqual(fs.Normals(), again.Normals()) {
		t.Error("normals changed on rebuild")
	}
}

func TestFaceSetMalformedPolygons(t *testing.T) {
	pts := []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}
	for _, test := range []struct {
		name           string
		polys          []int
		npols, dropped int
		desc           []int
	}{
		{"empty", nil, 0, 0, nil},
		{"truncated", []int{3, 0, 1, 2, 3, 0, 1}, 1, 0, []int{3, 0, 1, 2}},
		{"negative count", []int{-1, 0, 1, 2}, 0, 0, nil},
		{"out of range", []int{3, 0, 1, 9, 3, 2, 1, 0}, 1, 1, []int{3, 0, 1, 2}},
		{"negative index", []int{3, 0, -1, 2}, 0, 1, nil},
		{"closing repeat", []int{4, 0, 1, 2, 0}, 1, 0, []int{3, 0, 1, 2}},
		{"consecutive repeat", []int{5, 0, 1, 1, 1, 2}, 1, 0, []int{3, 0, 1, 2}},
	} {
		fs := NewFaceSet(Buffer3D{Points: pts, Polys: test.polys}, Color{}, 0, 0)
		if fs.NumPolygons() != test.npols || fs.Dropped() != test.dropped {
			t.Errorf("%s: got %d polygons %d dropped, want %d and %d", test.name, fs.NumPolygons(), fs.Dropped(), test.npols, test.dropped)
		}
		if !intsEqual(fs.PolyDesc(), test.desc) {
			t.Errorf("%s: desc got %v, want %v", test.name, fs.PolyDesc(), test.desc)
		}
	}
}

func TestFaceSetDegenerateNormal(t *testing.T) {
	fs := NewFaceSet(Buffer3D{
		Points: []float64{0, 0, 0, 1, 0, 0, 2, 0, 0},
		Polys:  []int{3, 0, 1, 2},
	}, Color{}, 0, 0)
	for i := 0; i < fs.NumVertices(); i++ {
		if n := fs.Normal(i); n != (r3.Vec{}) {
			t.Errorf("collinear polygon vertex %d got normal %v", i, n)
		}
	}
}

func TestCheckPointsMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const tolerance = 1e-3
	buf := randomMesh(rng, 2000, 900)
	unique, desc, _, _ := checkPoints(buf.Points, buf.Polys, tolerance)

	// Reference: first accepted vertex within tolerance wins.
	var wantUnique []float64
	remap := map[int]int{}
	var wantDesc []int
	for i := 0; i < len(buf.Polys); {
		n := buf.Polys[i]
		run := buf.Polys[i+1 : i+1+n]
		i += 1 + n
		wantDesc = append(wantDesc, 0)
		start := len(wantDesc) - 1
		for _, raw := range run {
			id, ok := remap[raw]
			if !ok {
				p := d3.At(buf.Points, raw)
				id = -1
				for j := 0; j < len(wantUnique)/3; j++ {
					if d3.EqualWithin(d3.At(wantUnique, j), p, tolerance) {
						id = j
						break
					}
				}
				if id < 0 {
					id = len(wantUnique) / 3
					wantUnique = append(wantUnique, p.X, p.Y, p.Z)
				}
				remap[raw] = id
			}
			if len(wantDesc) > start+1 && wantDesc[len(wantDesc)-1] == id {
				continue
			}
			wantDesc = append(wantDesc, id)
		}
		if len(wantDesc) > start+2 && wantDesc[start+1] == wantDesc[len(wantDesc)-1] {
			wantDesc = wantDesc[:len(wantDesc)-1]
		}
		wantDesc[start] = len(wantDesc) - start - 1
	}
	if !floatsEqual(unique, wantUnique) {
		t.Fatalf("got %d unique vertices, want %d", len(unique)/3, len(wantUnique)/3)
	}
	if !intsEqual(desc, wantDesc) {
		t.Error("descriptor mismatch against linear scan")
	}
}

func TestPointIndexRebuild(t *testing.T) {
	var idx pointIndex
	const n = 500
	for i := 0; i < n; i++ {
		p := r3.Vec{X: float64(i % 8), Y: float64(i / 8 % 8), Z: float64(i / 64)}
		if got := idx.find(p, VertexTolerance); got != -1 {
			t.Fatalf("point %d found as %d before insertion", i, got)
		}
		if id := idx.add(p); id != i {
			t.Fatalf("got id %d, want %d", id, i)
		}
	}
	if idx.tree == nil || idx.indexed < n/2 {
		t.Fatalf("tree not rebuilt: indexed %d of %d", idx.indexed, n)
	}
	for i := 0; i < n; i++ {
		p := r3.Vec{X: float64(i%8) + VertexTolerance/2, Y: float64(i / 8 % 8), Z: float64(i/64) - VertexTolerance/2}
		if got := idx.find(p, VertexTolerance); got != i {
			t.Errorf("find point %d: got %d", i, got)
		}
	}
}

func TestFaceSetShiftInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	fs := NewFaceSet(randomMesh(rng, 50, 20), Color{}, 0, 0)
	verts := append([]float64(nil), fs.Vertices()...)
	box := fs.BBox()
	fs.Shift(1.5, -2, 7)
	if fs.BBox() == box {
		t.Fatal("shift did not move bbox")
	}
	fs.Shift(-1.5, 2, -7)
	if !floatsWithin(fs.Vertices(), verts, 1e-12) {
		t.Error("shift and inverse shift changed vertices")
	}
	gd, bd := fs.BBox().Data(), box.Data()
	if !floatsWithin(gd[:], bd[:], 1e-12) {
		t.Error("shift and inverse shift changed bbox")
	}
}

func TestFaceSetStretchComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	fs := NewFaceSet(randomMesh(rng, 50, 20), Color{}, 0, 0)
	verts := append([]float64(nil), fs.Vertices()...)
	normals := append([]float64(nil), fs.Normals()...)
	box := fs.BBox()
	fs.Stretch(2, 4, 0.5)
	fs.Stretch(0.5, 0.25, 2)
	if !floatsWithin(fs.Vertices(), verts, 1e-9) {
		t.Error("stretch and inverse stretch changed vertices")
	}
	if !floatsWithin(fs.Normals(), normals, 1e-9) {
		t.Error("stretch and inverse stretch changed normals")
	}
	gd, bd := fs.BBox().Data(), box.Data()
	if !floatsWithin(gd[:], bd[:], 1e-9) {
		t.Error("stretch and inverse stretch changed bbox")
	}
}

func TestFaceSetStretchNormals(t *testing.T) {
	fs := NewFaceSet(Buffer3D{
		Points: []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		Polys:  []int{3, 0, 1, 2},
	}, Color{}, 0, 0)
	s := 1 / math.Sqrt(3)
	if n := fs.Normal(0); !vecEqual(n, r3.Vec{X: s, Y: s, Z: s}) {
		t.Fatalf("got normal %v", n)
	}
	fs.Stretch(2, 1, 1)
	want := r3.Vec{X: 1. / 3, Y: 2. / 3, Z: 2. / 3}
	for i := 0; i < 3; i++ {
		if n := fs.Normal(i); !vecEqual(n, want) {
			t.Errorf("normal %d after stretch: got %v, want %v", i, n, want)
		}
	}
	// Normals must match a mesh built from the stretched vertices.
	rebuilt := NewFaceSet(Buffer3D{Points: fs.Vertices(), Polys: fs.PolyDesc()}, Color{}, 0, 0)
	if !floatsWithin(fs.Normals(), rebuilt.Normals(), 1e-12) {
		t.Error("stretched normals differ from recomputed normals")
	}
}

func TestFaceSetStretchUniformComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	mesh := randomMesh(rng, 60, 30)
	twice := NewFaceSet(mesh, Color{}, 0, 0)
	once := NewFaceSet(mesh, Color{}, 0, 0)
	twice.Stretch(2, 2, 2)
	twice.Stretch(-1.5, -1.5, -1.5)
	once.Stretch(-3, -3, -3)
	if !floatsWithin(twice.Vertices(), once.Vertices(), 1e-9) {
		t.Error("composed stretch vertices differ from single stretch")
	}
	if !floatsWithin(twice.Normals(), once.Normals(), 1e-9) {
		t.Error("composed stretch normals differ from single stretch")
	}
	if !intsEqual(twice.PolyDesc(), once.PolyDesc()) {
		t.Error("composed stretch winding differs from single stretch")
	}
	gd, bd := twice.BBox().Data(), once.BBox().Data()
	if !floatsWithin(gd[:], bd[:], 1e-9) {
		t.Errorf("composed stretch bbox %v, want %v", gd, bd)
	}
}

func TestFaceSetNormalsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	fs := NewFaceSet(randomMesh(rng, 80, 60), Color{}, 0, 0)
	checkUnit := func(stage string) {
		t.Helper()
		nonzero := 0
		for i := 0; i < fs.NumVertices(); i++ {
			l := r3.Norm(fs.Normal(i))
			switch {
			case l == 0:
			case math.Abs(l-1) > 1e-12:
				t.Errorf("%s: normal %d has length %g", stage, i, l)
			default:
				nonzero++
			}
		}
		if nonzero == 0 {
			t.Fatalf("%s: no normals accumulated", stage)
		}
	}
	checkUnit("build")
	fs.Stretch(3, 0.2, 5)
	checkUnit("stretch")
	fs.Stretch(-1, 4, 0.5)
	checkUnit("mirror stretch")
}

func TestFaceSetStretchMirror(t *testing.T) {
	square := Buffer3D{
		Points: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Polys:  []int{4, 0, 1, 2, 3},
	}
	for _, scale := range []r3.Vec{
		{X: -1, Y: 1, Z: 1},
		{X: 1, Y: -2, Z: 1},
		{X: -1, Y: -1, Z: 1},
		{X: -1, Y: -1, Z: -1},
	} {
		fs := NewFaceSet(square, Color{}, 0, 0)
		fs.Stretch(scale.X, scale.Y, scale.Z)
		winding, ok := polygonNormal(fs.Vertices(), fs.Polygon(0))
		if !ok {
			t.Fatalf("scale %v: degenerate polygon", scale)
		}
		for i := 0; i < 4; i++ {
			if n := fs.Normal(i); !vecEqual(n, winding) {
				t.Errorf("scale %v: normal %d is %v, winding gives %v", scale, i, n, winding)
			}
		}
	}

	// Mirroring is orthogonal so stored normals must match a rebuild.
	rng := rand.New(rand.NewSource(7))
	fs := NewFaceSet(randomMesh(rng, 50, 40), Color{}, 0, 0)
	fs.Stretch(1, -1, 1)
	rebuilt := NewFaceSet(Buffer3D{Points: fs.Vertices(), Polys: fs.PolyDesc()}, Color{}, 0, 0)
	if !floatsWithin(fs.Normals(), rebuilt.Normals(), 1e-9) {
		t.Error("mirrored normals differ from recomputed normals")
	}
}

func TestFaceSetDraw(t *testing.T) {
	fs := NewFaceSet(Buffer3D{
		Points: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Polys:  []int{3, 0, 1, 2, 3, 0, 2, 3},
	}, RGBA(1, 0, 0, 1), 7, 42)
	var rec render.Recorder
	fs.Draw(&rec, nil)
	if rec.Count(render.PrimPolygon) != 2 || len(rec.Commands) != 2 {
		t.Fatalf("got %d commands, want 2 polygons", len(rec.Commands))
	}
	for _, c := range rec.Commands {
		if len(c.Vertices) != 3 || len(c.Normals) != 3 {
			t.Errorf("polygon with %d vertices and %d normals", len(c.Vertices), len(c.Normals))
		}
		if c.Material.Diffuse != [4]float32{1, 0, 0, 1} {
			t.Errorf("got diffuse %v", c.Material.Diffuse)
		}
	}
	rec.Reset()
	fs.Select(true)
	fs.Draw(&rec, nil)
	if rec.Count(render.PrimLines) != 1 {
		t.Error("selected faceset did not draw its bbox")
	}
	rec.Reset()
	fs.Select(false)
	fs.SetWireframe(true)
	fs.Draw(&rec, nil)
	if len(rec.Commands) != 2 || !rec.Commands[0].Material.Wireframe {
		t.Error("wireframe flag not passed to backend")
	}
	if fs.GLName() != 7 || fs.RealObject() != 42 {
		t.Error("identity not stored")
	}
}

func TestNewValidate(t *testing.T) {
	for _, test := range []struct {
		buf Buffer3D
		ok  bool
	}{
		{Buffer3D{}, true},
		{Buffer3D{Points: []float64{1, 2}}, false},
		{Buffer3D{Kind: KindSphere, Params: []float64{0, 0, 0, 1}}, false},
		{Buffer3D{Kind: KindSphere, Params: []float64{0, 0, 0, 1, 10}}, true},
		{Buffer3D{Kind: KindTube, Params: make([]float64, 9)}, true},
		{Buffer3D{Kind: KindTube, Params: make([]float64, 25)}, true},
		{Buffer3D{Kind: KindTube, Params: make([]float64, 12)}, false},
		{Buffer3D{Kind: Kind(99)}, false},
	} {
		obj, err := New(test.buf, Color{}, 0, 0)
		if test.ok && (err != nil || obj == nil) {
			t.Errorf("%v: unexpected error %v", test.buf.Kind, err)
		}
		if !test.ok && !errors.Is(err, ErrBadBuffer) {
			t.Errorf("%v: want ErrBadBuffer, got %v", test.buf.Kind, err)
		}
	}
}

func TestEmptyBuffer(t *testing.T) {
	for _, k := range []Kind{KindFaceSet, KindPolyMarker, KindPolyLine} {
		obj, err := New(Buffer3D{Kind: k}, Color{}, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		b := obj.Base()
		if b.NumVertices() != 0 || b.BBox() != (BBox{}) {
			t.Errorf("%v: empty buffer got %d vertices bbox %v", k, b.NumVertices(), b.BBox().Data())
		}
		var rec render.Recorder
		obj.Draw(&rec, nil)
		obj.Shift(1, 1, 1)
		obj.Stretch(2, 2, 2)
	}
}

// randomMesh returns a buffer of npts raw points where about a third
// are near duplicates of earlier points, and ntri triangles.
func randomMesh(rng *rand.Rand, npts, ntri int) Buffer3D {
	pts := make([]float64, 0, 3*npts)
	for i := 0; i < npts; i++ {
		if i > 0 && rng.Intn(3) == 0 {
			j := rng.Intn(i)
			p := d3.At(pts, j)
			jitter := func() float64 { return (rng.Float64() - 0.5) * 1e-4 }
			pts = append(pts, p.X+jitter(), p.Y+jitter(), p.Z+jitter())
			continue
		}
		pts = append(pts, rng.Float64()*10, rng.Float64()*10, rng.Float64()*10)
	}
	polys := make([]int, 0, 4*ntri)
	for i := 0; i < ntri; i++ {
		polys = append(polys, 3, rng.Intn(npts), rng.Intn(npts), rng.Intn(npts))
	}
	return Buffer3D{Points: pts, Polys: polys}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func floatsEqual(a, b []float64) bool { return floatsWithin(a, b, 0) }

func floatsWithin(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
