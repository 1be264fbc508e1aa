package glscene

import (
	"github.com/soypat/glscene/internal/d3"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// VertexTolerance is the absolute per-coordinate tolerance under which
// raw FaceSet vertices are merged into one.
const VertexTolerance = 1e-10

// FaceSet is an indexed polygon mesh with smoothed per-vertex normals,
// built from a raw geometry buffer by merging coincident vertices.
type FaceSet struct {
	SceneObject
	// normals holds one unit normal per vertex as flattened xyz triples.
	// Vertices only used by degenerate polygons have a zero normal.
	normals []float64
	// polyDesc holds per polygon a vertex count followed by that many
	// indices into the deduplicated vertices.
	polyDesc []int
	nbPols   int
	dropped  int
}

var _ Object = (*FaceSet)(nil)

// NewFaceSet builds a FaceSet from the raw Points and Polys of buf.
// Descriptor decoding stops at a truncated polygon. Polygons referencing
// out-of-range vertices are dropped and counted by Dropped.
func NewFaceSet(buf Buffer3D, color Color, glName uint32, real RealObject) *FaceSet {
	fs := &FaceSet{}
	unique, desc, npols, dropped := checkPoints(buf.Points, buf.Polys, VertexTolerance)
	fs.init(unique, color, glName, real)
	fs.polyDesc = desc
	fs.nbPols = npols
	fs.dropped = dropped
	fs.calculateNormals()
	return fs
}

// NumPolygons returns the number of polygons kept.
func (fs *FaceSet) NumPolygons() int { return fs.nbPols }

// Dropped returns the number of polygons discarded during construction.
func (fs *FaceSet) Dropped() int { return fs.dropped }

// Normals returns the per-vertex normals as flattened xyz triples.
// The returned slice is owned by the FaceSet and must not be modified.
func (fs *FaceSet) Normals() []float64 { return fs.normals }

// Normal returns the normal of the ith vertex.
func (fs *FaceSet) Normal(i int) r3.Vec { return d3.At(fs.normals, i) }

// PolyDesc returns the polygon descriptors. The returned slice is owned
// by the FaceSet and must not be modified.
func (fs *FaceSet) PolyDesc() []int { return fs.polyDesc }

// Polygon returns the deduplicated vertex indices of the ith polygon.
func (fs *FaceSet) Polygon(i int) []int {
	var run []int
	fs.eachPolygon(func(j int, r []int) bool {
		if j == i {
			run = r
			return false
		}
		return true
	})
	return run
}

// eachPolygon calls fn with the index runs of each polygon in order
// until fn returns false.
func (fs *FaceSet) eachPolygon(fn func(i int, run []int) bool) {
	for i, j := 0, 0; j < len(fs.polyDesc); i++ {
		n := fs.polyDesc[j]
		run := fs.polyDesc[j+1 : j+1+n]
		j += 1 + n
		if !fn(i, run) {
			return
		}
	}
}

// Draw emits each polygon with its smoothed vertex normals.
func (fs *FaceSet) Draw(dst render.Backend, fr *render.Frustum) {
	if !fs.visible(fr) {
		return
	}
	m := fs.material()
	var vs, ns []r3.Vec
	fs.eachPolygon(func(_ int, run []int) bool {
		vs, ns = vs[:0], ns[:0]
		for _, idx := range run {
			vs = append(vs, d3.At(fs.vertices, idx))
			ns = append(ns, d3.At(fs.normals, idx))
		}
		dst.Polygon(vs, ns, m)
		return true
	})
	fs.drawSelection(dst)
}

// Stretch scales the vertices like SceneObject.Stretch and maps the
// normals through the inverse-transpose of the scale so they stay
// perpendicular to the surface under non-uniform stretch. A zero scale
// factor collapses the mesh and leaves normals unchanged. An odd number
// of negative factors mirrors the mesh and reverses polygon winding so
// it keeps agreeing with the normals.
func (fs *FaceSet) Stretch(sx, sy, sz float64) {
	fs.SceneObject.Stretch(sx, sy, sz)
	s := d3.ScaleTransform(r3.Vec{X: sx, Y: sy, Z: sz})
	nm := s.NormalMatrix()
	for i := 0; i < len(fs.normals)/3; i++ {
		n, ok := d3.Unit(nm.TransformDir(d3.At(fs.normals, i)), 0)
		if ok {
			d3.Put(fs.normals, i, n)
		}
	}
	if s.Det() < 0 {
		fs.eachPolygon(func(_ int, run []int) bool {
			for i, j := 0, len(run)-1; i < j; i, j = i+1, j-1 {
				run[i], run[j] = run[j], run[i]
			}
			return true
		})
	}
}

// calculateNormals accumulates the unit face normal of every polygon
// into each of its vertices and normalizes the sums. Polygons without
// three non-collinear vertices contribute nothing.
func (fs *FaceSet) calculateNormals() {
	fs.normals = make([]float64, len(fs.vertices))
	fs.eachPolygon(func(_ int, run []int) bool {
		n, ok := polygonNormal(fs.vertices, run)
		if !ok {
			return true
		}
		for _, idx := range run {
			d3.Put(fs.normals, idx, r3.Add(d3.At(fs.normals, idx), n))
		}
		return true
	})
	for i := 0; i < len(fs.normals)/3; i++ {
		n, _ := d3.Unit(d3.At(fs.normals, i), 0)
		d3.Put(fs.normals, i, n)
	}
}

// polygonNormal returns the unit normal of the first non-degenerate
// corner of the polygon, following its winding.
func polygonNormal(vertices []float64, run []int) (r3.Vec, bool) {
	if len(run) < 3 {
		return r3.Vec{}, false
	}
	v0 := d3.At(vertices, run[0])
	for j := 1; j < len(run)-1; j++ {
		e1 := r3.Sub(d3.At(vertices, run[j]), v0)
		if e1 == (r3.Vec{}) {
			continue
		}
		for k := j + 1; k < len(run); k++ {
			e2 := r3.Sub(d3.At(vertices, run[k]), v0)
			if n, ok := d3.Unit(r3.Cross(e1, e2), 0); ok {
				return n, true
			}
		}
	}
	return r3.Vec{}, false
}

// checkPoints decodes the raw polygon descriptors, merging referenced
// raw vertices that are within tol of an already accepted vertex on
// every coordinate. It returns the accepted vertices in order of first
// reference and descriptors rewritten to index them. Consecutive
// repeats of a vertex inside a polygon are collapsed.
func checkPoints(points []float64, polys []int, tol float64) (unique []float64, desc []int, npols, dropped int) {
	nraw := len(points) / 3
	remap := make([]int, nraw)
	for i := range remap {
		remap[i] = -1
	}
	var idx pointIndex
	for i := 0; i < len(polys); {
		n := polys[i]
		i++
		if n < 0 || n > len(polys)-i {
			break // Truncated descriptor.
		}
		run := polys[i : i+n]
		i += n
		if !inRange(run, nraw) {
			dropped++
			continue
		}
		start := len(desc)
		desc = append(desc, 0)
		for _, raw := range run {
			id := remap[raw]
			if id < 0 {
				p := d3.At(points, raw)
				id = idx.find(p, tol)
				if id < 0 {
					id = idx.add(p)
					unique = append(unique, p.X, p.Y, p.Z)
				}
				remap[raw] = id
			}
			if len(desc) > start+1 && desc[len(desc)-1] == id {
				continue
			}
			desc = append(desc, id)
		}
		if len(desc) > start+2 && desc[start+1] == desc[len(desc)-1] {
			desc = desc[:len(desc)-1] // Closing vertex repeats the first.
		}
		desc[start] = len(desc) - start - 1
		npols++
	}
	return unique, desc, npols, dropped
}

func inRange(run []int, n int) bool {
	for _, v := range run {
		if v < 0 || v >= n {
			return false
		}
	}
	return true
}
