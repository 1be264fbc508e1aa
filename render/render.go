// Package render implements the drawing backends scene objects emit
// primitives to, plus triangle file IO.
package render

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Backend receives drawing primitives from scene objects. Slices passed
// to a Backend are only valid for the duration of the call; backends
// that buffer primitives must copy them.
type Backend interface {
	// Polygon emits a planar convex polygon. normals is either nil or
	// holds one normal per vertex.
	Polygon(vertices, normals []r3.Vec, m Material)
	// Lines emits independent segments with vertices taken in pairs.
	Lines(vertices []r3.Vec, m Material)
	// LineStrip emits a connected polyline.
	LineStrip(vertices []r3.Vec, m Material)
	// Points emits a point glyph per vertex.
	Points(vertices []r3.Vec, m Material)
	// Light registers light source id at position.
	Light(id uint32, position r3.Vec, m Material)
}

// Renderer is a source of triangles, such as Mesh.
type Renderer interface {
	ReadTriangles(dst []Triangle3) (int, error)
}

// Material describes how a primitive is shaded. Colors are RGBA.
type Material struct {
	Diffuse   [4]float32
	Ambient   [4]float32
	Specular  [4]float32
	Emission  [4]float32
	Shininess float32
	// Wireframe polygons are drawn as their outline.
	Wireframe bool
	// Transparent primitives are blended using the diffuse alpha.
	Transparent bool
}

// DefaultColor is used when a Material has no diffuse color set.
var DefaultColor = [4]float32{0.8, 0.8, 0.8, 1}

// RGBA returns the diffuse color, or DefaultColor if unset.
func (m Material) RGBA() [4]float32 {
	if m.Diffuse == ([4]float32{}) {
		return DefaultColor
	}
	c := m.Diffuse
	if !m.Transparent && c[3] == 0 {
		c[3] = 1
	}
	return c
}

// Shade returns a lambertian shaded color for a surface with unit normal n
// lit from the unit direction toLight. Two sided: back faces are lit as front faces.
func (m Material) Shade(n, toLight r3.Vec) [4]float32 {
	base := m.RGBA()
	ambient := m.Ambient
	if ambient == ([4]float32{}) {
		ambient = [4]float32{0.2, 0.2, 0.2, 1}
	}
	lambert := math32.Abs(float32(r3.Dot(n, toLight)))
	var c [4]float32
	for i := 0; i < 3; i++ {
		v := base[i]*(ambient[i]+lambert) + m.Emission[i]
		c[i] = math32.Min(1, math32.Max(0, v))
	}
	c[3] = base[3]
	return c
}

// Triangle3 is a triangle with optional per-vertex normals.
type Triangle3 struct {
	V [3]r3.Vec
	// N holds the vertex normals. Zero if unknown.
	N [3]r3.Vec
}

// Normal returns the face normal computed from the vertex winding.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two of the triangle's vertices are within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return closeWithin(t.V[0], t.V[1], tol) ||
		closeWithin(t.V[1], t.V[2], tol) ||
		closeWithin(t.V[2], t.V[0], tol)
}

func closeWithin(a, b r3.Vec, tol float64) bool {
	d := r3.Sub(a, b)
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= tol*tol
}

// fan triangulates a convex polygon around its first vertex.
func fan(dst []Triangle3, vertices, normals []r3.Vec) []Triangle3 {
	for i := 2; i < len(vertices); i++ {
		t := Triangle3{V: [3]r3.Vec{vertices[0], vertices[i-1], vertices[i]}}
		if len(normals) == len(vertices) {
			t.N = [3]r3.Vec{normals[0], normals[i-1], normals[i]}
		}
		dst = append(dst, t)
	}
	return dst
}
