package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// Mesh is a Backend that triangulates filled polygons into a triangle list.
// Wireframe polygons, lines, points and lights carry no surface and are
// only counted. Mesh implements Renderer so its output can be written with
// CreateSTL; reading consumes the buffered triangles.
type Mesh struct {
	buf     []Triangle3
	skipped int
}

var (
	_ Backend  = (*Mesh)(nil)
	_ Renderer = (*Mesh)(nil)
)

func (m *Mesh) Polygon(vertices, normals []r3.Vec, mat Material) {
	if mat.Wireframe || len(vertices) < 3 {
		m.skipped++
		return
	}
	m.buf = fan(m.buf, vertices, normals)
}

func (m *Mesh) Lines(vertices []r3.Vec, _ Material)     { m.skipped++ }
func (m *Mesh) LineStrip(vertices []r3.Vec, _ Material) { m.skipped++ }
func (m *Mesh) Points(vertices []r3.Vec, _ Material)    { m.skipped++ }
func (m *Mesh) Light(uint32, r3.Vec, Material)          {}

// Triangles returns the buffered triangles without consuming them.
func (m *Mesh) Triangles() []Triangle3 { return m.buf }

// Len returns the number of buffered triangles.
func (m *Mesh) Len() int { return len(m.buf) }

// Skipped returns the number of primitives that produced no triangles.
func (m *Mesh) Skipped() int { return m.skipped }

// ReadTriangles moves buffered triangles into dst.
func (m *Mesh) ReadTriangles(dst []Triangle3) (int, error) {
	if len(m.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(dst, m.buf)
	m.buf = m.buf[n:]
	return n, nil
}
