package glscene

import (
	"math"

	"github.com/soypat/glscene/internal/d3"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere divisions bounds.
const (
	DefaultDivisions = 20
	MaxDivisions     = 512
	minDivisions     = 3
)

// Sphere is an analytic sphere tessellated on draw. It keeps no
// vertex buffer.
type Sphere struct {
	SceneObject
	center r3.Vec
	radius float64
	ndiv   int
}

var _ Object = (*Sphere)(nil)

// NewSphere returns the sphere described by buf.Params: x, y, z, radius
// and number of divisions. Divisions below 3 use DefaultDivisions and
// divisions above MaxDivisions are clamped.
func NewSphere(buf Buffer3D, color Color, glName uint32, real RealObject) *Sphere {
	p := params(buf.Params, sphereParams)
	s := &Sphere{
		center: r3.Vec{X: p[0], Y: p[1], Z: p[2]},
		radius: math.Abs(p[3]),
		ndiv:   divisions(p[4]),
	}
	s.init(nil, color, glName, real)
	s.fitBBox()
	return s
}

func (s *Sphere) Center() r3.Vec  { return s.center }
func (s *Sphere) Radius() float64 { return s.radius }
func (s *Sphere) Divisions() int  { return s.ndiv }

func (s *Sphere) fitBBox() {
	s.bbox = bboxFromBox(d3.CenteredBox(s.center, d3.Elem(2*s.radius)))
}

func (s *Sphere) Draw(dst render.Backend, fr *render.Frustum) {
	if !s.visible(fr) {
		return
	}
	tessellateSphere(dst, s.center, s.radius, s.ndiv, s.material())
	s.drawSelection(dst)
}

// Shift translates the center.
func (s *Sphere) Shift(dx, dy, dz float64) {
	s.center = r3.Add(s.center, r3.Vec{X: dx, Y: dy, Z: dz})
	s.bbox.Shift(dx, dy, dz)
}

// Stretch scales the radius by the absolute mean of the three factors.
// The center is kept.
func (s *Sphere) Stretch(sx, sy, sz float64) {
	s.radius *= math.Abs(d3.Mean(r3.Vec{X: sx, Y: sy, Z: sz}))
	s.fitBBox()
}

func divisions(v float64) int {
	switch {
	case !(v >= minDivisions):
		return DefaultDivisions
	case v > MaxDivisions:
		return MaxDivisions
	}
	return int(v)
}

// tessellateSphere emits a latitude/longitude tessellation with ndiv
// stacks and ndiv slices. Pole rows are triangles, the rest quads,
// all wound counter-clockwise seen from outside.
func tessellateSphere(dst render.Backend, center r3.Vec, radius float64, ndiv int, m render.Material) {
	if radius == 0 {
		return
	}
	dir := func(stack, slice int) r3.Vec {
		theta := math.Pi * float64(stack) / float64(ndiv) // from +Z pole.
		phi := 2 * math.Pi * float64(slice) / float64(ndiv)
		st, ct := math.Sincos(theta)
		sp, cp := math.Sincos(phi)
		return r3.Vec{X: st * cp, Y: st * sp, Z: ct}
	}
	var vs, ns []r3.Vec
	for i := 0; i < ndiv; i++ {
		for j := 0; j < ndiv; j++ {
			ns = append(ns[:0], dir(i, j), dir(i+1, j), dir(i+1, j+1), dir(i, j+1))
			switch i {
			case 0:
				ns = append(ns[:1], ns[1:3]...) // North pole row.
			case ndiv - 1:
				ns = append(ns[:2], ns[3]) // South pole row.
			}
			vs = vs[:0]
			for _, n := range ns {
				vs = append(vs, r3.Add(center, r3.Scale(radius, n)))
			}
			dst.Polygon(vs, ns, m)
		}
	}
}
