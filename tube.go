package glscene

import (
	"math"

	"github.com/soypat/glscene/internal/d3"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tube is a possibly conical tube segment along its local Z axis,
// tessellated on draw. At z=-dz its radii are rmin1 and rmax1 and at
// z=+dz they are rmin2 and rmax2. A zero inner radius draws a solid cone.
type Tube struct {
	SceneObject
	center       r3.Vec
	rmin1, rmax1 float64
	rmin2, rmax2 float64
	dz           float64
	ndiv         int
	// rot maps local coordinates to scene coordinates without translation.
	rot d3.Transform
	// inv is set when rot mirrors, so winding must be reversed.
	inv bool
}

var _ Object = (*Tube)(nil)

// NewTube returns the tube described by buf.Params: x, y, z, rmin1,
// rmax1, rmin2, rmax2, dz, divisions and optionally a 16 value
// column-major rotation matrix.
func NewTube(buf Buffer3D, color Color, glName uint32, real RealObject) *Tube {
	p := params(buf.Params, tubeParams)
	t := &Tube{
		center: r3.Vec{X: p[0], Y: p[1], Z: p[2]},
		rmin1:  math.Abs(p[3]),
		rmax1:  math.Abs(p[4]),
		rmin2:  math.Abs(p[5]),
		rmax2:  math.Abs(p[6]),
		dz:     math.Abs(p[7]),
		ndiv:   divisions(p[8]),
	}
	if len(buf.Params) >= tubeParams+rotParams {
		var m [16]float64
		copy(m[:], buf.Params[tubeParams:])
		t.rot = d3.FromGL(m)
		t.rot = t.rot.Translate(r3.Scale(-1, t.rot.Translation()))
	}
	t.inv = t.rot.Det() < 0
	t.init(nil, color, glName, real)
	t.fitBBox()
	return t
}

func (t *Tube) Center() r3.Vec { return t.center }

// Radii returns rmin1, rmax1, rmin2 and rmax2.
func (t *Tube) Radii() [4]float64 { return [4]float64{t.rmin1, t.rmax1, t.rmin2, t.rmax2} }

// HalfLength returns the half length along the local Z axis.
func (t *Tube) HalfLength() float64 { return t.dz }

func (t *Tube) Divisions() int { return t.ndiv }

// Mirrored reports whether the rotation matrix has negative determinant.
func (t *Tube) Mirrored() bool { return t.inv }

// local returns the map from local tube coordinates to the scene.
func (t *Tube) local() d3.Transform { return d3.Transform{}.Translate(t.center).Mul(t.rot) }

func (t *Tube) fitBBox() {
	r := math.Max(t.rmax1, t.rmax2)
	local := d3.CenteredBox(r3.Vec{}, r3.Vec{X: 2 * r, Y: 2 * r, Z: 2 * t.dz})
	m := t.local()
	corners := local.Vertices()
	for i := range corners {
		corners[i] = m.Transform(corners[i])
	}
	t.bbox = bboxFromBox(corners.Bounds())
}

// Shift translates the center.
func (t *Tube) Shift(dx, dy, dz float64) {
	t.center = r3.Add(t.center, r3.Vec{X: dx, Y: dy, Z: dz})
	t.bbox.Shift(dx, dy, dz)
}

func (t *Tube) Draw(dst render.Backend, fr *render.Frustum) {
	if !t.visible(fr) {
		return
	}
	m := t.material()
	tr := t.local()
	nm := tr.NormalMatrix()
	var vs, ns [4]r3.Vec
	emit := func(localV, localN [4]r3.Vec, n int) {
		for i := 0; i < n; i++ {
			vs[i] = tr.Transform(localV[i])
			ns[i], _ = d3.Unit(nm.TransformDir(localN[i]), 0)
		}
		if t.inv {
			for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
				vs[i], vs[j] = vs[j], vs[i]
				ns[i], ns[j] = ns[j], ns[i]
			}
		}
		dst.Polygon(vs[:n], ns[:n], m)
	}
	for j := 0; j < t.ndiv; j++ {
		s0, c0 := math.Sincos(2 * math.Pi * float64(j) / float64(t.ndiv))
		s1, c1 := math.Sincos(2 * math.Pi * float64(j+1) / float64(t.ndiv))
		ring := func(r, z float64, s, c float64) r3.Vec { return r3.Vec{X: r * c, Y: r * s, Z: z} }
		// Outer surface, normals point away from the axis.
		emit([4]r3.Vec{
			ring(t.rmax1, -t.dz, s0, c0), ring(t.rmax1, -t.dz, s1, c1),
			ring(t.rmax2, t.dz, s1, c1), ring(t.rmax2, t.dz, s0, c0),
		}, [4]r3.Vec{
			coneNormal(t.rmax1, t.rmax2, t.dz, s0, c0), coneNormal(t.rmax1, t.rmax2, t.dz, s1, c1),
			coneNormal(t.rmax1, t.rmax2, t.dz, s1, c1), coneNormal(t.rmax1, t.rmax2, t.dz, s0, c0),
		}, 4)
		if t.rmin1 > 0 || t.rmin2 > 0 {
			// Inner surface, normals point toward the axis.
			emit([4]r3.Vec{
				ring(t.rmin1, -t.dz, s0, c0), ring(t.rmin2, t.dz, s0, c0),
				ring(t.rmin2, t.dz, s1, c1), ring(t.rmin1, -t.dz, s1, c1),
			}, [4]r3.Vec{
				r3.Scale(-1, coneNormal(t.rmin1, t.rmin2, t.dz, s0, c0)), r3.Scale(-1, coneNormal(t.rmin1, t.rmin2, t.dz, s0, c0)),
				r3.Scale(-1, coneNormal(t.rmin1, t.rmin2, t.dz, s1, c1)), r3.Scale(-1, coneNormal(t.rmin1, t.rmin2, t.dz, s1, c1)),
			}, 4)
		}
		up, down := r3.Vec{Z: 1}, r3.Vec{Z: -1}
		emit([4]r3.Vec{
			ring(t.rmin2, t.dz, s0, c0), ring(t.rmax2, t.dz, s0, c0),
			ring(t.rmax2, t.dz, s1, c1), ring(t.rmin2, t.dz, s1, c1),
		}, [4]r3.Vec{up, up, up, up}, capSides(t.rmin2))
		emit([4]r3.Vec{
			ring(t.rmin1, -t.dz, s1, c1), ring(t.rmax1, -t.dz, s1, c1),
			ring(t.rmax1, -t.dz, s0, c0), ring(t.rmin1, -t.dz, s0, c0),
		}, [4]r3.Vec{down, down, down, down}, capSides(t.rmin1))
	}
	t.drawSelection(dst)
}

// capSides returns 3 for caps of solid cones where the inner ring
// collapses to the axis.
func capSides(rmin float64) int {
	if rmin == 0 {
		return 3
	}
	return 4
}

// coneNormal is the outward unit normal of the lateral surface of a
// truncated cone with radii r1 at -dz and r2 at +dz.
func coneNormal(r1, r2, dz, s, c float64) r3.Vec {
	n := r3.Vec{X: 2 * dz * c, Y: 2 * dz * s, Z: r1 - r2}
	u, ok := d3.Unit(n, 0)
	if !ok {
		return r3.Vec{X: c, Y: s}
	}
	return u
}
