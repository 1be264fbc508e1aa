package render

import (
	"github.com/fogleman/fauxgl"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures a perspective camera.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye r3.Vec
	// vertical field of view in degrees.
	FovY float64
	Near float64
	Far  float64
	// Aspect is width over height of the viewport.
	Aspect float64
}

// DefaultView looks at the origin from (3,3,3) with Z up.
var DefaultView = View{
	Up:     r3.Vec{Z: 1},
	Eye:    r3.Vec{X: 3, Y: 3, Z: 3},
	FovY:   30,
	Near:   1,
	Far:    10,
	Aspect: 16. / 9.,
}

// Frustum is the view volume of a View. It is passed to scene
// objects during a draw pass and must not be retained by them.
type Frustum struct {
	view   View
	matrix fauxgl.Matrix
}

// NewFrustum returns the frustum of v.
func NewFrustum(v View) *Frustum {
	if v.Aspect <= 0 {
		v.Aspect = 1
	}
	eye := fauxgl.V(v.Eye.X, v.Eye.Y, v.Eye.Z)
	center := fauxgl.V(v.LookAt.X, v.LookAt.Y, v.LookAt.Z)
	up := fauxgl.V(v.Up.X, v.Up.Y, v.Up.Z)
	return &Frustum{
		view:   v,
		matrix: fauxgl.LookAt(eye, center, up).Perspective(v.FovY, v.Aspect, v.Near, v.Far),
	}
}

// View returns the view the frustum was created with.
func (f *Frustum) View() View { return f.view }

// Matrix returns the combined view-projection matrix.
func (f *Frustum) Matrix() fauxgl.Matrix { return f.matrix }

// Clip returns the homogeneous clip space coordinates of p.
func (f *Frustum) Clip(p r3.Vec) fauxgl.VectorW {
	return f.matrix.MulPositionW(fauxgl.V(p.X, p.Y, p.Z))
}

// Visible reports whether any part of box may lie within the frustum.
// It returns false only when all eight corners lie outside the same
// clip plane. A nil Frustum sees everything.
func (f *Frustum) Visible(box r3.Box) bool {
	if f == nil {
		return true
	}
	var outside [6]int
	for i := 0; i < 8; i++ {
		p := box.Min
		if i&4 != 0 {
			p.X = box.Max.X
		}
		if i&2 != 0 {
			p.Y = box.Max.Y
		}
		if i&1 != 0 {
			p.Z = box.Max.Z
		}
		c := f.Clip(p)
		if c.X < -c.W {
			outside[0]++
		}
		if c.X > c.W {
			outside[1]++
		}
		if c.Y < -c.W {
			outside[2]++
		}
		if c.Y > c.W {
			outside[3]++
		}
		if c.Z < -c.W {
			outside[4]++
		}
		if c.Z > c.W {
			outside[5]++
		}
	}
	for _, n := range outside {
		if n == 8 {
			return false
		}
	}
	return true
}

// ToLight returns the unit direction from the view target toward position.
func (f *Frustum) ToLight(position r3.Vec) r3.Vec {
	d := r3.Sub(position, f.view.LookAt)
	if r3.Norm(d) == 0 {
		return r3.Unit(r3.Sub(f.view.Eye, f.view.LookAt))
	}
	return r3.Unit(d)
}
