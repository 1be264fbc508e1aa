package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform represents a 3D affine transformation: a 3x3 linear part
// followed by a translation. The projective row of a 4x4 matrix is
// always (0,0,0,1) and is not stored.
// The zero value of Transform is the identity transform.
type Transform struct {
	// in order to make the zero value of Transform represent the identity
	// transform we store it with the identity matrix subtracted.
	// These diagonal elements are subtracted such that
	//  d00 = x00-1, d11 = x11-1, d22 = x22-1
	d00, x01, x02, x03 float64
	x10, d11, x12, x13 float64
	x20, x21, d22, x23 float64
}

// zeroTransform maps every point to the origin.
var zeroTransform = Transform{d00: -1, d11: -1, d22: -1}

// FromGL returns the Transform for a 4x4 matrix stored in OpenGL
// column-major order, as passed to glMultMatrixd.
func FromGL(m [16]float64) Transform {
	return Transform{
		d00: m[0] - 1, x01: m[4], x02: m[8], x03: m[12],
		x10: m[1], d11: m[5] - 1, x12: m[9], x13: m[13],
		x20: m[2], x21: m[6], d22: m[10] - 1, x23: m[14],
	}
}

// ScaleTransform returns a transform scaling each axis about the origin.
func ScaleTransform(factor r3.Vec) Transform {
	return Transform{d00: factor.X - 1, d11: factor.Y - 1, d22: factor.Z - 1}
}

// Transform applies the Transform to the argument point.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	return r3.Add(t.TransformDir(v), r3.Vec{X: t.x03, Y: t.x13, Z: t.x23})
}

// TransformDir applies the linear part of the Transform to a direction.
// Translation does not affect directions.
func (t Transform) TransformDir(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z,
	}
}

// Translate adds v to the translation of the Transform.
func (t Transform) Translate(v r3.Vec) Transform {
	t.x03 += v.X
	t.x13 += v.Y
	t.x23 += v.Z
	return t
}

// Translation returns the translation of the Transform.
func (t Transform) Translation() r3.Vec {
	return r3.Vec{X: t.x03, Y: t.x13, Z: t.x23}
}

// Mul returns the transform equivalent to applying b first and then t.
func (t Transform) Mul(b Transform) Transform {
	if t == (Transform{}) {
		return b
	}
	if b == (Transform{}) {
		return t
	}
	x00, x11, x22 := t.d00+1, t.d11+1, t.d22+1
	y00, y11, y22 := b.d00+1, b.d11+1, b.d22+1
	var m Transform
	m.d00 = x00*y00 + t.x01*b.x10 + t.x02*b.x20 - 1
	m.x01 = x00*b.x01 + t.x01*y11 + t.x02*b.x21
	m.x02 = x00*b.x02 + t.x01*b.x12 + t.x02*y22
	m.x03 = x00*b.x03 + t.x01*b.x13 + t.x02*b.x23 + t.x03

	m.x10 = t.x10*y00 + x11*b.x10 + t.x12*b.x20
	m.d11 = t.x10*b.x01 + x11*y11 + t.x12*b.x21 - 1
	m.x12 = t.x10*b.x02 + x11*b.x12 + t.x12*y22
	m.x13 = t.x10*b.x03 + x11*b.x13 + t.x12*b.x23 + t.x13

	m.x20 = t.x20*y00 + t.x21*b.x10 + x22*b.x20
	m.x21 = t.x20*b.x01 + t.x21*y11 + x22*b.x21
	m.d22 = t.x20*b.x02 + t.x21*b.x12 + x22*y22 - 1
	m.x23 = t.x20*b.x03 + t.x21*b.x13 + x22*b.x23 + t.x23
	return m
}

// Det returns the determinant of the linear part of the Transform.
// A negative determinant means the Transform flips handedness.
func (t Transform) Det() float64 {
	x00, x11, x22 := t.d00+1, t.d11+1, t.d22+1
	return x00*(x11*x22-t.x12*t.x21) -
		t.x01*(t.x10*x22-t.x12*t.x20) +
		t.x02*(t.x10*t.x21-x11*t.x20)
}

// Inv returns the inverse of the transform such that
// t.Inv().Mul(t) is the identity Transform.
// If the linear part is singular then Inv returns the zero transform.
func (t Transform) Inv() Transform {
	if t == (Transform{}) {
		return t
	}
	det := t.Det()
	if math.Abs(det) < 1e-16 {
		return zeroTransform
	}
	d := 1 / det
	x00, x11, x22 := t.d00+1, t.d11+1, t.d22+1
	var m Transform
	m.d00 = (x11*x22-t.x12*t.x21)*d - 1
	m.x01 = (t.x02*t.x21 - t.x01*x22) * d
	m.x02 = (t.x01*t.x12 - t.x02*x11) * d
	m.x10 = (t.x12*t.x20 - t.x10*x22) * d
	m.d11 = (x00*x22-t.x02*t.x20)*d - 1
	m.x12 = (t.x02*t.x10 - x00*t.x12) * d
	m.x20 = (t.x10*t.x21 - x11*t.x20) * d
	m.x21 = (t.x01*t.x20 - x00*t.x21) * d
	m.d22 = (x00*x11-t.x01*t.x10)*d - 1
	// Inverse translation is -Inv(A)*b.
	tr := m.TransformDir(t.Translation())
	m.x03, m.x13, m.x23 = -tr.X, -tr.Y, -tr.Z
	return m
}

// Transpose returns the transpose of the linear part. The
// translation of the result is zero.
func (t Transform) Transpose() Transform {
	return Transform{
		d00: t.d00, x01: t.x10, x02: t.x20,
		x10: t.x01, d11: t.d11, x12: t.x21,
		x20: t.x02, x21: t.x12, d22: t.d22,
	}
}

// NormalMatrix returns the inverse-transpose of the linear part, which
// maps surface normals of geometry transformed by t. Results must be
// renormalized since the matrix is not orthonormal in general.
func (t Transform) NormalMatrix() Transform {
	return t.Inv().Transpose()
}
