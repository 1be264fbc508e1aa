package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Elem returns a vector with all components set to sides.
func Elem(sides float64) r3.Vec {
	return r3.Vec{
		X: sides,
		Y: sides,
		Z: sides,
	}
}

// EqualWithin reports whether every component of a and b
// differ by at most tol.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// Mean returns the arithmetic mean of the components of a.
func Mean(a r3.Vec) float64 {
	return (a.X + a.Y + a.Z) / 3
}

func MulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{
		X: a.X * b.X,
		Y: a.Y * b.Y,
		Z: a.Z * b.Z,
	}
}

// Unit returns the unit vector of a and true. If a's norm
// is not above tol it returns the zero vector and false.
func Unit(a r3.Vec, tol float64) (r3.Vec, bool) {
	n := r3.Norm(a)
	if n <= tol || math.IsNaN(n) || math.IsInf(n, 0) {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, a), true
}

// Set is a list of points.
type Set []r3.Vec

// Bounds returns the smallest box containing the set.
// An empty set has a zero box.
func (a Set) Bounds() Box {
	if len(a) == 0 {
		return Box{}
	}
	bb := emptyBox
	for _, v := range a {
		bb = bb.Include(v)
	}
	return bb
}

// FromFlat reinterprets flattened xyz triples as vectors.
// Trailing values that do not form a full triple are ignored.
func FromFlat(flat []float64) Set {
	s := make(Set, len(flat)/3)
	for i := range s {
		s[i] = r3.Vec{X: flat[3*i], Y: flat[3*i+1], Z: flat[3*i+2]}
	}
	return s
}

// At returns the ith triple of a flattened xyz slice.
func At(flat []float64, i int) r3.Vec {
	return r3.Vec{X: flat[3*i], Y: flat[3*i+1], Z: flat[3*i+2]}
}

// Put stores v as the ith triple of a flattened xyz slice.
func Put(flat []float64, i int, v r3.Vec) {
	flat[3*i] = v.X
	flat[3*i+1] = v.Y
	flat[3*i+2] = v.Z
}
