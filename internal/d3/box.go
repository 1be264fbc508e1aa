package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d axis aligned bounding box.
type Box r3.Box

// NewBox creates a 3d box with a given center and size.
func NewBox(center, size r3.Vec) Box {
	half := r3.Scale(0.5, size)
	return Box{Min: r3.Sub(center, half), Max: r3.Add(center, half)}
}

// CenteredBox creates a Box with a given center and size.
// Negative components of size will be interpreted as zero.
func CenteredBox(center, size r3.Vec) Box {
	size = MaxElem(size, r3.Vec{}) // set negative values to zero.
	return NewBox(center, size)
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(a.Min, a.Max))
}

// ScaleAboutCenter scales the half extents of the box about
// its own center by the per-axis factors of k. Negative factors
// mirror the box about its center so Min <= Max still holds.
func (a Box) ScaleAboutCenter(k r3.Vec) Box {
	c := a.Center()
	lo := r3.Add(c, MulElem(k, r3.Sub(a.Min, c)))
	hi := r3.Add(c, MulElem(k, r3.Sub(a.Max, c)))
	return Box{Min: MinElem(lo, hi), Max: MaxElem(lo, hi)}
}

// Diagonal returns the length of the box diagonal.
func (a Box) Diagonal() float64 { return r3.Norm(a.Size()) }

// Vertices returns a slice of 3d box corner vertices.
// Corner i has the max X if bit 2 of i is set, max Y if
// bit 1 is set and max Z if bit 0 is set.
func (a Box) Vertices() Set {
	v := make([]r3.Vec, 8)
	v[0] = a.Min
	v[1] = r3.Vec{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z}
	v[2] = r3.Vec{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z}
	v[3] = r3.Vec{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z}
	v[4] = r3.Vec{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z}
	v[5] = r3.Vec{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z}
	v[6] = r3.Vec{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z}
	v[7] = a.Max
	return v
}

// boxEdges indexes into the result of Vertices. Two corners
// share an edge when their indices differ in exactly one bit.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along Z
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along X
}

// Edges returns the 12 edges of the box as pairs of points.
func (a Box) Edges() [12][2]r3.Vec {
	v := a.Vertices()
	var e [12][2]r3.Vec
	for i, idx := range boxEdges {
		e[i] = [2]r3.Vec{v[idx[0]], v[idx[1]]}
	}
	return e
}

// emptyBox is the identity element of Include.
var emptyBox = Box{Min: Elem(math.MaxFloat64), Max: Elem(-math.MaxFloat64)}
