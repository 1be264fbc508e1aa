package glscene

import (
	"github.com/soypat/glscene/internal/d3"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// BBox is an axis aligned bounding box stored as the six ordered
// values xmin, xmax, ymin, ymax, zmin, zmax. The zero value is a
// zero sized box at the origin.
type BBox struct {
	data [6]float64
}

// NewBBox returns a BBox with the given extents. No validation is
// performed: callers must supply min <= max on every axis.
func NewBBox(xmin, xmax, ymin, ymax, zmin, zmax float64) BBox {
	return BBox{data: [6]float64{xmin, xmax, ymin, ymax, zmin, zmax}}
}

// BBoxFromData returns a BBox from its six ordered values.
func BBoxFromData(data [6]float64) BBox { return BBox{data: data} }

func bboxFromBox(b d3.Box) BBox {
	return NewBBox(b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}

// SetBBox overwrites all six values.
func (b *BBox) SetBBox(xmin, xmax, ymin, ymax, zmin, zmax float64) {
	b.data = [6]float64{xmin, xmax, ymin, ymax, zmin, zmax}
}

// SetData overwrites all six values from their ordered array form.
func (b *BBox) SetData(data [6]float64) { b.data = data }

// Data returns the six ordered values.
func (b BBox) Data() [6]float64 { return b.data }

// RangeX returns xmin, xmax.
func (b BBox) RangeX() [2]float64 { return [2]float64{b.data[0], b.data[1]} }

// RangeY returns ymin, ymax.
func (b BBox) RangeY() [2]float64 { return [2]float64{b.data[2], b.data[3]} }

// RangeZ returns zmin, zmax.
func (b BBox) RangeZ() [2]float64 { return [2]float64{b.data[4], b.data[5]} }

// Box returns the bounding box as an r3.Box.
func (b BBox) Box() r3.Box {
	return r3.Box{
		Min: r3.Vec{X: b.data[0], Y: b.data[2], Z: b.data[4]},
		Max: r3.Vec{X: b.data[1], Y: b.data[3], Z: b.data[5]},
	}
}

// Center returns the center of the box.
func (b BBox) Center() r3.Vec { return d3.Box(b.Box()).Center() }

// Shift translates the box.
func (b *BBox) Shift(dx, dy, dz float64) {
	b.data[0] += dx
	b.data[1] += dx
	b.data[2] += dy
	b.data[3] += dy
	b.data[4] += dz
	b.data[5] += dz
}

// Stretch scales the half extent of each axis about the box center.
// A negative factor mirrors the axis; min and max are swapped so the
// box stays ordered.
func (b *BBox) Stretch(sx, sy, sz float64) {
	*b = bboxFromBox(d3.Box(b.Box()).ScaleAboutCenter(r3.Vec{X: sx, Y: sy, Z: sz}))
}

// DrawBox emits the 12 edges of the box as line segments.
func (b BBox) DrawBox(dst render.Backend, m render.Material) {
	var segs [24]r3.Vec
	for i, e := range d3.Box(b.Box()).Edges() {
		segs[2*i] = e[0]
		segs[2*i+1] = e[1]
	}
	dst.Lines(segs[:], m)
}
