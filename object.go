// Package glscene implements a retained mode 3D scene object model.
// Scene objects carry their own geometry, a bounding box used for
// selection highlighting and coarse hit testing, and rigid transform
// operations. Objects draw themselves by emitting primitives to a
// render.Backend.
//
// Scene objects are not safe for concurrent use. Shift, Stretch,
// SetColor and Select must not be called while a draw pass holds
// the object.
package glscene

import (
	"github.com/soypat/glscene/internal/d3"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Object is the drawing and transform capability shared by all scene
// object variants: FaceSet, PolyMarker, PolyLine, Sphere, Tube and SimpleLight.
type Object interface {
	// Draw emits the object's primitives to dst. fr is the view volume
	// of the pass and may be nil. Objects outside fr draw nothing.
	Draw(dst render.Backend, fr *render.Frustum)
	// Shift translates the object in place.
	Shift(dx, dy, dz float64)
	// Stretch scales the object in place about its bounding box center.
	Stretch(sx, sy, sz float64)
	// IsTransparent reports whether the object is drawn translucent and
	// so must be drawn after opaque objects.
	IsTransparent() bool
	// Base returns the common scene object state.
	Base() *SceneObject
}

// RealObject is an opaque identity of the application object a scene
// object represents. It is never resolved by this package.
type RealObject uint64

// noCopy may be embedded into structs which must not be copied
// after first use. See https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// SceneObject holds the state common to all variants. It is embedded
// by every variant and must not be copied: vertex buffers and
// identity are unique per rendered instance.
type SceneObject struct {
	_ noCopy
	// vertices are flattened xyz triples.
	vertices []float64
	color    Color
	bbox     BBox
	selected bool
	// wireframe draws polygons as outlines.
	wireframe bool
	glName    uint32
	real      RealObject
}

// init copies vertices, stores identity and fits the bounding box to
// the vertices. Trailing coordinates that do not form a triple are dropped.
func (o *SceneObject) init(vertices []float64, color Color, glName uint32, real RealObject) {
	n := len(vertices) - len(vertices)%3
	o.vertices = append([]float64(nil), vertices[:n]...)
	o.color = color
	o.glName = glName
	o.real = real
	o.selected = false
	o.fitBBox()
}

func (o *SceneObject) fitBBox() {
	o.bbox = bboxFromBox(d3.FromFlat(o.vertices).Bounds())
}

// Base returns o.
func (o *SceneObject) Base() *SceneObject { return o }

// IsTransparent returns false. Variants drawn translucent override it.
func (o *SceneObject) IsTransparent() bool { return false }

// Shift translates every vertex and the bounding box.
func (o *SceneObject) Shift(dx, dy, dz float64) {
	for i := 0; i < len(o.vertices); i += 3 {
		o.vertices[i] += dx
		o.vertices[i+1] += dy
		o.vertices[i+2] += dz
	}
	o.bbox.Shift(dx, dy, dz)
}

// Stretch scales every vertex and the bounding box about the
// bounding box center.
func (o *SceneObject) Stretch(sx, sy, sz float64) {
	c := o.bbox.Center()
	s := r3.Vec{X: sx, Y: sy, Z: sz}
	for i := 0; i < len(o.vertices)/3; i++ {
		v := d3.At(o.vertices, i)
		d3.Put(o.vertices, i, r3.Add(c, d3.MulElem(s, r3.Sub(v, c))))
	}
	o.bbox.Stretch(sx, sy, sz)
}

// Vertices returns the flattened xyz vertex triples. The returned
// slice is owned by the object and must not be modified.
func (o *SceneObject) Vertices() []float64 { return o.vertices }

// NumVertices returns the number of vertex triples.
func (o *SceneObject) NumVertices() int { return len(o.vertices) / 3 }

// BBox returns the bounding box.
func (o *SceneObject) BBox() BBox { return o.bbox }

// GLName returns the render identity tag used for picking.
func (o *SceneObject) GLName() uint32 { return o.glName }

// RealObject returns the identity of the external object this one depicts.
func (o *SceneObject) RealObject() RealObject { return o.real }

// Color returns the color descriptor.
func (o *SceneObject) Color() Color { return o.color }

// SetColor replaces the color descriptor.
func (o *SceneObject) SetColor(newColor Color) { o.color = newColor }

// Select sets or clears the selection flag. Selected objects also
// draw their bounding box.
func (o *SceneObject) Select(selected bool) { o.selected = selected }

// Selected reports the selection flag.
func (o *SceneObject) Selected() bool { return o.selected }

// SetWireframe selects outline drawing of filled primitives.
func (o *SceneObject) SetWireframe(wireframe bool) { o.wireframe = wireframe }

// Wireframe reports whether filled primitives are drawn as outlines.
func (o *SceneObject) Wireframe() bool { return o.wireframe }

// SelectionMaterial is used to draw the bounding box of selected objects.
var SelectionMaterial = render.Material{Diffuse: [4]float32{1, 1, 1, 1}}

func (o *SceneObject) material() render.Material {
	m := o.color.Material()
	m.Wireframe = o.wireframe
	return m
}

func (o *SceneObject) visible(fr *render.Frustum) bool {
	return fr.Visible(o.bbox.Box())
}

func (o *SceneObject) drawSelection(dst render.Backend) {
	if o.selected {
		o.bbox.DrawBox(dst, SelectionMaterial)
	}
}

// points returns the vertices as vectors.
func (o *SceneObject) points() []r3.Vec { return d3.FromFlat(o.vertices) }
