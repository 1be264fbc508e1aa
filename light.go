package glscene

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glscene/internal/d3"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultBulbRadius is the radius of the sphere drawn at a light's position.
const DefaultBulbRadius float32 = 10

const bulbDivisions = 10

// SimpleLight is a point light source. It enables a backend light and
// draws a translucent bulb at its position.
type SimpleLight struct {
	SceneObject
	lightName uint32
	bulbRad   float32
}

var _ Object = (*SimpleLight)(nil)

// NewSimpleLight returns a light at position. lightName identifies the
// backend light slot the light enables.
func NewSimpleLight(glName, lightName uint32, color Color, position r3.Vec) *SimpleLight {
	l := &SimpleLight{lightName: lightName, bulbRad: DefaultBulbRadius}
	l.init([]float64{position.X, position.Y, position.Z}, color, glName, 0)
	l.fitBBox()
	return l
}

// LightName returns the backend light slot.
func (l *SimpleLight) LightName() uint32 { return l.lightName }

// Position returns the light position.
func (l *SimpleLight) Position() r3.Vec { return d3.At(l.vertices, 0) }

func (l *SimpleLight) BulbRadius() float32 { return l.bulbRad }

// SetBulbRadius sets the bulb radius. Negative values are made positive.
func (l *SimpleLight) SetBulbRadius(r float32) {
	l.bulbRad = math32.Abs(r)
	l.fitBBox()
}

// IsTransparent returns true: the bulb is drawn translucent.
func (l *SimpleLight) IsTransparent() bool { return true }

func (l *SimpleLight) fitBBox() {
	l.bbox = bboxFromBox(d3.CenteredBox(l.Position(), d3.Elem(2*float64(l.bulbRad))))
}

// Stretch scales the bulb radius by the absolute mean of the three
// factors. The position is kept.
func (l *SimpleLight) Stretch(sx, sy, sz float64) {
	l.bulbRad *= math32.Abs(float32(d3.Mean(r3.Vec{X: sx, Y: sy, Z: sz})))
	l.fitBBox()
}

// Draw enables the light even when the bulb is outside fr.
func (l *SimpleLight) Draw(dst render.Backend, fr *render.Frustum) {
	m := l.material()
	dst.Light(l.lightName, l.Position(), m)
	if !l.visible(fr) {
		return
	}
	bulb := m
	bulb.Diffuse[3] = 0.5
	bulb.Transparent = true
	tessellateSphere(dst, l.Position(), float64(l.bulbRad), bulbDivisions, bulb)
	l.drawSelection(dst)
}
