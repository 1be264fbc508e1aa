package glscene

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glscene/render"
)

// Color is the 17 channel material descriptor of a scene object:
//
//	[0:4]   diffuse RGBA
//	[4:8]   ambient RGBA
//	[8:12]  specular RGBA
//	[12:16] emission RGBA
//	[16]    shininess in [0, 128]
//
// The zero value is unset and drawn with render.DefaultColor.
type Color [17]float32

const maxShininess = 128

// RGBA returns a Color with the given diffuse channels clamped to [0,1]
// and a dim ambient term.
func RGBA(r, g, b, a float32) Color {
	var c Color
	c[0], c[1], c[2], c[3] = clamp01(r), clamp01(g), clamp01(b), clamp01(a)
	c[4], c[5], c[6], c[7] = 0.2*c[0], 0.2*c[1], 0.2*c[2], c[3]
	return c
}

// IsSet reports whether any channel is non zero.
func (c Color) IsSet() bool { return c != Color{} }

func (c Color) Diffuse() [4]float32  { return [4]float32{c[0], c[1], c[2], c[3]} }
func (c Color) Ambient() [4]float32  { return [4]float32{c[4], c[5], c[6], c[7]} }
func (c Color) Specular() [4]float32 { return [4]float32{c[8], c[9], c[10], c[11]} }
func (c Color) Emission() [4]float32 { return [4]float32{c[12], c[13], c[14], c[15]} }
func (c Color) Shininess() float32   { return math32.Min(maxShininess, math32.Max(0, c[16])) }

// Alpha returns the diffuse alpha.
func (c Color) Alpha() float32 { return c[3] }

// WithSpecular returns c with the specular channels and shininess set.
func (c Color) WithSpecular(spec [4]float32, shininess float32) Color {
	copy(c[8:12], spec[:])
	c[16] = math32.Min(maxShininess, math32.Max(0, shininess))
	return c
}

// WithEmission returns c with the emission channels set.
func (c Color) WithEmission(e [4]float32) Color {
	copy(c[12:16], e[:])
	return c
}

// Material converts the descriptor into a render.Material. A diffuse
// alpha strictly between 0 and 1 marks the material transparent.
func (c Color) Material() render.Material {
	a := c.Alpha()
	return render.Material{
		Diffuse:     c.Diffuse(),
		Ambient:     c.Ambient(),
		Specular:    c.Specular(),
		Emission:    c.Emission(),
		Shininess:   c.Shininess(),
		Transparent: a > 0 && a < 1,
	}
}

func clamp01(v float32) float32 {
	return math32.Min(1, math32.Max(0, v))
}
