// Package glbackend implements render.Backend on top of an OpenGL 3.3+
// core profile context. A context must be current on the calling
// goroutine's locked OS thread, see glgl.InitWithCurrentWindow33.
package glbackend

import (
	"errors"
	"image"
	"strings"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vertices are projected and lit on the CPU so the program needs
// no uniforms.
const shaderSource = `#shader vertex
#version 330
layout(location = 0) in vec4 clipPos;
layout(location = 1) in vec4 vertColor;
out vec4 fragColor;
void main() {
	gl_Position = clipPos;
	fragColor = vertColor;
}

#shader fragment
#version 330
in vec4 fragColor;
out vec4 outColor;
void main() {
	outColor = fragColor;
}
`

// vertex is the interleaved layout uploaded to the vertex buffer.
type vertex struct {
	clip  [4]float32
	color [4]float32
}

const vertexStride = 8 * 4 // 8 float32s.

// Backend buffers primitives and issues GL draw calls on Flush.
type Backend struct {
	fr       *render.Frustum
	prog     glgl.Program
	vao, vbo uint32
	toLight  r3.Vec
	lit      bool
	// draw lists by mode, opaque and transparent.
	tris, lines, points    []vertex
	ttris, tlines, tpoints []vertex
}

var _ render.Backend = (*Backend)(nil)

// New compiles the backend's shader program and allocates GL buffers.
func New(fr *render.Frustum) (*Backend, error) {
	if fr == nil {
		return nil, errors.New("nil frustum")
	}
	src, err := glgl.ParseCombined(strings.NewReader(shaderSource))
	if err != nil {
		return nil, err
	}
	prog, err := glgl.CompileProgram(src)
	if err != nil {
		return nil, err
	}
	b := &Backend{
		fr:      fr,
		prog:    prog,
		toLight: r3.Unit(r3.Sub(fr.View().Eye, fr.View().LookAt)),
	}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, vertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, vertexStride, gl.PtrOffset(4*4))
	gl.BindVertexArray(0)
	return b, nil
}

func (b *Backend) Polygon(vertices, normals []r3.Vec, m render.Material) {
	if len(vertices) < 3 {
		return
	}
	if m.Wireframe {
		for i := range vertices {
			b.Lines([]r3.Vec{vertices[i], vertices[(i+1)%len(vertices)]}, m)
		}
		return
	}
	face := faceNormal(vertices)
	dst := &b.tris
	if m.Transparent {
		dst = &b.ttris
	}
	for i := 2; i < len(vertices); i++ {
		for _, j := range [3]int{0, i - 1, i} {
			n := face
			if len(normals) == len(vertices) {
				n = normals[j]
			}
			*dst = append(*dst, vertex{
				clip:  b.clip(vertices[j]),
				color: m.Shade(n, b.toLight),
			})
		}
	}
}

func (b *Backend) Lines(vertices []r3.Vec, m render.Material) {
	dst := &b.lines
	if m.Transparent {
		dst = &b.tlines
	}
	c := m.RGBA()
	for i := 1; i < len(vertices); i += 2 {
		*dst = append(*dst, vertex{clip: b.clip(vertices[i-1]), color: c}, vertex{clip: b.clip(vertices[i]), color: c})
	}
}

func (b *Backend) LineStrip(vertices []r3.Vec, m render.Material) {
	for i := 1; i < len(vertices); i++ {
		b.Lines(vertices[i-1:i+1], m)
	}
}

func (b *Backend) Points(vertices []r3.Vec, m render.Material) {
	dst := &b.points
	if m.Transparent {
		dst = &b.tpoints
	}
	c := m.RGBA()
	for _, v := range vertices {
		*dst = append(*dst, vertex{clip: b.clip(v), color: c})
	}
}

// Light sets the shading direction from the first registered light.
// Polygons emitted before the first light use a head light.
func (b *Backend) Light(_ uint32, position r3.Vec, _ render.Material) {
	if b.lit {
		return
	}
	b.lit = true
	b.toLight = b.fr.ToLight(position)
}

// Flush draws all buffered primitives, opaque ones first, and empties the buffers.
func (b *Backend) Flush() {
	b.prog.Bind()
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	b.draw(gl.TRIANGLES, b.tris)
	b.draw(gl.LINES, b.lines)
	b.draw(gl.POINTS, b.points)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	b.draw(gl.TRIANGLES, b.ttris)
	b.draw(gl.LINES, b.tlines)
	b.draw(gl.POINTS, b.tpoints)
	gl.DepthMask(true)
	gl.BindVertexArray(0)
	b.tris, b.lines, b.points = b.tris[:0], b.lines[:0], b.points[:0]
	b.ttris, b.tlines, b.tpoints = b.ttris[:0], b.tlines[:0], b.tpoints[:0]
	b.lit = false
}

// Clear clears the bound framebuffer's color and depth.
func (b *Backend) Clear(bg [4]float32) {
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadImage reads back the width x height lower left region of the
// bound framebuffer. GL rows start at the bottom so they are flipped.
func (b *Backend) ReadImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	row := make([]byte, img.Stride)
	for y := 0; y < height/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(height-1-y)*img.Stride : (height-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return img
}

// Delete releases the GL buffers.
func (b *Backend) Delete() {
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
}

func (b *Backend) draw(mode uint32, vs []vertex) {
	if len(vs) == 0 {
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(vs)*vertexStride, gl.Ptr(vs), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(vs)))
}

func (b *Backend) clip(v r3.Vec) [4]float32 {
	c := b.fr.Clip(v)
	return [4]float32{float32(c.X), float32(c.Y), float32(c.Z), float32(c.W)}
}

// faceNormal computes the polygon normal in float32 precision, which is
// all the GL pipeline keeps.
func faceNormal(vertices []r3.Vec) r3.Vec {
	v0, v1, v2 := toMS3(vertices[0]), toMS3(vertices[1]), toMS3(vertices[2])
	n := ms3.Cross(ms3.Sub(v1, v0), ms3.Sub(v2, v0))
	if ms3.Norm(n) == 0 {
		return r3.Vec{}
	}
	n = ms3.Unit(n)
	return r3.Vec{X: float64(n.X), Y: float64(n.Y), Z: float64(n.Z)}
}

func toMS3(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
