package render

import (
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// Raster is a software rasterizing Backend. Primitives are buffered
// in submission order and rasterized when Image is called, after all
// lights of the pass are known.
type Raster struct {
	fr            *Frustum
	width, height int
	// supersample is the antialiasing factor. The image is rendered
	// at supersample times the resolution then downsampled.
	supersample int
	// Background is the clear color.
	Background [4]float32
	batches    []rasterBatch
	lights     []r3.Vec
}

type rasterBatch struct {
	m     Material
	tris  []*fauxgl.Triangle
	lines []*fauxgl.Line
}

var _ Backend = (*Raster)(nil)

// NewRaster returns a Raster drawing width x height images of the frustum fr.
// A nil fr uses DefaultView. supersample values below 1 are treated as 1.
func NewRaster(fr *Frustum, width, height, supersample int) *Raster {
	if fr == nil {
		fr = NewFrustum(DefaultView)
	}
	if supersample < 1 {
		supersample = 1
	}
	return &Raster{
		fr:          fr,
		width:       width,
		height:      height,
		supersample: supersample,
		Background:  [4]float32{1, 0.973, 0.89, 1}, // #FFF8E3
	}
}

func (r *Raster) Polygon(vertices, normals []r3.Vec, m Material) {
	if len(vertices) < 2 {
		return
	}
	if m.Wireframe {
		closed := append(append([]r3.Vec(nil), vertices...), vertices[0])
		r.LineStrip(closed, m)
		return
	}
	b := r.batch(m)
	for _, t := range fan(nil, vertices, normals) {
		n := t.Normal()
		var vs [3]fauxgl.Vertex
		for i := range vs {
			vn := t.N[i]
			if vn == (r3.Vec{}) {
				vn = n
			}
			vs[i] = fauxgl.Vertex{Position: toFaux(t.V[i]), Normal: toFaux(vn)}
		}
		b.tris = append(b.tris, fauxgl.NewTriangle(vs[0], vs[1], vs[2]))
	}
}

func (r *Raster) Lines(vertices []r3.Vec, m Material) {
	b := r.batch(m)
	for i := 1; i < len(vertices); i += 2 {
		b.lines = append(b.lines, fauxgl.NewLineForPoints(toFaux(vertices[i-1]), toFaux(vertices[i])))
	}
}

func (r *Raster) LineStrip(vertices []r3.Vec, m Material) {
	b := r.batch(m)
	for i := 1; i < len(vertices); i++ {
		b.lines = append(b.lines, fauxgl.NewLineForPoints(toFaux(vertices[i-1]), toFaux(vertices[i])))
	}
}

// Points are drawn as zero length lines, one line width wide.
func (r *Raster) Points(vertices []r3.Vec, m Material) {
	b := r.batch(m)
	for _, v := range vertices {
		p := toFaux(v)
		b.lines = append(b.lines, fauxgl.NewLineForPoints(p, p))
	}
}

// Light sets the direction of the shading light. Only the first
// registered light is used for shading.
func (r *Raster) Light(_ uint32, position r3.Vec, _ Material) {
	r.lights = append(r.lights, position)
}

// Reset discards buffered primitives and lights.
func (r *Raster) Reset() {
	r.batches = r.batches[:0]
	r.lights = r.lights[:0]
}

// batch returns the batch for m, starting a new one when the material changes.
func (r *Raster) batch(m Material) *rasterBatch {
	if n := len(r.batches); n > 0 && r.batches[n-1].m == m {
		return &r.batches[n-1]
	}
	r.batches = append(r.batches, rasterBatch{m: m})
	return &r.batches[len(r.batches)-1]
}

// Image rasterizes all buffered primitives. Opaque batches are drawn
// before transparent ones.
func (r *Raster) Image() image.Image {
	ss := r.supersample
	context := fauxgl.NewContext(r.width*ss, r.height*ss)
	context.ClearColorBufferWith(toFauxColor(r.Background))
	context.Cull = fauxgl.CullNone
	context.LineWidth = float64(ss)

	view := r.fr.View()
	matrix := r.fr.Matrix()
	eye := toFaux(view.Eye)
	light := fauxgl.V(-0.75, 1, 0.25).Normalize()
	if len(r.lights) > 0 {
		light = toFaux(r.fr.ToLight(r.lights[0]))
	}
	for _, transparent := range []bool{false, true} {
		for i := range r.batches {
			b := &r.batches[i]
			if b.m.Transparent != transparent {
				continue
			}
			color := toFauxColor(b.m.RGBA())
			context.AlphaBlend = transparent
			context.WriteDepth = !transparent
			if len(b.tris) > 0 {
				shader := fauxgl.NewPhongShader(matrix, light, eye)
				shader.ObjectColor = color
				context.Shader = shader
				context.DrawTriangles(b.tris)
			}
			if len(b.lines) > 0 {
				context.Shader = fauxgl.NewSolidColorShader(matrix, color)
				context.DrawLines(b.lines)
			}
		}
	}
	img := context.Image()
	if ss > 1 {
		img = resize.Resize(uint(r.width), uint(r.height), img, resize.Bilinear)
	}
	return img
}

// SavePNG rasterizes the buffered primitives and saves them to path.
func (r *Raster) SavePNG(path string) error {
	return fauxgl.SavePNG(path, r.Image())
}

func toFaux(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}

func toFauxColor(c [4]float32) fauxgl.Color {
	return fauxgl.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
}
