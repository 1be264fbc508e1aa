package glscene

import (
	"math"

	"github.com/soypat/glscene/internal/d3"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// MarkerStyle is the glyph drawn at each PolyMarker vertex.
// Values follow the usual polymarker numbering.
type MarkerStyle uint

const (
	MarkerDot   MarkerStyle = 1
	MarkerPlus  MarkerStyle = 2
	MarkerStar  MarkerStyle = 3
	MarkerCross MarkerStyle = 5
)

// PolyMarker draws a glyph at each of its vertices.
type PolyMarker struct {
	SceneObject
	style MarkerStyle
	// size is the half length of glyph strokes.
	size float64
}

var _ Object = (*PolyMarker)(nil)

// NewPolyMarker returns a PolyMarker with a glyph at each point of buf.
// The glyph size is 1% of the bounding box diagonal.
func NewPolyMarker(buf Buffer3D, color Color, glName uint32, real RealObject) *PolyMarker {
	pm := &PolyMarker{style: buf.Style}
	pm.init(buf.Points, color, glName, real)
	pm.size = 0.01 * d3.Box(pm.bbox.Box()).Diagonal()
	if pm.size == 0 {
		pm.size = 0.01
	}
	return pm
}

func (pm *PolyMarker) Style() MarkerStyle { return pm.style }

// GlyphSize returns the half length of glyph strokes.
func (pm *PolyMarker) GlyphSize() float64 { return pm.size }

// SetGlyphSize sets the half length of glyph strokes.
func (pm *PolyMarker) SetGlyphSize(size float64) { pm.size = math.Abs(size) }

func (pm *PolyMarker) Draw(dst render.Backend, fr *render.Frustum) {
	if !pm.visible(fr) {
		return
	}
	m := pm.material()
	switch pm.style {
	case MarkerPlus, MarkerStar, MarkerCross:
		dst.Lines(pm.stars(), m)
	default:
		dst.Points(pm.points(), m)
	}
	pm.drawSelection(dst)
}

var (
	axisStrokes = []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	diagStrokes = []r3.Vec{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1},
		{X: -1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: 1},
	}
)

// stars returns the line segments of the glyphs of all vertices.
func (pm *PolyMarker) stars() []r3.Vec {
	var strokes []r3.Vec
	switch pm.style {
	case MarkerPlus:
		strokes = axisStrokes
	case MarkerCross:
		strokes = diagStrokes
	default:
		strokes = append(append(strokes, axisStrokes...), diagStrokes...)
	}
	pts := pm.points()
	segs := make([]r3.Vec, 0, 2*len(strokes)*len(pts))
	for _, p := range pts {
		for _, s := range strokes {
			d := r3.Scale(pm.size/r3.Norm(s), s)
			segs = append(segs, r3.Sub(p, d), r3.Add(p, d))
		}
	}
	return segs
}

// PolyLine is a connected line strip through its vertices.
type PolyLine struct {
	SceneObject
}

var _ Object = (*PolyLine)(nil)

// NewPolyLine returns a PolyLine through the points of buf in order.
func NewPolyLine(buf Buffer3D, color Color, glName uint32, real RealObject) *PolyLine {
	pl := &PolyLine{}
	pl.init(buf.Points, color, glName, real)
	return pl
}

func (pl *PolyLine) Draw(dst render.Backend, fr *render.Frustum) {
	if !pl.visible(fr) {
		return
	}
	if len(pl.vertices) >= 6 {
		dst.LineStrip(pl.points(), pl.material())
	}
	pl.drawSelection(dst)
}

// params copies p into a slice of length n, zero padding missing values.
func params(p []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, p)
	return out
}
