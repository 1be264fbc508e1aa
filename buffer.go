package glscene

import (
	"errors"
	"fmt"
)

// Kind selects the scene object variant built from a Buffer3D.
type Kind int

const (
	// KindFaceSet buffers hold raw Points and polygon descriptors in Polys.
	KindFaceSet Kind = iota
	// KindPolyMarker buffers hold marker positions in Points.
	KindPolyMarker
	// KindPolyLine buffers hold the polyline vertices in Points.
	KindPolyLine
	// KindSphere buffers hold Params: x, y, z, radius, divisions.
	KindSphere
	// KindTube buffers hold Params: x, y, z, rmin1, rmax1, rmin2, rmax2,
	// dz, divisions, optionally followed by a 4x4 rotation matrix in
	// OpenGL column-major order.
	KindTube
)

func (k Kind) String() string {
	switch k {
	case KindFaceSet:
		return "faceset"
	case KindPolyMarker:
		return "marker"
	case KindPolyLine:
		return "line"
	case KindSphere:
		return "sphere"
	case KindTube:
		return "tube"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Buffer3D is the geometry handed to New. It is read once during
// construction and never referenced afterwards.
type Buffer3D struct {
	Kind Kind
	// Points holds raw vertex coordinates as flattened xyz triples.
	Points []float64
	// Polys holds polygon descriptors: per polygon a vertex count
	// followed by that many 0-based indices into the raw vertices.
	Polys []int
	// Params holds analytic shape parameters. See Kind.
	Params []float64
	// Style is the glyph of KindPolyMarker buffers.
	Style MarkerStyle
}

const (
	sphereParams = 5
	tubeParams   = 9
	rotParams    = 16
)

// ErrBadBuffer is returned by New for structurally invalid buffers.
var ErrBadBuffer = errors.New("bad geometry buffer")

// Validate checks the structural invariants New relies on. Malformed
// polygon descriptors are not reported: they are skipped by FaceSet.
func (b *Buffer3D) Validate() error {
	if len(b.Points)%3 != 0 {
		return fmt.Errorf("%w: %d point coordinates not a multiple of 3", ErrBadBuffer, len(b.Points))
	}
	switch b.Kind {
	case KindFaceSet, KindPolyMarker, KindPolyLine:
	case KindSphere:
		if len(b.Params) < sphereParams {
			return fmt.Errorf("%w: sphere needs %d params, got %d", ErrBadBuffer, sphereParams, len(b.Params))
		}
	case KindTube:
		if len(b.Params) != tubeParams && len(b.Params) != tubeParams+rotParams {
			return fmt.Errorf("%w: tube needs %d or %d params, got %d", ErrBadBuffer, tubeParams, tubeParams+rotParams, len(b.Params))
		}
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrBadBuffer, b.Kind)
	}
	return nil
}

// New constructs the scene object variant selected by buf.Kind.
// An empty buffer yields a valid object with no geometry.
func New(buf Buffer3D, color Color, glName uint32, real RealObject) (Object, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	switch buf.Kind {
	case KindFaceSet:
		return NewFaceSet(buf, color, glName, real), nil
	case KindPolyMarker:
		return NewPolyMarker(buf, color, glName, real), nil
	case KindPolyLine:
		return NewPolyLine(buf, color, glName, real), nil
	case KindSphere:
		return NewSphere(buf, color, glName, real), nil
	case KindTube:
		return NewTube(buf, color, glName, real), nil
	}
	panic("unreachable")
}
