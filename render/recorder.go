package render

import "gonum.org/v1/gonum/spatial/r3"

// Primitive identifies the kind of a recorded Command.
type Primitive int

const (
	PrimPolygon Primitive = iota
	PrimLines
	PrimLineStrip
	PrimPoints
	PrimLight
)

func (p Primitive) String() string {
	switch p {
	case PrimPolygon:
		return "polygon"
	case PrimLines:
		return "lines"
	case PrimLineStrip:
		return "linestrip"
	case PrimPoints:
		return "points"
	case PrimLight:
		return "light"
	}
	return "unknown"
}

// Command is a single recorded primitive.
type Command struct {
	Prim     Primitive
	Vertices []r3.Vec
	Normals  []r3.Vec
	Material Material
	// LightID is set for PrimLight commands.
	LightID uint32
}

// Recorder is a Backend that stores every primitive it receives in order.
// It is useful for inspecting draw passes and replaying them on another Backend.
type Recorder struct {
	Commands []Command
}

var _ Backend = (*Recorder)(nil)

func (r *Recorder) Polygon(vertices, normals []r3.Vec, m Material) {
	r.record(PrimPolygon, vertices, normals, m, 0)
}

func (r *Recorder) Lines(vertices []r3.Vec, m Material) {
	r.record(PrimLines, vertices, nil, m, 0)
}

func (r *Recorder) LineStrip(vertices []r3.Vec, m Material) {
	r.record(PrimLineStrip, vertices, nil, m, 0)
}

func (r *Recorder) Points(vertices []r3.Vec, m Material) {
	r.record(PrimPoints, vertices, nil, m, 0)
}

func (r *Recorder) Light(id uint32, position r3.Vec, m Material) {
	r.record(PrimLight, []r3.Vec{position}, nil, m, id)
}

func (r *Recorder) record(p Primitive, v, n []r3.Vec, m Material, id uint32) {
	c := Command{Prim: p, Material: m, LightID: id}
	c.Vertices = append(c.Vertices, v...)
	if n != nil {
		c.Normals = append(c.Normals, n...)
	}
	r.Commands = append(r.Commands, c)
}

// Count returns the number of recorded commands of kind p.
func (r *Recorder) Count(p Primitive) (n int) {
	for i := range r.Commands {
		if r.Commands[i].Prim == p {
			n++
		}
	}
	return n
}

// Replay emits all recorded commands to dst in order.
func (r *Recorder) Replay(dst Backend) {
	for _, c := range r.Commands {
		switch c.Prim {
		case PrimPolygon:
			dst.Polygon(c.Vertices, c.Normals, c.Material)
		case PrimLines:
			dst.Lines(c.Vertices, c.Material)
		case PrimLineStrip:
			dst.LineStrip(c.Vertices, c.Material)
		case PrimPoints:
			dst.Points(c.Vertices, c.Material)
		case PrimLight:
			dst.Light(c.LightID, c.Vertices[0], c.Material)
		}
	}
}

// Reset discards all recorded commands.
func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }
