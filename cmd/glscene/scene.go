package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// sceneConfig is the TOML scene description.
type sceneConfig struct {
	View    viewConfig     `toml:"view"`
	Objects []objectConfig `toml:"object"`
}

type viewConfig struct {
	// what position (point) to look at
	LookAt []float64 `toml:"lookat"`
	// which way is up (direction)
	Up []float64 `toml:"up"`
	// where the camera/eye located at (point)
	Eye  []float64 `toml:"eye"`
	FovY float64   `toml:"fovy"`
	Near float64   `toml:"near"`
	Far  float64   `toml:"far"`
}

type objectConfig struct {
	// Kind is one of faceset, marker, line, sphere, tube or light.
	Kind string `toml:"kind"`
	// STL is a binary STL file loaded as a faceset. Relative paths
	// are resolved against the scene file directory.
	STL    string    `toml:"stl"`
	Points []float64 `toml:"points"`
	Polys  []int     `toml:"polys"`
	Params []float64 `toml:"params"`
	Style  uint      `toml:"style"`
	// Color is RGBA, alpha optional.
	Color     []float32 `toml:"color"`
	Selected  bool      `toml:"selected"`
	Wireframe bool      `toml:"wireframe"`
	Shift     []float64 `toml:"shift"`
	Stretch   []float64 `toml:"stretch"`
	// Light, Position and Bulb configure lights.
	Light    uint32    `toml:"light"`
	Position []float64 `toml:"position"`
	Bulb     float32   `toml:"bulb"`
}

// openScene reads the scene description at filename.
func openScene(filename string) (sceneConfig, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return sceneConfig{}, err
	}
	defer fp.Close()
	return readScene(bufio.NewReader(fp))
}

func readScene(r io.Reader) (cfg sceneConfig, err error) {
	err = toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return cfg, errors.New(strict.String())
	}
	return cfg, err
}

func vec3(field string, v []float64, def r3.Vec) (r3.Vec, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	}
	return def, fmt.Errorf("%s needs 3 values, got %d", field, len(v))
}

// view returns the camera of the scene, defaulting unset fields to
// render.DefaultView.
func (vc viewConfig) view(aspect float64) (v render.View, err error) {
	v = render.DefaultView
	v.Aspect = aspect
	if v.LookAt, err = vec3("view.lookat", vc.LookAt, v.LookAt); err != nil {
		return v, err
	}
	if v.Up, err = vec3("view.up", vc.Up, v.Up); err != nil {
		return v, err
	}
	if v.Eye, err = vec3("view.eye", vc.Eye, v.Eye); err != nil {
		return v, err
	}
	if vc.FovY > 0 {
		v.FovY = vc.FovY
	}
	if vc.Near > 0 {
		v.Near = vc.Near
	}
	if vc.Far > 0 {
		v.Far = vc.Far
	}
	if v.Near >= v.Far {
		return v, fmt.Errorf("view near %g not below far %g", v.Near, v.Far)
	}
	return v, nil
}

var kinds = map[string]glscene.Kind{
	"faceset": glscene.KindFaceSet,
	"marker":  glscene.KindPolyMarker,
	"line":    glscene.KindPolyLine,
	"sphere":  glscene.KindSphere,
	"tube":    glscene.KindTube,
}

// buildList constructs the scene objects in file order and links them
// into a traversal list. dir resolves relative STL paths.
func buildList(cfg sceneConfig, dir string) (*glscene.List, error) {
	var (
		l    glscene.List
		prev glscene.Handle
	)
	for i, oc := range cfg.Objects {
		obj, err := oc.build(uint32(i+1), glscene.RealObject(i+1), dir)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, oc.Kind, err)
		}
		h := l.Add(obj)
		if prev.IsNil() {
			err = l.SetHead(h)
		} else {
			err = l.SetNext(prev, h)
		}
		if err != nil {
			return nil, err
		}
		prev = h
	}
	return &l, nil
}

func (oc objectConfig) build(glName uint32, real glscene.RealObject, dir string) (glscene.Object, error) {
	color := glscene.Color{}
	switch len(oc.Color) {
	case 0:
	case 3:
		color = glscene.RGBA(oc.Color[0], oc.Color[1], oc.Color[2], 1)
	case 4:
		color = glscene.RGBA(oc.Color[0], oc.Color[1], oc.Color[2], oc.Color[3])
	default:
		return nil, fmt.Errorf("color needs 3 or 4 values, got %d", len(oc.Color))
	}
	var obj glscene.Object
	if oc.Kind == "light" {
		pos, err := vec3("position", oc.Position, r3.Vec{})
		if err != nil {
			return nil, err
		}
		light := glscene.NewSimpleLight(glName, oc.Light, color, pos)
		if oc.Bulb > 0 {
			light.SetBulbRadius(oc.Bulb)
		}
		obj = light
	} else {
		kind, ok := kinds[oc.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", oc.Kind)
		}
		buf := glscene.Buffer3D{
			Kind:   kind,
			Points: oc.Points,
			Polys:  oc.Polys,
			Params: oc.Params,
			Style:  glscene.MarkerStyle(oc.Style),
		}
		if oc.STL != "" {
			if kind != glscene.KindFaceSet {
				return nil, errors.New("stl only supported for faceset")
			}
			path := oc.STL
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			var err error
			buf, err = loadSTL(path)
			if err != nil {
				return nil, err
			}
		}
		var err error
		obj, err = glscene.New(buf, color, glName, real)
		if err != nil {
			return nil, err
		}
	}
	if shift, err := vec3("shift", oc.Shift, r3.Vec{}); err != nil {
		return nil, err
	} else if shift != (r3.Vec{}) {
		obj.Shift(shift.X, shift.Y, shift.Z)
	}
	if stretch, err := vec3("stretch", oc.Stretch, r3.Vec{X: 1, Y: 1, Z: 1}); err != nil {
		return nil, err
	} else if stretch != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		obj.Stretch(stretch.X, stretch.Y, stretch.Z)
	}
	obj.Base().Select(oc.Selected)
	obj.Base().SetWireframe(oc.Wireframe)
	return obj, nil
}

// loadSTL reads a binary STL file into a faceset buffer. Every facet
// gets its own three raw points, which FaceSet construction merges.
func loadSTL(path string) (glscene.Buffer3D, error) {
	fp, err := os.Open(path)
	if err != nil {
		return glscene.Buffer3D{}, err
	}
	defer fp.Close()
	tris, err := render.ReadSTL(bufio.NewReader(fp))
	if errors.Is(err, render.ErrNormalMismatch) {
		log.Printf("%s: %v", path, err)
	} else if err != nil {
		return glscene.Buffer3D{}, err
	}
	buf := glscene.Buffer3D{
		Kind:   glscene.KindFaceSet,
		Points: make([]float64, 0, 9*len(tris)),
		Polys:  make([]int, 0, 4*len(tris)),
	}
	for i, t := range tris {
		for _, v := range t.V {
			buf.Points = append(buf.Points, v.X, v.Y, v.Z)
		}
		buf.Polys = append(buf.Polys, 3, 3*i, 3*i+1, 3*i+2)
	}
	return buf, nil
}
