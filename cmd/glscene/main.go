// Command glscene renders a TOML scene description to a PNG image or
// an STL file, chosen by the output file extension.
//
//	glscene -o scene.png testdata/scene.toml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/gl/all-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/render"
	"github.com/soypat/glscene/render/glbackend"
)

const (
	// Scale down images relative to Full HD resolution.
	FHDscaler = 0.4
	// optional supersampling
	scale = 2
)

func init() {
	// GL calls must come from the thread that owns the context.
	runtime.LockOSThread()
}

func main() {
	var (
		output = flag.String("o", "scene.png", "output file, .png or .stl")
		width  = flag.Int("w", int(1920*FHDscaler), "image width in pixels")
		height = flag.Int("h", int(1080*FHDscaler), "image height in pixels")
		useGL  = flag.Bool("gl", false, "render PNG with OpenGL instead of the software rasterizer")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scene.toml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	sceneFile := flag.Arg(0)
	cfg, err := openScene(sceneFile)
	if err != nil {
		log.Fatal(err)
	}
	list, err := buildList(cfg, filepath.Dir(sceneFile))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s: %d objects", sceneFile, list.Len())

	switch ext := strings.ToLower(filepath.Ext(*output)); ext {
	case ".stl":
		var mesh render.Mesh
		list.Draw(&mesh, nil)
		err = render.CreateSTL(*output, &mesh)
		if err == nil {
			log.Printf("wrote %s (%s)", *output, getHumanSize(*output))
		}
	case ".png":
		view, verr := cfg.View.view(float64(*width) / float64(*height))
		if verr != nil {
			log.Fatal(verr)
		}
		fr := render.NewFrustum(view)
		if *useGL {
			err = renderGL(list, fr, *output, *width, *height)
		} else {
			raster := render.NewRaster(fr, *width, *height, scale)
			list.Draw(raster, fr)
			err = raster.SavePNG(*output)
		}
	default:
		log.Fatalf("unsupported output extension %q", ext)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// renderGL draws the scene in a window's default framebuffer and reads
// the result back into a PNG.
func renderGL(list *glscene.List, fr *render.Frustum, output string, width, height int) error {
	_, terminate, err := glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "glscene",
		Version: [2]int{4, 6},
		Width:   width,
		Height:  height,
	})
	if err != nil {
		return fmt.Errorf("FAIL to start GLFW: %w", err)
	}
	defer terminate()
	backend, err := glbackend.New(fr)
	if err != nil {
		return err
	}
	defer backend.Delete()
	gl.Viewport(0, 0, int32(width), int32(height))
	backend.Clear([4]float32{1, 0.973, 0.89, 1}) // #FFF8E3
	list.Draw(backend, fr)
	backend.Flush()
	gl.Finish()
	return fauxgl.SavePNG(output, backend.ReadImage(width, height))
}

func getHumanSize(fileName string) (size string) {
	const (
		kB = 1000
		MB = 1000 * kB
		GB = 1000 * MB
	)
	info, err := os.Stat(fileName)
	if err != nil {
		log.Fatal(err)
	}
	bytes := info.Size()
	switch {
	case bytes < 10*kB:
		size = fmt.Sprintf("%dB", bytes)
	case bytes < 10*MB:
		size = fmt.Sprintf("%dkB", bytes/kB)
	case bytes < 10*GB:
		size = fmt.Sprintf("%dMB", bytes/MB)
	default:
		size = fmt.Sprintf("%dGB", bytes/GB)
	}
	return size
}
