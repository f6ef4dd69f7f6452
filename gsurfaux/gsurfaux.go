// Package gsurfaux provides auxiliary helpers to get the surface on screen or on disk
// quickly: an interactive viewer window and offline STL/PNG/GLSL export.
package gsurfaux

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/soypat/gsurf"
	"github.com/soypat/gsurf/glbuild"
	"github.com/soypat/gsurf/glrender"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// UIConfig configures the interactive viewer started by [UI].
type UIConfig struct {
	// Window size in screen coordinates. Zero values default to 800.
	Width, Height int
	// Grid is the initial tessellation density. Zero value defaults to [gsurf.DefaultGrid].
	Grid gsurf.Grid
	// FPS caps the redraw rate. Zero value defaults to [glrender.DefaultFPS].
	FPS int
	// Context may be set to stop the viewer before the window is closed.
	Context context.Context
	// Logger receives diagnostics such as rejected density input. Defaults to [log.Default].
	Logger *log.Logger
	// Shaders optionally replaces the built-in shader pipeline with a combined
	// "#shader vertex"/"#shader fragment" source.
	Shaders io.Reader
	// Densities optionally supplies tessellation density changes, see [ReadDensities].
	Densities <-chan gsurf.Grid
}

// UI opens a window rendering the surface until the window is closed or cfg.Context is done.
// Drag with the left mouse button to rotate. Arrow keys change the tessellation density.
// Must be called from the main goroutine with the OS thread locked.
func UI(cfg UIConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	if cfg.Grid == (gsurf.Grid{}) {
		cfg.Grid = gsurf.DefaultGrid()
	}
	if err := cfg.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDensity, err)
	}
	if cfg.FPS == 0 {
		cfg.FPS = glrender.DefaultFPS
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return ui(cfg)
}

// RenderConfig configures offline export by [Render]. At least one output must be set.
type RenderConfig struct {
	Grid gsurf.Grid
	// STLOutput receives the mesh as binary STL.
	STLOutput io.Writer
	// ImageOutput receives a PNG height map of the surface.
	ImageOutput io.Writer
	// ImageSize is the side length of the height map in pixels. Defaults to 512.
	ImageSize int
	// Colors converts heights in [0, π] to colors. Defaults to a blue to yellow gradient.
	Colors func(z float32) color.Color
	// ShaderOutput receives the combined GLSL source of the viewer's pipeline.
	ShaderOutput io.Writer
	Silent       bool
}

// Render is an auxiliary function to export the tessellated surface.
func Render(cfg RenderConfig) (err error) {
	if cfg.STLOutput == nil && cfg.ImageOutput == nil && cfg.ShaderOutput == nil {
		return errors.New("Render requires output parameter in config")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	if cfg.Grid == (gsurf.Grid{}) {
		cfg.Grid = gsurf.DefaultGrid()
	}
	if err = cfg.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDensity, err)
	}

	if cfg.STLOutput != nil {
		watch := stopwatch()
		mesh := gsurf.NewMesh(cfg.Grid)
		renderer, err := glrender.NewMeshRenderer(mesh)
		if err != nil {
			return err
		}
		triangles, err := glrender.RenderAll(renderer, nil)
		if err != nil {
			return fmt.Errorf("rendering triangles: %s", err)
		}
		log("tessellated", cfg.Grid.String(), "grid into", len(triangles), "triangles in", watch())
		watch = stopwatch()
		w := bufio.NewWriter(cfg.STLOutput)
		_, err = glrender.WriteBinarySTL(w, triangles)
		if err != nil {
			return fmt.Errorf("writing STL file: %s", err)
		}
		if err = w.Flush(); err != nil {
			return fmt.Errorf("writing STL file: %s", err)
		}
		log("wrote", outputName(cfg.STLOutput, "STL"), "in", watch())
	}

	if cfg.ImageOutput != nil {
		watch := stopwatch()
		err = renderHeightMap(cfg)
		if err != nil {
			return err
		}
		log("wrote", outputName(cfg.ImageOutput, "PNG height map"), "in", watch())
	}

	if cfg.ShaderOutput != nil {
		_, err = glbuild.NewDefaultProgrammer().WriteCombined(cfg.ShaderOutput)
		if err != nil {
			return fmt.Errorf("writing GLSL: %s", err)
		}
		log("wrote", outputName(cfg.ShaderOutput, "GLSL source"))
	}
	return nil
}

func renderHeightMap(cfg RenderConfig) error {
	size := cfg.ImageSize
	if size <= 0 {
		size = 512
	}
	conv := cfg.Colors
	if conv == nil {
		conv = ColorConversionLinearGradient(0, math32.Pi, color.RGBA{B: 255, A: 255}, color.RGBA{R: 255, G: 220, A: 255})
	}
	renderer, err := glrender.NewHeightMapRenderer(conv)
	if err != nil {
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	err = renderer.Render(img)
	if err != nil {
		return err
	}
	drawCaption(img, "u,v in [-pi,pi]  grid "+cfg.Grid.String())
	return png.Encode(cfg.ImageOutput, img)
}

// drawCaption writes text in the top left corner of dst.
func drawCaption(dst draw.Image, text string) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(dst.Bounds().Min.X+4, dst.Bounds().Min.Y+face.Ascent+2),
	}
	d.DrawString(text)
}

func outputName(w io.Writer, fallback string) string {
	if fp, ok := w.(*os.File); ok {
		return fp.Name()
	}
	return fallback
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
