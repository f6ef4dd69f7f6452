//go:build !tinygo && cgo

package gsurfaux

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/gsurf"
	"github.com/soypat/gsurf/glbuild"
	"github.com/soypat/gsurf/glrender"
)

// RenderContext owns the GL resources and input state of the viewer.
// It is only touched from the thread running the render loop.
type RenderContext struct {
	tessellation
	window    *glfw.Window
	pipeline  *glrender.Pipeline
	geometry  *glrender.GeometryBuffer
	trackball *Trackball
	scene     glrender.Scene
}

func ui(cfg UIConfig) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer term()
	rc, err := newRenderContext(window, cfg)
	if err != nil {
		return err
	}
	defer rc.delete()
	rc.setCallbacks()

	limiter, err := glrender.NewFrameLimiter(cfg.FPS)
	if err != nil {
		return err
	}
	var (
		ctx       = cfg.Context
		densities = cfg.Densities
		start     = glfw.GetTime()
	)
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		glfw.PollEvents()
		select {
		case g, ok := <-densities:
			if !ok {
				densities = nil // Stop polling closed input.
				break
			}
			rc.queue(g)
		default:
		}
		rc.applyPending()
		now := time.Duration((glfw.GetTime() - start) * float64(time.Second))
		if !limiter.Tick(now) {
			time.Sleep(time.Second / 240)
			continue
		}
		err = rc.Draw(now)
		if err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}

func newRenderContext(window *glfw.Window, cfg UIConfig) (*RenderContext, error) {
	var (
		pipeline *glrender.Pipeline
		err      error
	)
	if cfg.Shaders != nil {
		pipeline, err = glrender.CompilePipelineCombined(cfg.Shaders)
	} else {
		var src glbuild.ShaderSource
		src, err = glbuild.NewDefaultProgrammer().Source()
		if err == nil {
			pipeline, err = glrender.CompilePipeline(src)
		}
	}
	if err != nil {
		return nil, err
	}
	geometry, err := glrender.NewGeometryBuffer()
	if err != nil {
		pipeline.Delete()
		return nil, err
	}
	width, height := window.GetSize()
	rc := &RenderContext{
		tessellation: tessellation{upload: geometry, log: cfg.Logger},
		window:       window,
		pipeline:     pipeline,
		geometry:     geometry,
		trackball:    NewTrackball(width, height),
		scene:        glrender.DefaultScene(),
	}
	rc.mesh = gsurf.NewMesh(cfg.Grid)
	err = geometry.Upload(rc.mesh)
	if err != nil {
		rc.delete()
		return nil, err
	}
	gl.Enable(gl.DEPTH_TEST)
	return rc, nil
}

// Draw renders the frame at time t since startup.
func (rc *RenderContext) Draw(t time.Duration) error {
	u := rc.scene.Frame(rc.trackball.ViewMatrix(), t)
	return rc.scene.Draw(rc.pipeline, rc.geometry, u)
}

func (rc *RenderContext) delete() {
	rc.geometry.Delete()
	rc.pipeline.Delete()
}

func (rc *RenderContext) setCallbacks() {
	window := rc.window
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			rc.trackball.Press(w.GetCursorPos())
		case glfw.Release:
			rc.trackball.Release()
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		rc.trackball.Drag(xpos, ypos)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		var du, dv int
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
			return
		case glfw.KeyHome:
			rc.trackball.Reset()
			return
		case glfw.KeyRight:
			du = 1
		case glfw.KeyLeft:
			du = -1
		case glfw.KeyUp:
			dv = 1
		case glfw.KeyDown:
			dv = -1
		default:
			return
		}
		g, err := StepDensity(rc.nextGrid(), du, dv)
		if err != nil {
			rc.log.Println(err)
			return
		}
		rc.queue(g)
	})
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("%w: initializing GLFW: %s", glrender.ErrContextUnavailable, err)
	}

	// Create GLFW window
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, "gsurf parametric surface", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("%w: creating window: %s", glrender.ErrContextUnavailable, err)
	}
	window.MakeContextCurrent()

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("%w: initializing OpenGL: %s", glrender.ErrContextUnavailable, err)
	}
	return window, glfw.Terminate, nil
}
