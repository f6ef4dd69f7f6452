// Package gsurf tessellates the parametric surface derived from the quartic
// implicit relation cos(z) = (-3cos(u) - 3cos(v)) / (3 + 4cos(u)cos(v)) into
// flat shaded triangle meshes ready for GPU upload.
package gsurf

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const (
	// Parameter domain of u and v.
	paramMin = -math32.Pi
	paramMax = math32.Pi
	// MaxVertices is the amount of vertices addressable by 16 bit indices.
	MaxVertices = 1 << 16
	// DefaultSteps is the tessellation density used on startup.
	DefaultSteps = 25
)

// Grid is the tessellation density of the surface: the amount of equal
// intervals the u and v parameter ranges are split into.
type Grid struct {
	USteps int
	VSteps int
}

// DefaultGrid returns the startup tessellation density.
func DefaultGrid() Grid {
	return Grid{USteps: DefaultSteps, VSteps: DefaultSteps}
}

// NumVertices returns the amount of sample points the grid generates.
func (g Grid) NumVertices() int { return (g.USteps + 1) * (g.VSteps + 1) }

// NumTriangles returns the amount of triangles the grid generates.
func (g Grid) NumTriangles() int { return 2 * g.USteps * g.VSteps }

// Validate returns a non-nil error if the grid can not be tessellated into a valid mesh.
// [NewMesh] does not validate its input so callers are expected to call Validate first.
func (g Grid) Validate() error {
	if g.USteps <= 0 || g.VSteps <= 0 {
		return fmt.Errorf("steps must be positive, got u=%d v=%d", g.USteps, g.VSteps)
	}
	if g.USteps >= MaxVertices || g.VSteps >= MaxVertices || g.NumVertices() > MaxVertices {
		return errors.New("grid vertex count overflows 16 bit index range")
	}
	return nil
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.USteps, g.VSteps)
}

// Sample evaluates the surface at parameters u, v in [-π, π]. The parameters are
// reused directly as the x and y coordinates of the returned point.
// Near the zeros of the denominator the ratio may leave [-1, 1] so it is clamped before acos,
// which may produce visible discontinuities in z.
func Sample(u, v float32) ms3.Vec {
	cu := math32.Cos(u)
	cv := math32.Cos(v)
	ratio := (-3*cu - 3*cv) / (3 + 4*cu*cv)
	return ms3.Vec{X: u, Y: v, Z: math32.Acos(clampf(ratio, -1, 1))}
}

// clampf clamps v to [Min, Max]. NaN maps to Max.
func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v <= Max {
		return v
	}
	return Max
}
