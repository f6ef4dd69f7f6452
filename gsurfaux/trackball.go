package gsurfaux

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Trackball turns pointer drags over a window into a view rotation.
// Window points are projected onto a virtual unit sphere centered in the window
// and each drag rotates the view by the arc between consecutive projected points.
type Trackball struct {
	width, height float32
	rotation      mgl32.Quat
	viewDistance  float32
	dragging      bool
	prev          mgl32.Vec3
}

// NewTrackball returns a Trackball for a window of the given size in screen coordinates.
func NewTrackball(width, height int) *Trackball {
	return &Trackball{
		width:    float32(max(width, 1)),
		height:   float32(max(height, 1)),
		rotation: mgl32.QuatIdent(),
	}
}

// Press starts a drag at window position x, y.
func (tb *Trackball) Press(x, y float64) {
	tb.dragging = true
	tb.prev = tb.project(x, y)
}

// Drag rotates the view following the pointer to x, y. It does nothing if no drag is in progress.
func (tb *Trackball) Drag(x, y float64) {
	if !tb.dragging {
		return
	}
	cur := tb.project(x, y)
	axis := tb.prev.Cross(cur)
	axisLen := axis.Len()
	if axisLen < 1e-6 {
		return
	}
	angle := math32.Acos(mgl32.Clamp(tb.prev.Dot(cur), -1, 1))
	q := mgl32.QuatRotate(angle, axis.Mul(1/axisLen))
	tb.rotation = q.Mul(tb.rotation).Normalize()
	tb.prev = cur
}

// Release ends the drag in progress.
func (tb *Trackball) Release() { tb.dragging = false }

// Dragging reports whether a drag is in progress.
func (tb *Trackball) Dragging() bool { return tb.dragging }

// SetViewDistance sets the distance the camera is pulled back from the rotation center.
func (tb *Trackball) SetViewDistance(d float32) { tb.viewDistance = d }

// Reset discards the accumulated rotation.
func (tb *Trackball) Reset() {
	tb.rotation = mgl32.QuatIdent()
	tb.dragging = false
}

// ViewMatrix returns the current view transform.
func (tb *Trackball) ViewMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -tb.viewDistance).Mul4(tb.rotation.Mat4())
}

// project maps a window point onto the unit sphere, or onto its silhouette
// circle when outside of it. Window y grows downwards.
func (tb *Trackball) project(x, y float64) mgl32.Vec3 {
	radius := math32.Min(tb.width, tb.height) / 2
	px := (float32(x) - tb.width/2) / radius
	py := (tb.height/2 - float32(y)) / radius
	r2 := px*px + py*py
	if r2 <= 1 {
		return mgl32.Vec3{px, py, math32.Sqrt(1 - r2)}
	}
	r := math32.Sqrt(r2)
	return mgl32.Vec3{px / r, py / r, 0}
}
