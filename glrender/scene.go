package glrender

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// LightOrbit describes a point light circling the scene at a fixed height.
type LightOrbit struct {
	Radius float32
	Height float32
	// Speed is the angular speed in radians per millisecond.
	Speed float32
	// ZOffset shifts the orbit center along z.
	ZOffset float32
}

// Position returns the light position at time t.
func (lo LightOrbit) Position(t time.Duration) mgl32.Vec3 {
	// float64 keeps the angle accurate for long running sessions.
	angle := float64(lo.Speed) * float64(t) / float64(time.Millisecond)
	s, c := math.Sincos(angle)
	return mgl32.Vec3{
		lo.Radius * float32(c),
		lo.Height,
		lo.Radius*float32(s) + lo.ZOffset,
	}
}

// Scene holds the fixed camera, model placement and lighting parameters of the
// single surface object. Every frame is recomputed from scratch by [Scene.Frame].
type Scene struct {
	// Vertical field of view in radians.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
	// Tilt is the model rotation about the x axis in radians.
	Tilt float32
	// Offset translates the model after tilting.
	Offset       mgl32.Vec3
	Light        LightOrbit
	ViewPosition mgl32.Vec3
	Color        mgl32.Vec4
	Ambient      float32
	Specular     float32
	Shininess    float32
}

// DefaultScene returns the scene the surface viewer renders.
func DefaultScene() Scene {
	return Scene{
		FOV:    math.Pi / 8,
		Aspect: 1,
		Near:   1,
		Far:    60,
		Tilt:   -math.Pi / 6,
		Offset: mgl32.Vec3{0, 0, -20},
		Light: LightOrbit{
			Radius:  15,
			Height:  15,
			Speed:   0.001,
			ZOffset: -20,
		},
		ViewPosition: mgl32.Vec3{0, 0, 30},
		Color:        mgl32.Vec4{0, 0, 1, 1},
		Ambient:      0.1,
		Specular:     0.5,
		Shininess:    10,
	}
}

// FrameUniforms are the per-frame values written to the shader pipeline.
type FrameUniforms struct {
	ModelViewProjection mgl32.Mat4
	ModelView           mgl32.Mat4
	Light               mgl32.Vec3
	ViewPosition        mgl32.Vec3
	Color               mgl32.Vec4
	Ambient             float32
	Specular            float32
	Shininess           float32
}

// Projection returns the perspective projection matrix.
func (s Scene) Projection() mgl32.Mat4 {
	return mgl32.Perspective(s.FOV, s.Aspect, s.Near, s.Far)
}

// ModelView composes the tilt and offset with the view matrix obtained from the rotation input.
func (s Scene) ModelView(view mgl32.Mat4) mgl32.Mat4 {
	tilt := mgl32.HomogRotate3DX(s.Tilt)
	offset := mgl32.Translate3D(s.Offset[0], s.Offset[1], s.Offset[2])
	return offset.Mul4(tilt.Mul4(view))
}

// Frame computes the uniforms for the frame at time t.
func (s Scene) Frame(view mgl32.Mat4, t time.Duration) FrameUniforms {
	mv := s.ModelView(view)
	return FrameUniforms{
		ModelViewProjection: s.Projection().Mul4(mv),
		ModelView:           mv,
		Light:               s.Light.Position(t),
		ViewPosition:        s.ViewPosition,
		Color:               s.Color,
		Ambient:             s.Ambient,
		Specular:            s.Specular,
		Shininess:           s.Shininess,
	}
}
