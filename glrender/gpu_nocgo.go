//go:build tinygo || !cgo

package glrender

import (
	"errors"
	"io"

	"github.com/soypat/gsurf"
	"github.com/soypat/gsurf/glbuild"
)

var errNoCGO = errors.New("GPU rendering requires CGo and is not supported on TinyGo")

type Pipeline struct {
	Handles ShaderHandles
}

func CompilePipeline(src glbuild.ShaderSource) (*Pipeline, error) {
	return nil, errNoCGO
}

func CompilePipelineCombined(r io.Reader) (*Pipeline, error) {
	return nil, errNoCGO
}

type GeometryBuffer struct{}

func NewGeometryBuffer() (*GeometryBuffer, error) {
	return nil, errNoCGO
}

func (gb *GeometryBuffer) Upload(m *gsurf.Mesh) error { return errNoCGO }

func (gb *GeometryBuffer) Count() int { return 0 }
