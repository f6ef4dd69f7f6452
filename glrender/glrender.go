// Package glrender draws tessellated surfaces with OpenGL and exports them
// as STL triangles or height map images.
package glrender

import (
	"errors"
	"io"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsurf"
)

// Renderer is a source of triangles.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.RenderAll implementation.
func RenderAll(r Renderer, userData any) ([]ms3.Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, startSize)
	buf := make([]ms3.Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf, userData)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// MeshRenderer streams the triangles of a [gsurf.Mesh] in index order.
type MeshRenderer struct {
	mesh *gsurf.Mesh
	next int
}

// NewMeshRenderer returns a [Renderer] over the triangles of m.
func NewMeshRenderer(m *gsurf.Mesh) (*MeshRenderer, error) {
	if m == nil {
		return nil, errors.New("nil mesh")
	}
	return &MeshRenderer{mesh: m}, nil
}

// ReadTriangles implements [Renderer]. userData is ignored.
func (mr *MeshRenderer) ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error) {
	if len(dst) == 0 {
		return 0, errors.New("empty triangle buffer")
	}
	ntri := mr.mesh.NumTriangles()
	for n < len(dst) && mr.next < ntri {
		dst[n] = mr.mesh.TriangleVertices(mr.next)
		n++
		mr.next++
	}
	if mr.next >= ntri {
		return n, io.EOF
	}
	return n, nil
}

// Reset rewinds the renderer to the first triangle of m.
func (mr *MeshRenderer) Reset(m *gsurf.Mesh) error {
	if m == nil {
		return errors.New("nil mesh")
	}
	mr.mesh = m
	mr.next = 0
	return nil
}
