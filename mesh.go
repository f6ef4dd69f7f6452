package gsurf

import (
	"github.com/soypat/geometry/ms3"
)

// Mesh is a flat shaded triangle mesh stored in flat arrays ready for GPU upload.
// Positions are shared between triangles through Indices while normals are stored
// once per index occurrence: every triangle carries its own face normal replicated
// to its three corners, so len(Normals) == 3*len(Indices).
//
// A Mesh is never modified after [NewMesh] returns it.
type Mesh struct {
	grid Grid
	// Vertices holds 3 floats (x,y,z) per vertex.
	Vertices []float32
	// Normals holds 3 floats per element of Indices.
	Normals []float32
	// Indices holds 3 vertex indices per triangle.
	Indices []uint16
}

// NewMesh samples the surface over a g.USteps by g.VSteps grid spanning [-π, π]²
// and triangulates it with two triangles per grid cell.
// The grid is not validated, see [Grid.Validate].
func NewMesh(g Grid) *Mesh {
	nu, nv := g.USteps, g.VSteps
	m := &Mesh{
		grid:     g,
		Vertices: make([]float32, 0, 3*g.NumVertices()),
		Indices:  make([]uint16, 0, 3*g.NumTriangles()),
		Normals:  make([]float32, 0, 9*g.NumTriangles()),
	}
	du := (paramMax - paramMin) / float32(nu)
	dv := (paramMax - paramMin) / float32(nv)
	// Row-major by v, then u.
	for i := 0; i <= nv; i++ {
		v := paramMin + float32(i)*dv
		for j := 0; j <= nu; j++ {
			u := paramMin + float32(j)*du
			p := Sample(u, v)
			m.Vertices = append(m.Vertices, p.X, p.Y, p.Z)
		}
	}
	for i := 0; i < nv; i++ {
		for j := 0; j < nu; j++ {
			idx1 := g.vertexOffset(i, j)
			idx2 := g.vertexOffset(i, j+1)
			idx3 := g.vertexOffset(i+1, j)
			idx4 := g.vertexOffset(i+1, j+1)
			m.Indices = append(m.Indices, idx1, idx2, idx3, idx2, idx4, idx3)
		}
	}
	ntri := m.NumTriangles()
	for t := 0; t < ntri; t++ {
		n := m.computeFaceNormal(t)
		m.Normals = append(m.Normals, n.X, n.Y, n.Z, n.X, n.Y, n.Z, n.X, n.Y, n.Z)
	}
	return m
}

// vertexOffset maps grid coordinates to the index of the vertex sampled there.
func (g Grid) vertexOffset(row, col int) uint16 {
	return uint16(row*(g.USteps+1) + col)
}

// Grid returns the tessellation density the mesh was built with.
func (m *Mesh) Grid() Grid { return m.grid }

// NumVertices returns the amount of distinct vertex positions.
func (m *Mesh) NumVertices() int { return len(m.Vertices) / 3 }

// NumTriangles returns the amount of triangles in the mesh.
func (m *Mesh) NumTriangles() int { return len(m.Indices) / 3 }

// NumNormals returns the amount of normal entries, equal to len(m.Indices).
func (m *Mesh) NumNormals() int { return len(m.Normals) / 3 }

// Vertex returns the position of the i'th vertex.
func (m *Mesh) Vertex(i int) ms3.Vec {
	return vecAt(m.Vertices, i)
}

// Normal returns the k'th normal entry, which corresponds to m.Indices[k].
func (m *Mesh) Normal(k int) ms3.Vec {
	return vecAt(m.Normals, k)
}

// Triangle returns the vertex indices of the t'th triangle.
func (m *Mesh) Triangle(t int) [3]uint16 {
	return [3]uint16{m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]}
}

// TriangleVertices returns the positions of the t'th triangle's vertices.
func (m *Mesh) TriangleVertices(t int) ms3.Triangle {
	tri := m.Triangle(t)
	return ms3.Triangle{m.Vertex(int(tri[0])), m.Vertex(int(tri[1])), m.Vertex(int(tri[2]))}
}

// FaceNormal returns the normal shared by the three corners of the t'th triangle.
func (m *Mesh) FaceNormal(t int) ms3.Vec {
	return m.Normal(3 * t)
}

// computeFaceNormal returns the normalized cross product of the t'th triangle's edges.
// Degenerate triangles yield non-finite components.
func (m *Mesh) computeFaceNormal(t int) ms3.Vec {
	tri := m.TriangleVertices(t)
	e1 := ms3.Sub(tri[1], tri[0])
	e2 := ms3.Sub(tri[2], tri[0])
	n := ms3.Cross(e1, e2)
	return ms3.Scale(1/ms3.Norm(n), n)
}

func vecAt(flat []float32, i int) ms3.Vec {
	return ms3.Vec{X: flat[3*i], Y: flat[3*i+1], Z: flat[3*i+2]}
}
