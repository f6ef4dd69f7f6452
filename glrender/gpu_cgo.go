//go:build !tinygo && cgo

package glrender

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gsurf"
	"github.com/soypat/gsurf/glbuild"
)

// Pipeline is a linked vertex+fragment program with its attribute and uniform handles resolved.
type Pipeline struct {
	prog    glgl.Program
	Handles ShaderHandles
}

// CompilePipeline compiles and links the shader sources. On failure a
// [*CompilationError] is returned and no program is left bound.
func CompilePipeline(src glbuild.ShaderSource) (*Pipeline, error) {
	return compilePipeline(glgl.ShaderSource{Vertex: src.Vertex, Fragment: src.Fragment})
}

// CompilePipelineCombined parses a combined "#shader vertex"/"#shader fragment" source,
// such as the one written by [glbuild.Programmer.WriteCombined], and compiles it.
func CompilePipelineCombined(r io.Reader) (*Pipeline, error) {
	src, err := glgl.ParseCombined(r)
	if err != nil {
		return nil, fmt.Errorf("parsing shader: %w", err)
	}
	return compilePipeline(src)
}

func compilePipeline(src glgl.ShaderSource) (*Pipeline, error) {
	prog, err := glgl.CompileProgram(src)
	if err != nil {
		gl.UseProgram(0)
		return nil, &CompilationError{Log: err.Error()}
	}
	prog.Bind()
	id := prog.ID()
	p := &Pipeline{
		prog: prog,
		Handles: ShaderHandles{
			Vertex:              attribLocation(id, glbuild.AttribVertex),
			Normal:              attribLocation(id, glbuild.AttribNormal),
			ModelViewProjection: uniformLocation(id, glbuild.UniformModelViewProjection),
			ModelView:           uniformLocation(id, glbuild.UniformModelView),
			Color:               uniformLocation(id, glbuild.UniformColor),
			LightPosition:       uniformLocation(id, glbuild.UniformLightPosition),
			ViewPosition:        uniformLocation(id, glbuild.UniformViewPosition),
			AmbientStrength:     uniformLocation(id, glbuild.UniformAmbientStrength),
			SpecularStrength:    uniformLocation(id, glbuild.UniformSpecularStrength),
			Shininess:           uniformLocation(id, glbuild.UniformShininess),
		},
	}
	return p, nil
}

// attribLocation returns -1 for attributes absent from the linked program.
func attribLocation(prog uint32, name string) int32 {
	return gl.GetAttribLocation(prog, gl.Str(name+"\x00"))
}

// uniformLocation returns -1 for uniforms absent from the linked program. GL ignores writes to -1.
func uniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

// Bind makes the pipeline's program current.
func (p *Pipeline) Bind() { p.prog.Bind() }

// Delete frees the program.
func (p *Pipeline) Delete() {
	p.prog.Unbind()
	p.prog.Delete()
}

// SetUniforms writes the frame uniforms to the currently bound program.
func (p *Pipeline) SetUniforms(u FrameUniforms) {
	h := p.Handles
	gl.UniformMatrix4fv(h.ModelViewProjection, 1, false, &u.ModelViewProjection[0])
	gl.UniformMatrix4fv(h.ModelView, 1, false, &u.ModelView[0])
	gl.Uniform3f(h.LightPosition, u.Light[0], u.Light[1], u.Light[2])
	gl.Uniform3f(h.ViewPosition, u.ViewPosition[0], u.ViewPosition[1], u.ViewPosition[2])
	gl.Uniform1f(h.AmbientStrength, u.Ambient)
	gl.Uniform1f(h.SpecularStrength, u.Specular)
	gl.Uniform1f(h.Shininess, u.Shininess)
	gl.Uniform4f(h.Color, u.Color[0], u.Color[1], u.Color[2], u.Color[3])
}

// GeometryBuffer holds GPU copies of a mesh's vertex, normal and index arrays.
type GeometryBuffer struct {
	vao   uint32
	vbo   uint32
	nbo   uint32
	ibo   uint32
	count int32
}

// NewGeometryBuffer allocates an empty GeometryBuffer. It requires a current GL context.
func NewGeometryBuffer() (*GeometryBuffer, error) {
	var gb GeometryBuffer
	gl.GenVertexArrays(1, &gb.vao)
	if gb.vao == 0 {
		return nil, glErrOrMessage("zero id for vertex array object")
	}
	var bufs [3]uint32
	gl.GenBuffers(int32(len(bufs)), &bufs[0])
	if bufs[0] == 0 || bufs[1] == 0 || bufs[2] == 0 {
		gl.DeleteVertexArrays(1, &gb.vao)
		return nil, glErrOrMessage("zero id for geometry buffers")
	}
	gb.vbo, gb.nbo, gb.ibo = bufs[0], bufs[1], bufs[2]
	return &gb, nil
}

// Count returns the amount of indices uploaded. Zero means the buffer is empty.
func (gb *GeometryBuffer) Count() int { return int(gb.count) }

// Upload replaces the contents of all three GPU arrays with the mesh's.
func (gb *GeometryBuffer) Upload(m *gsurf.Mesh) error {
	if m == nil {
		return errors.New("nil mesh")
	}
	gl.BindVertexArray(gb.vao)
	defer gl.BindVertexArray(0)
	bufferData(gl.ARRAY_BUFFER, gb.vbo, m.Vertices, 4)
	bufferData(gl.ARRAY_BUFFER, gb.nbo, m.Normals, 4)
	bufferData(gl.ELEMENT_ARRAY_BUFFER, gb.ibo, m.Indices, 2)
	gb.count = int32(len(m.Indices))
	return glgl.Err()
}

func bufferData[T float32 | uint16](target, buf uint32, data []T, elemSize int) {
	gl.BindBuffer(target, buf)
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(target, elemSize*len(data), gl.Ptr(data), gl.STATIC_DRAW)
}

// Draw issues an indexed triangle list draw of the uploaded arrays using the pipeline's attribute handles.
// Attributes absent from the program are skipped.
func (gb *GeometryBuffer) Draw(h ShaderHandles) {
	if gb.count == 0 {
		return
	}
	gl.BindVertexArray(gb.vao)
	defer gl.BindVertexArray(0)
	enableAttrib(h.Vertex, gb.vbo)
	enableAttrib(h.Normal, gb.nbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gb.ibo)
	gl.DrawElements(gl.TRIANGLES, gb.count, gl.UNSIGNED_SHORT, gl.PtrOffset(0))
}

func enableAttrib(loc int32, buf uint32) {
	if loc < 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.VertexAttribPointerWithOffset(uint32(loc), 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(uint32(loc))
}

// Delete frees the GPU arrays.
func (gb *GeometryBuffer) Delete() {
	bufs := [3]uint32{gb.vbo, gb.nbo, gb.ibo}
	gl.DeleteBuffers(int32(len(bufs)), &bufs[0])
	gl.DeleteVertexArrays(1, &gb.vao)
	*gb = GeometryBuffer{}
}

// Draw clears the framebuffer and draws the geometry with the frame uniforms.
func (s Scene) Draw(p *Pipeline, gb *GeometryBuffer, u FrameUniforms) error {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	p.Bind()
	p.SetUniforms(u)
	gb.Draw(p.Handles)
	return glgl.Err()
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}
