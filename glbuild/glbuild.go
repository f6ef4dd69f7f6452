// Package glbuild generates the GLSL sources of the flat shaded surface pipeline.
package glbuild

import (
	"bytes"
	"errors"
	"io"
	"strconv"
)

// VersionStr is the default GLSL version directive.
const VersionStr = "#version 460\n"

// Names of the vertex attributes and uniforms declared by the generated sources.
const (
	AttribVertex = "vertex"
	AttribNormal = "normal"

	UniformModelViewProjection = "ModelViewProjectionMatrix"
	UniformModelView           = "ModelViewMatrix"
	UniformColor               = "color"
	UniformLightPosition       = "lightPosition"
	UniformViewPosition        = "viewPosition"
	UniformAmbientStrength     = "ambientStrength"
	UniformSpecularStrength    = "specularStrength"
	UniformShininess           = "shininess"
)

// ShaderSource holds null terminated vertex and fragment sources ready for compilation.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// Programmer writes the surface pipeline shaders.
type Programmer struct {
	version []byte
	scratch []byte
}

// NewDefaultProgrammer returns a Programmer with reasonable default parameters for use with glgl package on the local machine.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		version: []byte(VersionStr),
		scratch: make([]byte, 0, 2048),
	}
}

// SetVersion sets the GLSL version number written in the version directive, i.e: 410 for "#version 410".
func (p *Programmer) SetVersion(v int) error {
	if v < 330 {
		return errors.New("GLSL version must be at least 330")
	}
	p.version = append(strconv.AppendInt([]byte("#version "), int64(v), 10), '\n')
	return nil
}

// WriteVertex writes the vertex shader to w. It transforms positions by the
// projection-view-model matrix and passes view space position and normal to the fragment stage.
func (p *Programmer) WriteVertex(w io.Writer) (int, error) {
	b := append(p.scratch[:0], p.version...)
	b = AppendInDecl(b, "vec3", AttribVertex)
	b = AppendInDecl(b, "vec3", AttribNormal)
	b = AppendUniformDecl(b, "mat4", UniformModelViewProjection)
	b = AppendUniformDecl(b, "mat4", UniformModelView)
	b = append(b, vertexBody...)
	p.scratch = b
	return w.Write(b)
}

// WriteFragment writes the fragment shader to w. It implements an
// ambient+diffuse+specular point light approximation over a solid color.
func (p *Programmer) WriteFragment(w io.Writer) (int, error) {
	b := append(p.scratch[:0], p.version...)
	b = AppendUniformDecl(b, "vec4", UniformColor)
	b = AppendUniformDecl(b, "vec3", UniformLightPosition)
	b = AppendUniformDecl(b, "vec3", UniformViewPosition)
	b = AppendUniformDecl(b, "float", UniformAmbientStrength)
	b = AppendUniformDecl(b, "float", UniformSpecularStrength)
	b = AppendUniformDecl(b, "float", UniformShininess)
	b = append(b, fragmentBody...)
	p.scratch = b
	return w.Write(b)
}

// Source returns the null terminated sources of both stages.
func (p *Programmer) Source() (ShaderSource, error) {
	var vert, frag bytes.Buffer
	_, err := p.WriteVertex(&vert)
	if err != nil {
		return ShaderSource{}, err
	}
	_, err = p.WriteFragment(&frag)
	if err != nil {
		return ShaderSource{}, err
	}
	vert.WriteByte(0)
	frag.WriteByte(0)
	return ShaderSource{Vertex: vert.String(), Fragment: frag.String()}, nil
}

// WriteCombined writes both stages in the combined "#shader <stage>" format parsed by glgl.ParseCombined.
func (p *Programmer) WriteCombined(w io.Writer) (n int, err error) {
	ngot, err := io.WriteString(w, "#shader vertex\n")
	n += ngot
	if err != nil {
		return n, err
	}
	ngot, err = p.WriteVertex(w)
	n += ngot
	if err != nil {
		return n, err
	}
	ngot, err = io.WriteString(w, "\n#shader fragment\n")
	n += ngot
	if err != nil {
		return n, err
	}
	ngot, err = p.WriteFragment(w)
	n += ngot
	return n, err
}

// AppendInDecl appends a stage input declaration.
func AppendInDecl(b []byte, typename, name string) []byte {
	return appendDecl(b, "in ", typename, name)
}

// AppendUniformDecl appends a uniform declaration.
func AppendUniformDecl(b []byte, typename, name string) []byte {
	return appendDecl(b, "uniform ", typename, name)
}

func appendDecl(b []byte, qualifier, typename, name string) []byte {
	b = append(b, qualifier...)
	b = append(b, typename...)
	b = append(b, ' ')
	b = append(b, name...)
	return append(b, ";\n"...)
}

const vertexBody = `
out vec3 vNormal;
out vec3 vPosition;

void main() {
	vec4 pos = ModelViewMatrix * vec4(vertex, 1.0);
	vPosition = pos.xyz;
	vNormal = normalize(mat3(ModelViewMatrix) * normal);
	gl_Position = ModelViewProjectionMatrix * vec4(vertex, 1.0);
}
`

const fragmentBody = `
in vec3 vNormal;
in vec3 vPosition;
out vec4 fragColor;

void main() {
	vec3 n = normalize(vNormal);
	vec3 lightDir = normalize(lightPosition - vPosition);
	vec3 viewDir = normalize(viewPosition - vPosition);

	vec3 ambient = ambientStrength * color.rgb;
	float diff = max(dot(n, lightDir), 0.0);
	vec3 diffuse = diff * color.rgb;
	vec3 reflectDir = reflect(-lightDir, n);
	float spec = pow(max(dot(viewDir, reflectDir), 0.0), shininess);
	vec3 specular = specularStrength * spec * vec3(1.0);

	fragColor = vec4(ambient + diffuse + specular, color.a);
}
`
