package glbuild_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soypat/gsurf/glbuild"
)

func TestSourceDeclaresHandles(t *testing.T) {
	programmer := glbuild.NewDefaultProgrammer()
	src, err := programmer.Source()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{src.Vertex, src.Fragment} {
		if !strings.HasPrefix(s, glbuild.VersionStr) {
			t.Errorf("missing version directive:\n%s", s)
		}
		if !strings.HasSuffix(s, "\x00") {
			t.Error("source not null terminated")
		}
		if strings.Count(s, "\x00") != 1 {
			t.Error("source contains interior null bytes")
		}
	}
	for _, decl := range []string{
		"in vec3 " + glbuild.AttribVertex + ";",
		"in vec3 " + glbuild.AttribNormal + ";",
		"uniform mat4 " + glbuild.UniformModelViewProjection + ";",
		"uniform mat4 " + glbuild.UniformModelView + ";",
	} {
		if !strings.Contains(src.Vertex, decl) {
			t.Errorf("vertex shader missing %q", decl)
		}
	}
	for _, decl := range []string{
		"uniform vec4 " + glbuild.UniformColor + ";",
		"uniform vec3 " + glbuild.UniformLightPosition + ";",
		"uniform vec3 " + glbuild.UniformViewPosition + ";",
		"uniform float " + glbuild.UniformAmbientStrength + ";",
		"uniform float " + glbuild.UniformSpecularStrength + ";",
		"uniform float " + glbuild.UniformShininess + ";",
	} {
		if !strings.Contains(src.Fragment, decl) {
			t.Errorf("fragment shader missing %q", decl)
		}
	}
}

func TestSetVersion(t *testing.T) {
	programmer := glbuild.NewDefaultProgrammer()
	if err := programmer.SetVersion(120); err == nil {
		t.Error("expected error for old GLSL version")
	}
	if err := programmer.SetVersion(410); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := programmer.WriteVertex(&buf)
	if err != nil {
		t.Fatal(err)
	} else if n != buf.Len() {
		t.Fatal("written length mismatch")
	}
	if !strings.HasPrefix(buf.String(), "#version 410\n") {
		t.Errorf("want version 410 directive, got:\n%s", buf.String())
	}
}

func TestWriteCombined(t *testing.T) {
	programmer := glbuild.NewDefaultProgrammer()
	var buf bytes.Buffer
	n, err := programmer.WriteCombined(&buf)
	if err != nil {
		t.Fatal(err)
	} else if n != buf.Len() {
		t.Fatalf("wrote %d bytes but counted %d", buf.Len(), n)
	}
	src := buf.String()
	iv := strings.Index(src, "#shader vertex\n")
	ifr := strings.Index(src, "#shader fragment\n")
	if iv != 0 || ifr < iv {
		t.Fatalf("bad stage markers in combined source:\n%s", src)
	}
	if strings.Contains(src[:ifr], "uniform vec4 "+glbuild.UniformColor) {
		t.Error("fragment uniform leaked into vertex stage")
	}
}
