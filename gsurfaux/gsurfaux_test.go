package gsurfaux

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/gsurf"
)

func TestParseDensity(t *testing.T) {
	g, err := ParseDensity("25", " 40 ")
	if err != nil {
		t.Fatal(err)
	}
	if g != (gsurf.Grid{USteps: 25, VSteps: 40}) {
		t.Error("unexpected grid", g)
	}
	for _, bad := range [][2]string{
		{"0", "10"},
		{"10", "0"},
		{"-3", "10"},
		{"abc", "10"},
		{"10", ""},
		{"2.5", "10"},
		{"300", "300"},
	} {
		_, err := ParseDensity(bad[0], bad[1])
		if !errors.Is(err, ErrInvalidDensity) {
			t.Errorf("ParseDensity(%q,%q): want ErrInvalidDensity, got %v", bad[0], bad[1], err)
		}
	}
}

func TestParseDensityLine(t *testing.T) {
	g, err := ParseDensityLine("  8\t9 ")
	if err != nil {
		t.Fatal(err)
	} else if g != (gsurf.Grid{USteps: 8, VSteps: 9}) {
		t.Error("unexpected grid", g)
	}
	for _, bad := range []string{"", "8", "8 9 10", "x y"} {
		if _, err := ParseDensityLine(bad); !errors.Is(err, ErrInvalidDensity) {
			t.Errorf("ParseDensityLine(%q): want ErrInvalidDensity, got %v", bad, err)
		}
	}
}

func TestStepDensity(t *testing.T) {
	g, err := StepDensity(gsurf.Grid{USteps: 1, VSteps: 1}, 1, 0)
	if err != nil || g != (gsurf.Grid{USteps: 2, VSteps: 1}) {
		t.Error("unexpected step result", g, err)
	}
	_, err = StepDensity(gsurf.Grid{USteps: 1, VSteps: 1}, 0, -1)
	if !errors.Is(err, ErrInvalidDensity) {
		t.Error("stepping below one must be rejected, got", err)
	}
}

func TestReadDensities(t *testing.T) {
	var logbuf bytes.Buffer
	logger := log.New(&logbuf, "", 0)
	input := "10 12\n\n0 5\nfoo bar\n3 4\n"
	var got []gsurf.Grid
	for g := range ReadDensities(context.Background(), strings.NewReader(input), logger) {
		got = append(got, g)
	}
	want := []gsurf.Grid{{USteps: 10, VSteps: 12}, {USteps: 3, VSteps: 4}}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("want %v, got %v", want[i], got[i])
		}
	}
	if n := strings.Count(logbuf.String(), ErrInvalidDensity.Error()); n != 2 {
		t.Errorf("want 2 logged rejections, got %d:\n%s", n, logbuf.String())
	}
}

// endlessDensities yields valid density lines forever.
type endlessDensities struct{}

func (endlessDensities) Read(b []byte) (int, error) {
	const line = "4 4\n"
	n := 0
	for n+len(line) <= len(b) {
		n += copy(b[n:], line)
	}
	return n, nil
}

func TestReadDensitiesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	received := 0
	for range ReadDensities(ctx, endlessDensities{}, log.New(io.Discard, "", 0)) {
		received++
		if received > 1000 {
			t.Fatal("reader kept sending after context was canceled")
		}
	}
}

type fakeUploader struct {
	uploads int
	err     error
}

func (fu *fakeUploader) Upload(m *gsurf.Mesh) error {
	if fu.err != nil {
		return fu.err
	}
	fu.uploads++
	return nil
}

func TestTessellationSetDensity(t *testing.T) {
	var logbuf bytes.Buffer
	up := &fakeUploader{}
	ts := tessellation{upload: up, mesh: gsurf.NewMesh(gsurf.DefaultGrid()), log: log.New(&logbuf, "", 0)}

	ts.SetDensity(gsurf.Grid{USteps: 0, VSteps: 10})
	if ts.Grid() != gsurf.DefaultGrid() {
		t.Error("invalid density replaced geometry:", ts.Grid())
	}
	if up.uploads != 0 {
		t.Error("invalid density was uploaded")
	}
	if !strings.Contains(logbuf.String(), ErrInvalidDensity.Error()) {
		t.Errorf("invalid density not logged: %q", logbuf.String())
	}

	ts.queue(gsurf.Grid{USteps: 3, VSteps: 5})
	if ts.nextGrid() != (gsurf.Grid{USteps: 3, VSteps: 5}) {
		t.Error("queued density not reported as next")
	}
	ts.applyPending()
	if ts.Grid() != (gsurf.Grid{USteps: 3, VSteps: 5}) || up.uploads != 1 {
		t.Error("queued density not applied", ts.Grid(), up.uploads)
	}
	ts.applyPending()
	if up.uploads != 1 {
		t.Error("density applied twice")
	}

	up.err = errors.New("out of memory")
	ts.SetDensity(gsurf.Grid{USteps: 7, VSteps: 7})
	if ts.Grid() != (gsurf.Grid{USteps: 3, VSteps: 5}) {
		t.Error("failed upload replaced geometry:", ts.Grid())
	}
	if !strings.Contains(logbuf.String(), "out of memory") {
		t.Error("upload failure not logged")
	}
}

func TestTrackball(t *testing.T) {
	const tol = 1e-5
	tb := NewTrackball(400, 400)
	if !tb.ViewMatrix().ApproxEqualThreshold(mgl32.Ident4(), tol) {
		t.Fatal("initial view matrix not identity")
	}
	tb.Drag(300, 200) // No press, no rotation.
	if !tb.ViewMatrix().ApproxEqualThreshold(mgl32.Ident4(), tol) {
		t.Fatal("drag without press rotated view")
	}
	tb.Press(200, 200)
	if !tb.Dragging() {
		t.Fatal("press did not start drag")
	}
	tb.Drag(300, 200)
	tb.Release()
	view := tb.ViewMatrix()
	if math32.Abs(view.Det()-1) > 1e-4 {
		t.Error("rotation not orthonormal, det", view.Det())
	}
	// Dragging right rotates the front of the sphere towards +x about the y axis.
	front := view.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	if front[0] <= 0 || math32.Abs(front[1]) > tol {
		t.Error("unexpected rotation of +z axis:", front)
	}
	up := view.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	if !vec3Near(up, mgl32.Vec3{0, 1, 0}, 1e-4) {
		t.Error("horizontal drag moved y axis:", up)
	}
	tb.Drag(100, 100) // Released, no rotation.
	if !tb.ViewMatrix().ApproxEqualThreshold(view, tol) {
		t.Error("drag after release rotated view")
	}
	tb.SetViewDistance(5)
	origin := tb.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !vec3Near(origin, mgl32.Vec3{0, 0, -5}, tol) {
		t.Error("view distance not applied:", origin)
	}
	tb.Reset()
	tb.SetViewDistance(0)
	if !tb.ViewMatrix().ApproxEqualThreshold(mgl32.Ident4(), tol) {
		t.Error("reset did not discard rotation")
	}
}

func TestColorConversions(t *testing.T) {
	conv := ColorConversionLinearGradient(0, math32.Pi, color.RGBA{B: 255, A: 255}, color.RGBA{R: 255, A: 255})
	if c := conv(-1); c != (color.RGBA{B: 255, A: 255}) {
		t.Error("below range should saturate to first color, got", c)
	}
	if c := conv(4); c != (color.RGBA{R: 255, A: 255}) {
		t.Error("above range should saturate to second color, got", c)
	}
	if c := conv(math32.NaN()); c != red {
		t.Error("NaN should be red, got", c)
	}
	bw := ColorConversionLinearGradient(0, 2, color.Black, color.White)
	if c := bw(1); c != (color.Gray{Y: 127}) {
		t.Error("midpoint of black-white gradient, got", c)
	}
	iq := ColorConversionInigoQuilez(1, 1)
	if c := iq(1); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("reference height should be white line, got", c)
	}
	if c := iq(math32.NaN()); c != red {
		t.Error("NaN should be red, got", c)
	}
}

func TestRender(t *testing.T) {
	var stl, img, glsl bytes.Buffer
	g := gsurf.Grid{USteps: 4, VSteps: 3}
	err := Render(RenderConfig{
		Grid:         g,
		STLOutput:    &stl,
		ImageOutput:  &img,
		ImageSize:    64,
		ShaderOutput: &glsl,
		Silent:       true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if stl.Len() != 84+50*g.NumTriangles() {
		t.Errorf("want %d STL bytes, got %d", 84+50*g.NumTriangles(), stl.Len())
	}
	decoded, err := png.Decode(&img)
	if err != nil {
		t.Fatal(err)
	}
	if sz := decoded.Bounds().Size(); sz.X != 64 || sz.Y != 64 {
		t.Error("unexpected image size", sz)
	}
	if !strings.Contains(glsl.String(), "#shader fragment") {
		t.Error("missing fragment stage in GLSL output")
	}

	err = Render(RenderConfig{Silent: true})
	if err == nil {
		t.Error("expected error without outputs")
	}
	err = Render(RenderConfig{Grid: gsurf.Grid{USteps: -1, VSteps: 2}, STLOutput: &stl, Silent: true})
	if !errors.Is(err, ErrInvalidDensity) {
		t.Error("want ErrInvalidDensity, got", err)
	}
}

func vec3Near(got, want mgl32.Vec3, tol float32) bool {
	for i := range got {
		if math32.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}
