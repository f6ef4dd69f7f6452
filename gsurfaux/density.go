package gsurfaux

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/soypat/gsurf"
)

// ErrInvalidDensity is returned for tessellation density input that can not be tessellated.
var ErrInvalidDensity = errors.New("invalid granularity")

// ParseDensity parses the u and v tessellation densities from text, such as the contents of two input fields.
func ParseDensity(uText, vText string) (gsurf.Grid, error) {
	u, erru := strconv.Atoi(strings.TrimSpace(uText))
	v, errv := strconv.Atoi(strings.TrimSpace(vText))
	if erru != nil || errv != nil {
		return gsurf.Grid{}, fmt.Errorf("%w: u=%q v=%q must be positive integers", ErrInvalidDensity, uText, vText)
	}
	g := gsurf.Grid{USteps: u, VSteps: v}
	if err := g.Validate(); err != nil {
		return gsurf.Grid{}, fmt.Errorf("%w: %s", ErrInvalidDensity, err)
	}
	return g, nil
}

// ParseDensityLine parses a line of the form "<u> <v>".
func ParseDensityLine(line string) (gsurf.Grid, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return gsurf.Grid{}, fmt.Errorf("%w: want \"<u> <v>\", got %q", ErrInvalidDensity, line)
	}
	return ParseDensity(fields[0], fields[1])
}

// StepDensity returns g with du and dv added to its u and v steps.
func StepDensity(g gsurf.Grid, du, dv int) (gsurf.Grid, error) {
	g.USteps += du
	g.VSteps += dv
	if err := g.Validate(); err != nil {
		return gsurf.Grid{}, fmt.Errorf("%w: %s", ErrInvalidDensity, err)
	}
	return g, nil
}

// ReadDensities reads density lines from r on a new goroutine and sends the valid ones
// on the returned channel, which is closed when r is exhausted or ctx is done.
// Blank lines are skipped and invalid lines are logged to logger and dropped.
// A goroutine blocked reading r only notices ctx on its next line.
func ReadDensities(ctx context.Context, r io.Reader, logger *log.Logger) <-chan gsurf.Grid {
	if logger == nil {
		logger = log.Default()
	}
	ch := make(chan gsurf.Grid)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			g, err := ParseDensityLine(line)
			if err != nil {
				logger.Println(err)
				continue
			}
			select {
			case ch <- g:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Println("reading densities:", err)
		}
	}()
	return ch
}

type meshUploader interface {
	Upload(*gsurf.Mesh) error
}

// tessellation tracks the mesh being drawn and the density change queued for the next frame.
type tessellation struct {
	upload  meshUploader
	mesh    *gsurf.Mesh
	pending *gsurf.Grid
	log     *log.Logger
}

// SetDensity rebuilds and re-uploads the mesh with density g. Invalid densities are
// logged and leave the current geometry untouched.
func (ts *tessellation) SetDensity(g gsurf.Grid) {
	if err := g.Validate(); err != nil {
		ts.log.Printf("%s: %s", ErrInvalidDensity, err)
		return
	}
	mesh := gsurf.NewMesh(g)
	if err := ts.upload.Upload(mesh); err != nil {
		ts.log.Println("uploading mesh:", err)
		return
	}
	ts.mesh = mesh
	ts.log.Println("tessellation density", g.String())
}

// Grid returns the density of the mesh currently drawn.
func (ts *tessellation) Grid() gsurf.Grid { return ts.mesh.Grid() }

func (ts *tessellation) queue(g gsurf.Grid) { ts.pending = &g }

// nextGrid returns the queued density, or the current one if none is queued.
func (ts *tessellation) nextGrid() gsurf.Grid {
	if ts.pending != nil {
		return *ts.pending
	}
	return ts.Grid()
}

func (ts *tessellation) applyPending() {
	if ts.pending == nil {
		return
	}
	ts.SetDensity(*ts.pending)
	ts.pending = nil
}
