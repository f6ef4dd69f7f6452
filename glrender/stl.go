package glrender

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// WriteBinarySTL writes triangles to w in binary STL format. Triangle normals
// are computed from the vertex winding. Degenerate triangles get a zero normal.
func WriteBinarySTL(w io.Writer, triangles []ms3.Triangle) (n int, err error) {
	if uint64(len(triangles)) > math.MaxUint32 {
		return 0, errors.New("too many triangles for STL")
	}
	var header [stlHeaderSize + 4]byte
	copy(header[:], "gsurf binary STL")
	binary.LittleEndian.PutUint32(header[stlHeaderSize:], uint32(len(triangles)))
	n, err = w.Write(header[:])
	if err != nil {
		return n, err
	}
	var buf [stlTriangleSize]byte
	for _, t := range triangles {
		nrm := triangleNormal(t)
		putVec(buf[0:], nrm)
		putVec(buf[12:], t[0])
		putVec(buf[24:], t[1])
		putVec(buf[36:], t[2])
		// Attribute byte count is left as zero.
		ngot, err := w.Write(buf[:])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func triangleNormal(t ms3.Triangle) ms3.Vec {
	n := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
	norm := ms3.Norm(n)
	if norm == 0 || math32.IsNaN(norm) || math32.IsInf(norm, 0) {
		return ms3.Vec{}
	}
	return ms3.Scale(1/norm, n)
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}
