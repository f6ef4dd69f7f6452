package glrender

import "errors"

// ErrContextUnavailable is returned when the host can not provide an OpenGL context.
var ErrContextUnavailable = errors.New("graphics context unavailable")

// CompilationError is returned when a shader stage fails to compile or the program fails to link.
// Log holds the diagnostic text reported by the driver.
type CompilationError struct {
	Log string
}

func (ce *CompilationError) Error() string {
	return "shader compilation: " + ce.Log
}
