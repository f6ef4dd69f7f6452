package glrender

// ShaderHandles are the attribute and uniform locations of a linked pipeline.
// A handle of -1 means the name is absent from the program.
type ShaderHandles struct {
	Vertex int32
	Normal int32

	ModelViewProjection int32
	ModelView           int32
	Color               int32
	LightPosition       int32
	ViewPosition        int32
	AmbientStrength     int32
	SpecularStrength    int32
	Shininess           int32
}
