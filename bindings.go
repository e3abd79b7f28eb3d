package textplane

// VertexInputIndex names a buffer slot shared between the code that binds
// buffers and the shader that declares its inputs. The values are literals
// in the gpu package shader and must stay identical on both sides.
type VertexInputIndex uint32

const (
	// VertexInputIndexVertices is the vertex buffer slot carrying the
	// []Vertex array.
	VertexInputIndexVertices VertexInputIndex = 0

	// VertexInputIndexUniform is the binding of the Uniforms block in
	// bind group 0.
	VertexInputIndexUniform VertexInputIndex = 1
)

// Atlas bindings in bind group 0, next to the uniform block.
const (
	AtlasTextureBinding uint32 = 2
	AtlasSamplerBinding uint32 = 3
)
