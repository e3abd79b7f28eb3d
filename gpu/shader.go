//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"

	"github.com/gogpu/textplane"
)

//go:embed shaders/textplane.wgsl
var shaderSource string

// Shader entry points.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// ShaderSource returns the WGSL source of the text plane shader.
func ShaderSource() string {
	return shaderSource
}

// CompileShader compiles the shader to SPIR-V with naga. It is used to
// validate the WGSL independently of a device.
func CompileShader() ([]byte, error) {
	spirv, err := naga.Compile(shaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile textplane shader: %w", err)
	}
	return spirv, nil
}

// VertexLayout returns the vertex buffer layout matching textplane.Vertex
// and VertexInput in the shader:
//
//	location 0: color       (vec4<f32>) offset 0
//	location 1: position    (vec2<f32>) offset 16
//	location 2: uv          (vec2<f32>) offset 24
//	location 3: vertex_type (i32)       offset 32
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: textplane.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: textplane.VertexColorOffset, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: textplane.VertexPosOffset, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: textplane.VertexUVOffset, ShaderLocation: 2},
				{Format: gputypes.VertexFormatSint32, Offset: textplane.VertexTypeOffset, ShaderLocation: 3},
			},
		},
	}
}
