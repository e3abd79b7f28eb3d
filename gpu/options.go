//go:build !nogpu

package gpu

import "github.com/gogpu/gputypes"

// RendererConfig holds configuration for a Renderer.
type RendererConfig struct {
	// TargetFormat is the color format of the render pass attachment.
	// Default: BGRA8Unorm
	TargetFormat gputypes.TextureFormat

	// SampleCount is the MSAA sample count of the render pass. Counts above
	// 1 require EncodeResolve.
	// Default: 1
	SampleCount uint32

	// InitialVertexCapacity is the initial vertex buffer size in vertices.
	// The buffer grows by doubling.
	// Default: 1536 (256 quads)
	InitialVertexCapacity int

	// ValidateShader compiles the shader with naga before handing it to the
	// device, so WGSL errors are reported with source positions.
	// Default: false
	ValidateShader bool
}

// DefaultRendererConfig returns the default renderer configuration.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		TargetFormat:          gputypes.TextureFormatBGRA8Unorm,
		SampleCount:           1,
		InitialVertexCapacity: 256 * 6,
	}
}

// Option configures a Renderer during creation.
type Option func(*RendererConfig)

// WithTargetFormat sets the render target color format.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(c *RendererConfig) {
		c.TargetFormat = f
	}
}

// WithSampleCount sets the MSAA sample count. Zero is ignored.
func WithSampleCount(n uint32) Option {
	return func(c *RendererConfig) {
		if n > 0 {
			c.SampleCount = n
		}
	}
}

// WithInitialVertexCapacity sets the initial vertex buffer capacity in
// vertices. Non-positive values are ignored.
func WithInitialVertexCapacity(n int) Option {
	return func(c *RendererConfig) {
		if n > 0 {
			c.InitialVertexCapacity = n
		}
	}
}

// WithShaderValidation enables naga validation of the shader in Init.
func WithShaderValidation(on bool) Option {
	return func(c *RendererConfig) {
		c.ValidateShader = on
	}
}
