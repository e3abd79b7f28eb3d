//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textplane"
)

// Pipeline holds the device objects shared by every frame: the shader
// module, bind group and pipeline layouts, the atlas sampler and the render
// pipeline.
type Pipeline struct {
	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler
	pipeline   hal.RenderPipeline
}

// NewPipeline creates the render pipeline for the given configuration.
func NewPipeline(device hal.Device, config RendererConfig) (*Pipeline, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	p := &Pipeline{device: device}
	if err := p.create(config); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) create(config RendererConfig) error {
	if shaderSource == "" {
		return fmt.Errorf("textplane shader source is empty")
	}
	if config.ValidateShader {
		if _, err := CompileShader(); err != nil {
			return err
		}
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "textplane_shader",
		Source: hal.ShaderSource{WGSL: shaderSource},
	})
	if err != nil {
		return fmt.Errorf("create textplane shader: %w", err)
	}
	p.shader = shader

	// Bind group 0:
	//   VertexInputIndexUniform: Uniforms (vertex)
	//   AtlasTextureBinding:     atlas texture (fragment)
	//   AtlasSamplerBinding:     atlas sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "textplane_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    uint32(textplane.VertexInputIndexUniform),
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    textplane.AtlasTextureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    textplane.AtlasSamplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create textplane bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "textplane_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create textplane pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// Glyph bitmaps are packed at device resolution; linear filtering
	// only matters for fractional quad positions.
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "textplane_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create textplane sampler: %w", err)
	}
	p.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "textplane_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: vertexEntryPoint,
			Buffers:    VertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    config.TargetFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: config.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create textplane pipeline: %w", err)
	}
	p.pipeline = pipeline

	textplane.Logger().Info("gpu: textplane pipeline created",
		"format", config.TargetFormat, "samples", config.SampleCount)
	return nil
}

// Destroy releases the pipeline objects in reverse creation order. Safe to
// call more than once.
func (p *Pipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
