//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
)

// Renderer draws a frame's vertex array with one draw call.
//
// Renderer is safe for concurrent use; all methods serialize on an
// internal mutex.
type Renderer struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	config RendererConfig

	pipeline *Pipeline

	vertBuf     hal.Buffer
	vertCap     int // in vertices
	vertexCount uint32

	uniformBuf hal.Buffer
	uniforms   textplane.UniformCache

	atlasTex       hal.Texture
	atlasView      hal.TextureView
	atlasW, atlasH int
	atlasGen       uint64
	hasAtlas       bool

	bindGroup hal.BindGroup

	initialized bool
}

// NewRenderer creates a renderer on device and queue. GPU objects are
// created by Init.
func NewRenderer(device hal.Device, queue hal.Queue, opts ...Option) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	config := DefaultRendererConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Renderer{device: device, queue: queue, config: config}, nil
}

// NewRendererFromProvider creates a renderer on a shared device. The
// provider must expose HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. The target format defaults to the provider's
// surface format; options override it.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrProviderNotHal
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProviderNotHal)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProviderNotHal)
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithTargetFormat(f)}, opts...)
	}
	return NewRenderer(device, queue, opts...)
}

// Config returns the renderer configuration.
func (r *Renderer) Config() RendererConfig {
	return r.config
}

// Init creates the pipeline, buffers and a placeholder atlas texture so that
// Solid-only frames can be drawn before any atlas is synced. Calling Init
// again is a no-op.
func (r *Renderer) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}
	if err := r.init(); err != nil {
		r.destroy()
		return fmt.Errorf("init textplane renderer: %w", err)
	}
	r.initialized = true
	return nil
}

func (r *Renderer) init() error {
	p, err := NewPipeline(r.device, r.config)
	if err != nil {
		return err
	}
	r.pipeline = p

	r.uniformBuf, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "textplane_uniforms",
		Size:  textplane.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	r.uniforms.Invalidate()

	if err := r.ensureVertexCapacity(r.config.InitialVertexCapacity); err != nil {
		return err
	}

	return r.usePlaceholderAtlas()
}

// usePlaceholderAtlas binds a 1x1 transparent texture in place of the atlas.
// Textured quads are rejected until the next successful SyncAtlas.
func (r *Renderer) usePlaceholderAtlas() error {
	r.destroyAtlasTexture()
	r.hasAtlas = false
	r.atlasGen = 0
	if err := r.createAtlasTexture(1, 1); err != nil {
		return err
	}
	r.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: r.atlasTex, MipLevel: 0},
		make([]byte, 4),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: 4, RowsPerImage: 1},
		&hal.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	return r.rebuildBindGroup()
}

// SyncAtlas uploads the atlas image when it changed since the last sync.
// The texture is recreated when the atlas size differs. If recreation
// fails the placeholder is bound again, so textured quads are rejected by
// Prepare until a later SyncAtlas succeeds.
func (r *Renderer) SyncAtlas(a *atlas.Atlas) error {
	if a == nil {
		return ErrNoAtlas
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}

	w, h := a.Size()
	recreate := !r.hasAtlas || w != r.atlasW || h != r.atlasH
	dirty, isDirty := a.Dirty()
	if !recreate && !isDirty && a.Generation() == r.atlasGen {
		return nil
	}
	if recreate {
		if err := r.recreateAtlasTexture(w, h); err != nil {
			return err
		}
	}

	img := a.Image()
	r.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: r.atlasTex, MipLevel: 0},
		img.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride), //nolint:gosec // atlas stride fits uint32
			RowsPerImage: uint32(h),          //nolint:gosec // atlas height fits uint32
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}, //nolint:gosec // atlas size fits uint32
	)
	a.MarkClean()
	r.atlasGen = a.Generation()
	r.hasAtlas = true

	textplane.Logger().Debug("gpu: atlas uploaded",
		"width", w, "height", h, "dirty", dirty, "generation", r.atlasGen, "recreated", recreate)
	return nil
}

// Prepare validates vs and uploads it together with the uniforms for a
// surface of the given logical size. An empty vs prepares an empty frame.
func (r *Renderer) Prepare(vs []textplane.Vertex, surfaceW, surfaceH float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if err := textplane.ValidateVertices(vs); err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	if !r.hasAtlas {
		for i := 0; i < len(vs); i += textplane.VerticesPerQuad {
			if vs[i].Type != textplane.VertexTypeSolid {
				return ErrNoAtlas
			}
		}
	}

	u, changed, err := r.uniforms.Update(surfaceW, surfaceH)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	if changed {
		r.queue.WriteBuffer(r.uniformBuf, 0, u.Bytes())
	}

	r.vertexCount = 0
	if len(vs) == 0 {
		return nil
	}
	if err := r.ensureVertexCapacity(len(vs)); err != nil {
		return err
	}
	r.queue.WriteBuffer(r.vertBuf, 0, textplane.VertexBytes(vs))
	r.vertexCount = uint32(len(vs)) //nolint:gosec // bounded by buffer size

	textplane.Logger().Debug("gpu: vertices uploaded",
		"vertices", len(vs), "bytes", len(vs)*textplane.VertexStride)
	return nil
}

// RecordDraws records the prepared frame into an open render pass: the
// pipeline, bind group 0, the vertex buffer at VertexInputIndexVertices and
// a single Draw. Nothing is recorded for an empty frame.
func (r *Renderer) RecordDraws(rp hal.RenderPassEncoder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordDraws(rp)
}

func (r *Renderer) recordDraws(rp hal.RenderPassEncoder) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	if r.vertexCount == 0 {
		return nil
	}
	rp.SetPipeline(r.pipeline.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(uint32(textplane.VertexInputIndexVertices), r.vertBuf, 0)
	rp.Draw(r.vertexCount, 1, 0, 0)
	return nil
}

// Encode begins a render pass on encoder that clears target to clear,
// records the prepared frame and ends the pass. It requires a sample count
// of 1; multisampled renderers use EncodeResolve.
func (r *Renderer) Encode(encoder hal.CommandEncoder, target hal.TextureView, clear gputypes.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.SampleCount > 1 {
		return fmt.Errorf("%w: sample count %d", ErrResolveTargetRequired, r.config.SampleCount)
	}
	return r.encode(encoder, r.renderPassDescriptor(target, nil, clear))
}

// EncodeResolve is Encode for a multisampled target: the pass renders into
// msaaTarget and resolves into resolveTarget.
func (r *Renderer) EncodeResolve(encoder hal.CommandEncoder, msaaTarget, resolveTarget hal.TextureView, clear gputypes.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if resolveTarget == nil {
		return ErrResolveTargetRequired
	}
	return r.encode(encoder, r.renderPassDescriptor(msaaTarget, resolveTarget, clear))
}

func (r *Renderer) encode(encoder hal.CommandEncoder, desc *hal.RenderPassDescriptor) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	rp := encoder.BeginRenderPass(desc)
	err := r.recordDraws(rp)
	rp.End()
	return err
}

// renderPassDescriptor describes the single color pass; resolve may be nil.
func (r *Renderer) renderPassDescriptor(target, resolve hal.TextureView, clear gputypes.Color) *hal.RenderPassDescriptor {
	return &hal.RenderPassDescriptor{
		Label: "textplane_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          target,
			ResolveTarget: resolve,
			LoadOp:        gputypes.LoadOpClear,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    clear,
		}},
	}
}

// VertexCount returns the number of vertices prepared for the next draw.
func (r *Renderer) VertexCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.vertexCount)
}

// VertexCapacity returns the vertex buffer capacity in vertices.
func (r *Renderer) VertexCapacity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vertCap
}

// Destroy releases all GPU resources. The renderer can be initialized
// again afterwards.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroy()
	r.initialized = false
}

func (r *Renderer) destroy() {
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	r.destroyAtlasTexture()
	r.hasAtlas = false
	r.atlasGen = 0
	if r.vertBuf != nil {
		r.device.DestroyBuffer(r.vertBuf)
		r.vertBuf = nil
	}
	r.vertCap = 0
	r.vertexCount = 0
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
		r.pipeline = nil
	}
}

// ensureVertexCapacity grows the vertex buffer to hold at least n vertices,
// doubling from the current capacity.
func (r *Renderer) ensureVertexCapacity(n int) error {
	if n <= r.vertCap && r.vertBuf != nil {
		return nil
	}
	newCap := max(r.vertCap, r.config.InitialVertexCapacity, textplane.VerticesPerQuad)
	for newCap < n {
		newCap *= 2
	}
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "textplane_vertices",
		Size:  uint64(newCap) * textplane.VertexStride, //nolint:gosec // capacity is positive
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer (%d vertices): %w", newCap, err)
	}
	if r.vertBuf != nil {
		r.device.DestroyBuffer(r.vertBuf)
	}
	textplane.Logger().Debug("gpu: vertex buffer resized", "from", r.vertCap, "to", newCap)
	r.vertBuf = buf
	r.vertCap = newCap
	return nil
}

// recreateAtlasTexture replaces the atlas texture and bind group. On failure
// it falls back to the placeholder; if even that fails the renderer is
// released and must be initialized again.
func (r *Renderer) recreateAtlasTexture(w, h int) error {
	r.destroyAtlasTexture()
	err := r.createAtlasTexture(w, h)
	if err == nil {
		err = r.rebuildBindGroup()
	}
	if err == nil {
		return nil
	}
	textplane.Logger().Warn("gpu: atlas texture recreation failed", "width", w, "height", h, "error", err)
	if perr := r.usePlaceholderAtlas(); perr != nil {
		r.destroy()
		r.initialized = false
		return fmt.Errorf("sync atlas: %w (placeholder: %w)", err, perr)
	}
	return fmt.Errorf("sync atlas: %w", err)
}

func (r *Renderer) createAtlasTexture(w, h int) error {
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "textplane_atlas",
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}, //nolint:gosec // atlas size fits uint32
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create atlas texture: %w", err)
	}
	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "textplane_atlas_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(tex)
		return fmt.Errorf("create atlas texture view: %w", err)
	}
	r.atlasTex, r.atlasView = tex, view
	r.atlasW, r.atlasH = w, h
	return nil
}

func (r *Renderer) destroyAtlasTexture() {
	if r.atlasView != nil {
		r.device.DestroyTextureView(r.atlasView)
		r.atlasView = nil
	}
	if r.atlasTex != nil {
		r.device.DestroyTexture(r.atlasTex)
		r.atlasTex = nil
	}
	r.atlasW, r.atlasH = 0, 0
}

// rebuildBindGroup binds the uniform buffer, atlas view and sampler.
func (r *Renderer) rebuildBindGroup() error {
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "textplane_bind_group",
		Layout: r.pipeline.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: uint32(textplane.VertexInputIndexUniform), Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: textplane.UniformSize,
			}},
			{Binding: textplane.AtlasTextureBinding, Resource: gputypes.TextureViewBinding{
				TextureView: r.atlasView.NativeHandle(),
			}},
			{Binding: textplane.AtlasSamplerBinding, Resource: gputypes.SamplerBinding{
				Sampler: r.pipeline.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bg
	return nil
}
