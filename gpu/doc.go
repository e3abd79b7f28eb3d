//go:build !nogpu

// Package gpu draws text plane vertex buffers with a single wgpu render
// pipeline.
//
// A [Renderer] owns the pipeline, a growable vertex buffer, the uniform
// buffer and the atlas texture. Each frame the caller uploads the batch
// with [Renderer.Prepare] and records the draw into its own render pass
// with [Renderer.RecordDraws]:
//
//	r, err := gpu.NewRendererFromProvider(provider)
//	if err != nil { ... }
//	if err := r.Init(); err != nil { ... }
//	defer r.Destroy()
//
//	// per frame
//	if err := r.SyncAtlas(glyphs); err != nil { ... }
//	if err := r.Prepare(batch.Vertices(), width, height); err != nil { ... }
//	if err := r.RecordDraws(pass); err != nil { ... }
//
// The vertex buffer must not be rewritten while a submitted frame that
// reads it is in flight. Frame pacing belongs to the caller.
//
// Build with -tags nogpu to exclude this package's GPU dependencies.
package gpu
