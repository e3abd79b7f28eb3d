// Package textplane defines the data contract between a text editor's
// layout engine and the GPU pipeline that draws its visible surface.
//
// # Overview
//
// Every visible element of the text plane (glyphs, caret, selection and
// line backgrounds, color emoji) is drawn as a colored, textured quad in
// one render pass with one pipeline. Each quad is six [Vertex] records (two
// triangles) and every vertex carries a [VertexType] tag that selects the
// fragment behavior:
//
//	VertexTypeSolid (0)  flat fill with the vertex color
//	VertexTypeText  (1)  atlas coverage (alpha) tinted by the vertex color
//	VertexTypeEmoji (2)  atlas color, vertex color ignored
//
// One [Uniforms] record per frame carries the scale from logical points to
// clip units.
//
// # Binary layout
//
// The vertex buffer is an array of 48-byte records:
//
//	offset size field
//	     0   16 color vec4<f32>
//	    16    8 pos   vec2<f32>
//	    24    8 uv    vec2<f32>
//	    32    4 type  i32
//	    36   12 padding (zero)
//
// The uniform block is a single vec2<f32> (8 bytes, 8-byte aligned).
// The vertex buffer is bound at slot [VertexInputIndexVertices] and the
// uniform block at binding [VertexInputIndexUniform] of bind group 0.
//
// The Go structs mirror this layout exactly; compile-time assertions in
// vertex.go and uniforms.go break the build if a field moves. The WGSL side
// lives in gpu/shaders/textplane.wgsl and is checked by the gpu package
// tests.
//
// # Building a frame
//
//	b := textplane.NewBatch()
//	_ = b.AddLineBackground(0, y, lineHeight, spans)
//	_ = b.AddGlyph(rect, glyph.UV, textplane.ColorFromARGB(0xff202020))
//	_ = b.AddEmoji(emojiRect, emoji.UV)
//	_ = b.AddSolidRect(caret, textplane.ColorFromARGB(0xff000000))
//
//	u, _ := textplane.SurfaceUniforms(width, height)
//	upload(b.Bytes(), u.Bytes())
//
// Sub-packages provide reference collaborators: atlas (glyph and emoji
// atlas), raster (CPU implementation of the pipeline) and gpu (wgpu
// pipeline).
package textplane
