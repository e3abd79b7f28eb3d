package textplane

import "fmt"

// Batch accumulates the quads of one frame into a vertex array for a single
// draw call. It only ever appends whole quads, so every six consecutive
// vertices share one render mode.
//
// A Batch is not safe for concurrent use; it belongs to the thread that
// builds the frame.
type Batch struct {
	config   BatchConfig
	vertices []Vertex
}

// NewBatch creates an empty batch.
func NewBatch(opts ...BatchOption) *Batch {
	config := DefaultBatchConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Batch{
		config:   config,
		vertices: make([]Vertex, 0, config.QuadCapacity*VerticesPerQuad),
	}
}

// Config returns the batch configuration.
func (b *Batch) Config() BatchConfig {
	return b.config
}

// AddQuad appends one quad of the given render mode.
func (b *Batch) AddQuad(r Rect, uv UVRect, color [4]float32, typ VertexType) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidVertexType, int32(typ))
	}
	if b.QuadCount() >= b.config.MaxQuads {
		return fmt.Errorf("%w: %d quads", ErrBatchFull, b.config.MaxQuads)
	}
	if b.config.Validate {
		if err := checkQuad(r, uv, typ); err != nil {
			return err
		}
	}
	q := TexturedQuad(r, uv, color, typ)
	b.vertices = append(b.vertices, q[:]...)
	return nil
}

// AddSolidRect appends a flat-colored rectangle such as a caret or a
// selection highlight.
func (b *Batch) AddSolidRect(r Rect, color [4]float32) error {
	return b.AddQuad(r, UVRect{}, color, VertexTypeSolid)
}

// AddGlyph appends a glyph coverage quad tinted with color.
func (b *Batch) AddGlyph(r Rect, uv UVRect, color [4]float32) error {
	return b.AddQuad(r, uv, color, VertexTypeText)
}

// AddEmoji appends a color bitmap quad.
func (b *Batch) AddEmoji(r Rect, uv UVRect) error {
	return b.AddQuad(r, uv, White, VertexTypeEmoji)
}

// AddLineBackground appends one Solid quad per span. Spans are relative to
// x0 and cover [y0, y0+height).
// On error no span of the call is kept.
func (b *Batch) AddLineBackground(x0, y0, height float32, spans []Span) error {
	start := len(b.vertices)
	for i, s := range spans {
		r := Rect{X: x0 + s.Start, Y: y0, W: s.End - s.Start, H: height}
		if err := b.AddSolidRect(r, ColorFromARGB(s.ARGB)); err != nil {
			b.Truncate(start)
			return fmt.Errorf("span %d: %w", i, err)
		}
	}
	return nil
}

// Vertices returns the accumulated vertices. The slice is reused after
// Reset.
func (b *Batch) Vertices() []Vertex {
	return b.vertices
}

// Bytes returns the vertices packed for GPU upload. See VertexBytes.
func (b *Batch) Bytes() []byte {
	return VertexBytes(b.vertices)
}

// Len returns the number of vertices.
func (b *Batch) Len() int {
	return len(b.vertices)
}

// QuadCount returns the number of quads.
func (b *Batch) QuadCount() int {
	return len(b.vertices) / VerticesPerQuad
}

// Truncate drops every vertex past the first n. n is rounded down to a
// whole quad; values past Len are ignored.
func (b *Batch) Truncate(n int) {
	n -= n % VerticesPerQuad
	if n >= 0 && n < len(b.vertices) {
		b.vertices = b.vertices[:n]
	}
}

// Reset empties the batch, keeping its capacity for the next frame.
func (b *Batch) Reset() {
	b.vertices = b.vertices[:0]
}

func checkQuad(r Rect, uv UVRect, typ VertexType) error {
	// The far corner is summed in float32 and can overflow on its own.
	for _, v := range [...]float32{r.X, r.Y, r.W, r.H, r.X + r.W, r.Y + r.H} {
		if !finite(v) {
			return fmt.Errorf("%w: %+v", ErrNonFinitePosition, r)
		}
	}
	if typ == VertexTypeSolid {
		return nil
	}
	u0, v0, u1, v1 := uv.U, uv.V, uv.U+uv.W, uv.V+uv.H
	for _, c := range [...]float32{u0, v0, u1, v1} {
		if !(c >= 0 && c <= 1) {
			return fmt.Errorf("%w: %+v", ErrUVOutOfRange, uv)
		}
	}
	return nil
}
