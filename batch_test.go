package textplane

import (
	"errors"
	"math"
	"testing"
)

// assertUniformQuads checks that every quad in vs carries a single tag and
// returns the tags in order.
func assertUniformQuads(t *testing.T, vs []Vertex) []VertexType {
	t.Helper()
	if err := ValidateVertices(vs); err != nil {
		t.Fatalf("ValidateVertices: %v", err)
	}
	var tags []VertexType
	for q := 0; q < len(vs); q += VerticesPerQuad {
		for i := 1; i < VerticesPerQuad; i++ {
			if vs[q+i].Type != vs[q].Type {
				t.Fatalf("quad %d vertex %d: tag %v, want %v", q/VerticesPerQuad, i, vs[q+i].Type, vs[q].Type)
			}
		}
		tags = append(tags, vs[q].Type)
	}
	return tags
}

func TestTexturedQuadCorners(t *testing.T) {
	q := TexturedQuad(Rect{X: 10, Y: 20, W: 30, H: 40}, UVRect{U: 0.25, V: 0.5, W: 0.25, H: 0.125},
		White, VertexTypeText)

	wantPos := [VerticesPerQuad][2]float32{
		{10, 20}, {40, 20}, {40, 60},
		{40, 60}, {10, 60}, {10, 20},
	}
	wantUV := [VerticesPerQuad][2]float32{
		{0.25, 0.5}, {0.5, 0.5}, {0.5, 0.625},
		{0.5, 0.625}, {0.25, 0.625}, {0.25, 0.5},
	}
	for i, v := range q {
		if v.Pos != wantPos[i] {
			t.Errorf("vertex %d pos = %v, want %v", i, v.Pos, wantPos[i])
		}
		if v.UV != wantUV[i] {
			t.Errorf("vertex %d uv = %v, want %v", i, v.UV, wantUV[i])
		}
	}
}

func TestBatchEmitPaths(t *testing.T) {
	tests := []struct {
		name string
		emit func(b *Batch) error
		want []VertexType
	}{
		{
			name: "solid",
			emit: func(b *Batch) error {
				return b.AddSolidRect(Rect{X: 0, Y: 0, W: 2, H: 16}, ColorFromARGB(0xff000000))
			},
			want: []VertexType{VertexTypeSolid},
		},
		{
			name: "glyph",
			emit: func(b *Batch) error {
				return b.AddGlyph(Rect{X: 4, Y: 2, W: 8, H: 12}, UVRect{W: 0.1, H: 0.1}, White)
			},
			want: []VertexType{VertexTypeText},
		},
		{
			name: "emoji",
			emit: func(b *Batch) error {
				return b.AddEmoji(Rect{X: 4, Y: 2, W: 16, H: 16}, UVRect{U: 0.5, W: 0.2, H: 0.2})
			},
			want: []VertexType{VertexTypeEmoji},
		},
		{
			name: "line background",
			emit: func(b *Batch) error {
				return b.AddLineBackground(5, 10, 18, []Span{
					{Start: 0, End: 40, ARGB: 0xff3366cc},
					{Start: 60, End: 90, ARGB: 0x80ffff00},
				})
			},
			want: []VertexType{VertexTypeSolid, VertexTypeSolid},
		},
		{
			name: "mixed line",
			emit: func(b *Batch) error {
				if err := b.AddSolidRect(Rect{W: 100, H: 18}, ColorFromARGB(0xffeeeeee)); err != nil {
					return err
				}
				if err := b.AddGlyph(Rect{X: 1, W: 8, H: 12}, UVRect{W: 0.1, H: 0.1}, White); err != nil {
					return err
				}
				return b.AddEmoji(Rect{X: 10, W: 16, H: 16}, UVRect{W: 0.2, H: 0.2})
			},
			want: []VertexType{VertexTypeSolid, VertexTypeText, VertexTypeEmoji},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch()
			if err := tt.emit(b); err != nil {
				t.Fatalf("emit: %v", err)
			}
			if b.Len() != len(tt.want)*VerticesPerQuad {
				t.Fatalf("Len() = %d, want %d", b.Len(), len(tt.want)*VerticesPerQuad)
			}
			if b.QuadCount() != len(tt.want) {
				t.Errorf("QuadCount() = %d, want %d", b.QuadCount(), len(tt.want))
			}
			got := assertUniformQuads(t, b.Vertices())
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("quad %d tag = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBatchEmojiIgnoresTint(t *testing.T) {
	b := NewBatch()
	if err := b.AddEmoji(Rect{W: 16, H: 16}, UVRect{W: 0.5, H: 0.5}); err != nil {
		t.Fatal(err)
	}
	for i, v := range b.Vertices() {
		if v.Color != White {
			t.Errorf("vertex %d color = %v, want opaque white", i, v.Color)
		}
	}
}

func TestBatchLineBackgroundGeometry(t *testing.T) {
	b := NewBatch()
	err := b.AddLineBackground(5, 10, 18, []Span{{Start: 20, End: 50, ARGB: 0xff000000}})
	if err != nil {
		t.Fatal(err)
	}
	v := b.Vertices()
	if v[0].Pos != [2]float32{25, 10} || v[2].Pos != [2]float32{55, 28} {
		t.Errorf("span corners = %v, %v", v[0].Pos, v[2].Pos)
	}
}

func TestBatchLineBackgroundRollback(t *testing.T) {
	b := NewBatch()
	if err := b.AddSolidRect(Rect{W: 1, H: 1}, White); err != nil {
		t.Fatal(err)
	}
	err := b.AddLineBackground(0, 0, 18, []Span{
		{Start: 0, End: 40, ARGB: 0xff3366cc},
		{Start: float32(math.Inf(1)), End: 90, ARGB: 0xff3366cc},
	})
	if !errors.Is(err, ErrNonFinitePosition) {
		t.Fatalf("err = %v, want ErrNonFinitePosition", err)
	}
	if b.QuadCount() != 1 {
		t.Errorf("QuadCount = %d after failed spans, want 1", b.QuadCount())
	}
}

func TestBatchTruncate(t *testing.T) {
	b := NewBatch()
	for i := 0; i < 3; i++ {
		_ = b.AddSolidRect(Rect{W: 1, H: 1}, White)
	}
	b.Truncate(100)
	if b.QuadCount() != 3 {
		t.Errorf("Truncate past Len: QuadCount = %d, want 3", b.QuadCount())
	}
	b.Truncate(VerticesPerQuad + 2)
	if b.Len() != VerticesPerQuad {
		t.Errorf("Len() = %d, want %d", b.Len(), VerticesPerQuad)
	}
	if err := ValidateVertices(b.Vertices()); err != nil {
		t.Errorf("ValidateVertices after Truncate: %v", err)
	}
}

func TestBatchValidation(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name    string
		r       Rect
		uv      UVRect
		typ     VertexType
		wantErr error
	}{
		{"invalid tag", Rect{W: 1, H: 1}, UVRect{}, VertexType(3), ErrInvalidVertexType},
		{"nan position", Rect{X: nan, W: 1, H: 1}, UVRect{}, VertexTypeSolid, ErrNonFinitePosition},
		{"corner overflows x", Rect{X: 3e38, W: 3e38, H: 1}, UVRect{}, VertexTypeSolid, ErrNonFinitePosition},
		{"corner overflows y", Rect{W: 1, Y: -3e38, H: -3e38}, UVRect{}, VertexTypeSolid, ErrNonFinitePosition},
		{"uv past edge", Rect{W: 1, H: 1}, UVRect{U: 0.9, W: 0.2, H: 0.1}, VertexTypeText, ErrUVOutOfRange},
		{"negative uv", Rect{W: 1, H: 1}, UVRect{U: -0.1, W: 0.2, H: 0.1}, VertexTypeEmoji, ErrUVOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch()
			err := b.AddQuad(tt.r, tt.uv, White, tt.typ)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if b.Len() != 0 {
				t.Errorf("rejected quad left %d vertices", b.Len())
			}
		})
	}
}

func TestBatchSolidIgnoresUV(t *testing.T) {
	b := NewBatch()
	if err := b.AddQuad(Rect{W: 1, H: 1}, UVRect{U: 5}, White, VertexTypeSolid); err != nil {
		t.Errorf("solid quad with unused uv rejected: %v", err)
	}
}

func TestBatchValidationDisabled(t *testing.T) {
	b := NewBatch(WithValidation(false))
	if err := b.AddGlyph(Rect{W: 1, H: 1}, UVRect{U: 2, W: 1, H: 1}, White); err != nil {
		t.Errorf("AddGlyph with validation off: %v", err)
	}
}

func TestBatchFull(t *testing.T) {
	b := NewBatch(WithMaxQuads(2), WithQuadCapacity(1))
	for i := 0; i < 2; i++ {
		if err := b.AddSolidRect(Rect{W: 1, H: 1}, White); err != nil {
			t.Fatalf("quad %d: %v", i, err)
		}
	}
	if err := b.AddSolidRect(Rect{W: 1, H: 1}, White); !errors.Is(err, ErrBatchFull) {
		t.Errorf("err = %v, want ErrBatchFull", err)
	}
	if b.Config().MaxQuads != 2 {
		t.Errorf("MaxQuads = %d, want 2", b.Config().MaxQuads)
	}
}

func TestBatchReset(t *testing.T) {
	b := NewBatch()
	_ = b.AddSolidRect(Rect{W: 1, H: 1}, White)
	capBefore := cap(b.Vertices())
	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len() after Reset = %d", b.Len())
	}
	if cap(b.Vertices()) != capBefore {
		t.Errorf("Reset dropped capacity")
	}
	if b.Bytes() != nil {
		t.Errorf("Bytes() of empty batch should be nil")
	}
}

func TestBatchBytes(t *testing.T) {
	b := NewBatch()
	_ = b.AddGlyph(Rect{W: 4, H: 4}, UVRect{W: 0.5, H: 0.5}, White)
	if got := len(b.Bytes()); got != VerticesPerQuad*VertexStride {
		t.Errorf("len(Bytes()) = %d, want %d", got, VerticesPerQuad*VertexStride)
	}
}

func TestValidateVertices(t *testing.T) {
	q := SolidQuad(Rect{W: 1, H: 1}, White)

	if err := ValidateVertices(q[:5]); !errors.Is(err, ErrPartialQuad) {
		t.Errorf("partial quad: err = %v", err)
	}

	mixed := q
	mixed[3].Type = VertexTypeText
	err := ValidateVertices(mixed[:])
	if !errors.Is(err, ErrMixedQuadType) {
		t.Errorf("mixed quad: err = %v", err)
	}
	var qe *QuadError
	if !errors.As(err, &qe) || qe.Quad != 0 {
		t.Errorf("expected QuadError for quad 0, got %v", err)
	}

	bad := q
	for i := range bad {
		bad[i].Type = 9
	}
	if err := ValidateVertices(bad[:]); !errors.Is(err, ErrInvalidVertexType) {
		t.Errorf("invalid tag: err = %v", err)
	}

	inf := q
	inf[2].Pos[1] = float32(math.Inf(-1))
	if err := ValidateVertices(inf[:]); !errors.Is(err, ErrNonFinitePosition) {
		t.Errorf("infinite position: err = %v", err)
	}

	if err := ValidateVertices(nil); err != nil {
		t.Errorf("empty: err = %v", err)
	}
}
