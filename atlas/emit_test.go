package atlas

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/textplane"
)

type fixedAdvance float32

func (f fixedAdvance) Advance(rune, float32) (float32, bool) { return float32(f), true }

func TestEmitRun(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	text := &fakeSource{size: 4, typ: textplane.VertexTypeText}
	emoji := &fakeSource{size: 8, typ: textplane.VertexTypeEmoji}
	src := MultiSource{Text: text, Emoji: emoji}
	b := textplane.NewBatch()

	red := [4]float32{1, 0, 0, 1}
	end, err := a.EmitRun(b, src, fixedAdvance(5), Run{X: 0, Y: 10, Text: "ab\U0001F600", Color: red, Scale: 1})
	if err != nil {
		t.Fatalf("EmitRun: %v", err)
	}
	if b.QuadCount() != 3 {
		t.Fatalf("QuadCount = %d, want 3", b.QuadCount())
	}
	if err := textplane.ValidateVertices(b.Vertices()); err != nil {
		t.Fatalf("ValidateVertices: %v", err)
	}
	vs := b.Vertices()
	wantTypes := []textplane.VertexType{textplane.VertexTypeText, textplane.VertexTypeText, textplane.VertexTypeEmoji}
	for q, want := range wantTypes {
		for i := q * textplane.VerticesPerQuad; i < (q+1)*textplane.VerticesPerQuad; i++ {
			if vs[i].Type != want {
				t.Errorf("quad %d vertex %d: type %v, want %v", q, i, vs[i].Type, want)
			}
		}
	}
	if vs[0].Color != red {
		t.Errorf("glyph color = %v, want %v", vs[0].Color, red)
	}
	if emojiColor := vs[2*textplane.VerticesPerQuad].Color; emojiColor != textplane.White {
		t.Errorf("emoji color = %v, want White", emojiColor)
	}
	// Glyph quads sit at pen + XOff, YOff above the baseline.
	if vs[0].Pos != [2]float32{1, 6} {
		t.Errorf("first glyph origin = %v, want [1 6]", vs[0].Pos)
	}
	// 5 + 5 for the glyphs; the emoji advances by its width past XOff.
	if end != 19 {
		t.Errorf("end x = %v, want 19", end)
	}
	if text.calls != 2 || emoji.calls != 1 {
		t.Errorf("source calls text=%d emoji=%d, want 2 and 1", text.calls, emoji.calls)
	}

	// Cached: no new rasterization on a second run.
	if _, err := a.EmitRun(b, src, fixedAdvance(5), Run{Text: "ba", Color: red, Scale: 1}); err != nil {
		t.Fatalf("EmitRun: %v", err)
	}
	if text.calls != 2 {
		t.Errorf("text calls after cached run = %d, want 2", text.calls)
	}
}

func TestEmitRunPresentationSelectors(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	text := &fakeSource{size: 4, typ: textplane.VertexTypeText}
	emoji := &fakeSource{size: 8, typ: textplane.VertexTypeEmoji}
	src := MultiSource{Text: text, Emoji: emoji}
	b := textplane.NewBatch()

	// U+263A defaults to text, U+FE0F turns it into emoji; U+1F600 with
	// U+FE0E is forced to text.
	if _, err := a.EmitRun(b, src, fixedAdvance(5), Run{Text: "\u263A\u263A\uFE0F\U0001F600\uFE0E", Scale: 1}); err != nil {
		t.Fatalf("EmitRun: %v", err)
	}
	if b.QuadCount() != 3 {
		t.Fatalf("QuadCount = %d, want 3", b.QuadCount())
	}
	if text.calls != 2 || emoji.calls != 1 {
		t.Errorf("source calls text=%d emoji=%d, want 2 and 1", text.calls, emoji.calls)
	}
}

func TestEmitRunSkipsMissingGlyphs(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	b := textplane.NewBatch()
	for _, err := range []error{ErrEmptyBitmap, fmt.Errorf("%w: U+0020", ErrGlyphNotFound)} {
		src := &fakeSource{size: 4, err: err}
		end, emitErr := a.EmitRun(b, src, fixedAdvance(3), Run{Text: "  ", Scale: 1})
		if emitErr != nil {
			t.Fatalf("EmitRun(%v): %v", err, emitErr)
		}
		if end != 6 {
			t.Errorf("end x = %v, want 6", end)
		}
	}
	if b.QuadCount() != 0 {
		t.Errorf("QuadCount = %d, want 0", b.QuadCount())
	}
}

func TestEmitRunNormalizes(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	b := textplane.NewBatch()
	src := &fakeSource{size: 4, typ: textplane.VertexTypeText}
	if _, err := a.EmitRun(b, src, fixedAdvance(5), Run{Text: "e\u0301", Scale: 1}); err != nil {
		t.Fatalf("EmitRun: %v", err)
	}
	if b.QuadCount() != 1 {
		t.Fatalf("QuadCount = %d, want 1", b.QuadCount())
	}
	if _, ok := a.Lookup(Key{Glyph: 0x00E9, Scale: 1}); !ok {
		t.Error("precomposed U+00E9 not packed")
	}
}

func TestEmitRunBatchFull(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	b := textplane.NewBatch(textplane.WithMaxQuads(1))
	src := &fakeSource{size: 4, typ: textplane.VertexTypeText}
	_, err := a.EmitRun(b, src, nil, Run{Text: "ab", Scale: 1})
	if !errors.Is(err, textplane.ErrBatchFull) {
		t.Errorf("error = %v, want ErrBatchFull", err)
	}
	if b.QuadCount() != 0 {
		t.Errorf("QuadCount = %d after failed run, want 0", b.QuadCount())
	}
}

// quadUV returns the top-left UV of quad q.
func quadUV(b *textplane.Batch, q int) [2]float32 {
	return b.Vertices()[q*textplane.VerticesPerQuad].UV
}

func TestEmitRunReemitsAfterFlush(t *testing.T) {
	// Room for two 8x8 glyphs.
	a := newTestAtlas(t, 16, 8)
	src := &fakeSource{size: 8, typ: textplane.VertexTypeText}
	if _, err := a.Get(Key{Glyph: 'x', Scale: 1}, src); err != nil {
		t.Fatal(err)
	}

	b := textplane.NewBatch()
	if _, err := a.EmitRun(b, src, fixedAdvance(8), Run{Text: "ab", Scale: 1}); err != nil {
		t.Fatalf("EmitRun: %v", err)
	}
	if a.Generation() != 1 {
		t.Fatalf("Generation = %d, want 1", a.Generation())
	}
	if b.QuadCount() != 2 {
		t.Fatalf("QuadCount = %d, want 2", b.QuadCount())
	}
	for q, r := range "ab" {
		g, ok := a.Lookup(Key{Glyph: uint32(r), Scale: 1})
		if !ok {
			t.Fatalf("%q not packed after run", r)
		}
		if got, want := quadUV(b, q), [2]float32{g.UV.U, g.UV.V}; got != want {
			t.Errorf("quad %d uv = %v, want %v (packed cell of %q)", q, got, want, r)
		}
	}
}

func TestEmitRunFlushInvalidatesEarlierQuads(t *testing.T) {
	a := newTestAtlas(t, 16, 8)
	src := &fakeSource{size: 8, typ: textplane.VertexTypeText}

	b := textplane.NewBatch()
	if _, err := a.EmitRun(b, src, fixedAdvance(8), Run{Text: "x", Scale: 1}); err != nil {
		t.Fatal(err)
	}
	_, err := a.EmitRun(b, src, fixedAdvance(8), Run{Text: "ab", Scale: 1})
	if !errors.Is(err, ErrAtlasFlushed) {
		t.Fatalf("err = %v, want ErrAtlasFlushed", err)
	}
	if b.QuadCount() != 3 {
		t.Errorf("QuadCount = %d, want 3", b.QuadCount())
	}

	// Solid quads do not sample the atlas and survive a flush.
	a = newTestAtlas(t, 16, 8)
	if _, err := a.Get(Key{Glyph: 'x', Scale: 1}, src); err != nil {
		t.Fatal(err)
	}
	b = textplane.NewBatch()
	_ = b.AddSolidRect(textplane.Rect{W: 10, H: 10}, textplane.White)
	if _, err := a.EmitRun(b, src, fixedAdvance(8), Run{Text: "ab", Scale: 1}); err != nil {
		t.Errorf("EmitRun after solid quads: %v", err)
	}
}

func TestEmitRunTooLargeForAtlas(t *testing.T) {
	a := newTestAtlas(t, 16, 8)
	src := &fakeSource{size: 8, typ: textplane.VertexTypeText}
	b := textplane.NewBatch()
	end, err := a.EmitRun(b, src, fixedAdvance(8), Run{X: 3, Text: "abc", Scale: 1})
	if !errors.Is(err, ErrAtlasFlushed) {
		t.Fatalf("err = %v, want ErrAtlasFlushed", err)
	}
	if end != 3 {
		t.Errorf("end x = %v, want 3", end)
	}
	if b.QuadCount() != 0 {
		t.Errorf("QuadCount = %d, want 0", b.QuadCount())
	}
}

func TestSplitClusters(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"\u263A\uFE0F", 1},
		{"\U0001F44D\U0001F3FD", 1},
		{"\U0001F1FA\U0001F1F8\U0001F1EB\U0001F1F7", 2},
		{"\U0001F469\u200D\U0001F4BB", 1},
		{"e\u0301", 1},
		{"a\u263A\uFE0F\U0001F44D\U0001F3FD\U0001F1FA\U0001F1F8", 4},
	}
	for _, tt := range tests {
		if got := splitClusters(tt.in); len(got) != tt.want {
			t.Errorf("splitClusters(%q) = %d clusters, want %d", tt.in, len(got), tt.want)
		}
	}
}
