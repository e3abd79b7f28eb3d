package atlas

import (
	"errors"
	"fmt"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/textplane"
)

// Advancer reports horizontal glyph advances in logical points.
// FaceSource implements it.
type Advancer interface {
	Advance(r rune, scale float32) (float32, bool)
}

// Run is a single-style line of text placed on a baseline.
type Run struct {
	// X and Y are the pen position on the baseline, in logical points.
	X, Y float32

	Text  string
	Color [4]float32
	Font  int

	// Scale is the backing scale factor glyphs are rasterized for.
	Scale float32
}

// EmitRun appends one quad per visible cluster of run to b, packing glyphs
// into the atlas on demand, and returns the pen x after the last cluster.
//
// The text is normalized to NFC first so that combining sequences with a
// precomposed form map to a single glyph. Each extended grapheme cluster is
// drawn with its first code point; variation selectors in the cluster pick
// text or emoji presentation. Whitespace and glyphs missing from src
// advance the pen without emitting a quad. Shaping and bidi are left to the
// caller.
//
// If the atlas is flushed after quads of the run were appended, the run is
// dropped from b and emitted again into the fresh atlas. If the flush left
// textured quads appended before this call pointing at repacked cells, the
// run is still emitted and ErrAtlasFlushed is returned: the caller must
// rebuild the frame. On any other error b is left as it was on entry.
func (a *Atlas) EmitRun(b *textplane.Batch, src Source, adv Advancer, run Run) (float32, error) {
	start, gen := b.Len(), a.Generation()
	clusters := splitClusters(norm.NFC.String(run.Text))

	x, err := a.emitClusters(b, src, adv, run, clusters, start)
	if errors.Is(err, errRepacked) {
		textplane.Logger().Debug("atlas: flushed during run, re-emitting", "generation", a.Generation())
		b.Truncate(start)
		x, err = a.emitClusters(b, src, adv, run, clusters, start)
		if errors.Is(err, errRepacked) {
			err = fmt.Errorf("%w: run %q does not fit in an empty atlas", ErrAtlasFlushed, run.Text)
		}
	}
	if err != nil {
		b.Truncate(start)
		return run.X, err
	}
	if a.Generation() != gen && hasTextured(b.Vertices()[:start]) {
		return x, ErrAtlasFlushed
	}
	return x, nil
}

// errRepacked reports that the atlas was flushed after quads of the current
// run were appended.
var errRepacked = errors.New("atlas: repacked during run")

func (a *Atlas) emitClusters(b *textplane.Batch, src Source, adv Advancer, run Run, clusters [][]rune, start int) (float32, error) {
	x := run.X
	gen := a.Generation()
	for _, cluster := range clusters {
		base := cluster[0]
		key := Key{Font: run.Font, Glyph: uint32(base), Scale: run.Scale}
		if ClassifyCluster(cluster) == textplane.VertexTypeEmoji {
			key.Flags = FlagEmoji
		} else if IsEmoji(base) {
			key.Flags = FlagText
		}

		advance, hasAdvance := float32(0), false
		if adv != nil {
			advance, hasAdvance = adv.Advance(base, run.Scale)
		}

		g, err := a.Get(key, src)
		if a.Generation() != gen {
			if b.Len() > start {
				return x, errRepacked
			}
			gen = a.Generation()
		}
		switch {
		case errors.Is(err, ErrEmptyBitmap), errors.Is(err, ErrGlyphNotFound):
			x += advance
			continue
		case err != nil:
			return x, fmt.Errorf("emit %q: %w", string(cluster), err)
		}

		r := g.Rect(x, run.Y)
		if g.Type == textplane.VertexTypeEmoji {
			err = b.AddEmoji(r, g.UV)
		} else {
			err = b.AddGlyph(r, g.UV, run.Color)
		}
		if err != nil {
			return x, fmt.Errorf("emit %q: %w", string(cluster), err)
		}

		if g.Type == textplane.VertexTypeEmoji || !hasAdvance {
			advance = max(advance, g.XOff+g.Width)
		}
		x += advance
	}
	return x, nil
}

// hasTextured reports whether any vertex samples the atlas.
func hasTextured(vs []textplane.Vertex) bool {
	for _, v := range vs {
		if v.Type != textplane.VertexTypeSolid {
			return true
		}
	}
	return false
}

// splitClusters returns the extended grapheme clusters of s.
func splitClusters(s string) [][]rune {
	var out [][]rune
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Runes())
	}
	return out
}
