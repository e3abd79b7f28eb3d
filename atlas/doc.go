// Package atlas packs glyph coverage masks and color emoji bitmaps into the
// single RGBA texture that the text plane pipeline samples.
//
// An [Atlas] hands out [Glyph] entries whose UV rectangles are ready to be
// written into textplane vertices:
//
//	a, err := atlas.New(1024, 1024, 1)
//	if err != nil { ... }
//	g, err := a.Get(atlas.Key{Glyph: 'A', Scale: 2}, source)
//	if err != nil { ... }
//	_ = batch.AddQuad(g.Rect(x, y), g.UV, color, g.Type)
//
// [Atlas.EmitRun] does the same for a whole line of text, one quad per
// grapheme cluster.
//
// Text glyphs are stored as white premultiplied coverage (the fragment stage
// reads the alpha channel); emoji are stored as premultiplied color. Both
// kinds share one texture so a frame needs a single texture binding.
//
// When the atlas fills up, [Atlas.Get] flushes every entry and retries once.
// A flush invalidates UVs handed out earlier; callers compare
// [Atlas.Generation] before and after building a frame and rebuild it when
// the generation moved.
package atlas
