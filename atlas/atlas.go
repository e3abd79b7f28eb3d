package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/textplane"
)

// Key identifies a rasterized glyph. Scale is the backing scale factor of
// the surface the glyph is rasterized for; the same glyph at 1x and 2x has
// two entries.
type Key struct {
	Font  int
	Glyph uint32
	Flags uint32
	Scale float32
}

// Key flags.
const (
	// FlagEmoji requests emoji presentation.
	FlagEmoji uint32 = 1 << iota
	// FlagText requests text presentation.
	FlagText
)

// Bitmap is a rasterized glyph before it is packed.
type Bitmap struct {
	// Image holds coverage (Text: any image, alpha channel used) or color
	// (Emoji) pixels in device pixels.
	Image image.Image

	// Type is the render mode the glyph is drawn with.
	Type textplane.VertexType

	// XOff and YOff place the bitmap's top-left corner relative to the
	// glyph origin on the baseline, in device pixels.
	XOff, YOff int
}

// Glyph is a packed atlas entry.
type Glyph struct {
	// UV is the normalized atlas region.
	UV textplane.UVRect

	// XOff and YOff place the quad relative to the glyph origin, and Width
	// and Height size it, all in logical points.
	XOff, YOff    float32
	Width, Height float32

	// Type is the render mode to emit the glyph's quad with.
	Type textplane.VertexType
}

// Rect returns the quad rectangle for a glyph whose origin is at (x, y).
func (g Glyph) Rect(x, y float32) textplane.Rect {
	return textplane.Rect{X: x + g.XOff, Y: y + g.YOff, W: g.Width, H: g.Height}
}

// Source rasterizes glyphs on an atlas miss.
type Source interface {
	Rasterize(key Key) (Bitmap, error)
}

// Atlas packs glyph bitmaps into one RGBA image. It is not safe for
// concurrent use.
type Atlas struct {
	img     *image.RGBA
	alloc   *ShelfAllocator
	entries map[Key]Glyph

	dirty      image.Rectangle
	generation uint64
}

// New creates an empty atlas of the given pixel size. Padding is left
// between packed bitmaps so linear filtering does not bleed across entries.
func New(width, height, padding int) (*Atlas, error) {
	if width <= 0 || height <= 0 || padding < 0 {
		return nil, fmt.Errorf("%w: %dx%d padding %d", ErrInvalidSize, width, height, padding)
	}
	return &Atlas{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		alloc:   NewShelfAllocator(width, height, padding),
		entries: make(map[Key]Glyph),
	}, nil
}

// Size returns the atlas dimensions in pixels.
func (a *Atlas) Size() (width, height int) {
	b := a.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image. Its pixels are premultiplied RGBA, the
// layout expected by an RGBA8Unorm texture.
func (a *Atlas) Image() *image.RGBA {
	return a.img
}

// Len returns the number of packed glyphs.
func (a *Atlas) Len() int {
	return len(a.entries)
}

// Generation increases every time the atlas is flushed.
func (a *Atlas) Generation() uint64 {
	return a.generation
}

// Lookup returns the entry for key, if packed.
func (a *Atlas) Lookup(key Key) (Glyph, bool) {
	g, ok := a.entries[key]
	return g, ok
}

// Insert packs bm under key and returns its entry.
func (a *Atlas) Insert(key Key, bm Bitmap) (Glyph, error) {
	if bm.Image == nil || bm.Image.Bounds().Empty() {
		return Glyph{}, ErrEmptyBitmap
	}
	switch bm.Type {
	case textplane.VertexTypeText, textplane.VertexTypeEmoji:
	default:
		return Glyph{}, fmt.Errorf("%w: %v cannot be packed", textplane.ErrInvalidVertexType, bm.Type)
	}
	src := bm.Image.Bounds()
	w, h := src.Dx(), src.Dy()
	x, y, ok := a.alloc.Allocate(w, h)
	if !ok {
		return Glyph{}, fmt.Errorf("%w: no room for %dx%d", ErrAtlasFull, w, h)
	}

	dst := image.Rect(x, y, x+w, y+h)
	if bm.Type == textplane.VertexTypeText {
		writeCoverage(a.img, dst, bm.Image)
	} else {
		draw.Draw(a.img, dst, bm.Image, src.Min, draw.Src)
	}
	a.dirty = a.dirty.Union(dst)

	scale := key.Scale
	if scale <= 0 {
		scale = 1
	}
	aw, ah := a.Size()
	g := Glyph{
		UV: textplane.UVRect{
			U: float32(x) / float32(aw),
			V: float32(y) / float32(ah),
			W: float32(w) / float32(aw),
			H: float32(h) / float32(ah),
		},
		XOff:   float32(bm.XOff) / scale,
		YOff:   float32(bm.YOff) / scale,
		Width:  float32(w) / scale,
		Height: float32(h) / scale,
		Type:   bm.Type,
	}
	a.entries[key] = g
	return g, nil
}

// Get returns the entry for key, rasterizing it from src on a miss. When the
// atlas is full it is flushed and the insert retried once.
func (a *Atlas) Get(key Key, src Source) (Glyph, error) {
	if g, ok := a.entries[key]; ok {
		return g, nil
	}
	bm, err := src.Rasterize(key)
	if err != nil {
		return Glyph{}, fmt.Errorf("rasterize glyph %d: %w", key.Glyph, err)
	}
	g, err := a.Insert(key, bm)
	if errors.Is(err, ErrAtlasFull) {
		textplane.Logger().Warn("atlas: full, flushing", "glyphs", len(a.entries), "generation", a.generation)
		a.Flush()
		g, err = a.Insert(key, bm)
	}
	if err != nil {
		textplane.Logger().Warn("atlas: glyph is not renderable", "glyph", key.Glyph, "error", err)
		return Glyph{}, fmt.Errorf("%w: glyph %d: %w", ErrGlyphNotRenderable, key.Glyph, err)
	}
	return g, nil
}

// Flush drops every entry and clears the image.
func (a *Atlas) Flush() {
	a.alloc.Reset()
	clear(a.entries)
	clear(a.img.Pix)
	a.dirty = a.img.Bounds()
	a.generation++
}

// Dirty returns the region modified since the last MarkClean.
func (a *Atlas) Dirty() (image.Rectangle, bool) {
	return a.dirty, !a.dirty.Empty()
}

// MarkClean records that the dirty region was uploaded.
func (a *Atlas) MarkClean() {
	a.dirty = image.Rectangle{}
}

// Utilization returns the fraction of atlas area in use.
func (a *Atlas) Utilization() float64 {
	return a.alloc.Utilization()
}

// writeCoverage stores the alpha channel of src as premultiplied white.
func writeCoverage(dst *image.RGBA, r image.Rectangle, src image.Image) {
	sb := src.Bounds()
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			_, _, _, a := src.At(sb.Min.X+x, sb.Min.Y+y).RGBA()
			c := uint8(a >> 8)
			i := dst.PixOffset(r.Min.X+x, r.Min.Y+y)
			dst.Pix[i+0] = c
			dst.Pix[i+1] = c
			dst.Pix[i+2] = c
			dst.Pix[i+3] = c
		}
	}
}
