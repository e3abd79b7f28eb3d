package atlas

import (
	"fmt"
	"image"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textplane"
)

// FaceSource rasterizes coverage masks from an OpenType font. Key.Glyph is
// interpreted as a Unicode code point; Key.Font and Key.Flags are ignored.
type FaceSource struct {
	font *opentype.Font
	size float64

	mu    sync.Mutex
	faces map[float32]font.Face
}

// NewFaceSource parses ttf and rasterizes at size points per em.
func NewFaceSource(ttf []byte, size float64) (*FaceSource, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: font size %v", ErrInvalidSize, size)
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &FaceSource{font: f, size: size, faces: make(map[float32]font.Face)}, nil
}

// Size returns the font size in points.
func (s *FaceSource) Size() float64 {
	return s.size
}

// face returns the face for a backing scale, creating it on first use.
func (s *FaceSource) face(scale float32) (font.Face, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[scale]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    s.size * float64(scale),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face at scale %v: %w", scale, err)
	}
	s.faces[scale] = f
	return f, nil
}

// Rasterize implements Source.
func (s *FaceSource) Rasterize(key Key) (Bitmap, error) {
	scale := key.Scale
	if scale <= 0 {
		scale = 1
	}
	face, err := s.face(scale)
	if err != nil {
		return Bitmap{}, err
	}
	dr, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, rune(key.Glyph))
	if !ok {
		return Bitmap{}, fmt.Errorf("%w: %U", ErrGlyphNotFound, rune(key.Glyph))
	}
	if dr.Empty() {
		return Bitmap{}, ErrEmptyBitmap
	}
	// Copy out of the face's shared mask buffer.
	img := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	xdraw.Draw(img, img.Bounds(), mask, maskp, xdraw.Src)
	return Bitmap{
		Image: img,
		Type:  textplane.VertexTypeText,
		XOff:  dr.Min.X,
		YOff:  dr.Min.Y,
	}, nil
}

// Advance returns the horizontal advance of r in logical points at the
// given backing scale.
func (s *FaceSource) Advance(r rune, scale float32) (float32, bool) {
	if scale <= 0 {
		scale = 1
	}
	face, err := s.face(scale)
	if err != nil {
		return 0, false
	}
	adv, ok := face.GlyphAdvance(r)
	if !ok {
		return 0, false
	}
	return float32(adv) / 64 / scale, true
}

// Metrics returns the ascent and descent in logical points.
func (s *FaceSource) Metrics() (ascent, descent float32) {
	face, err := s.face(1)
	if err != nil {
		return 0, 0
	}
	m := face.Metrics()
	return float32(m.Ascent) / 64, float32(m.Descent) / 64
}

// Close releases the cached faces.
func (s *FaceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, f := range s.faces {
		_ = f.Close()
		delete(s.faces, k)
	}
	return nil
}

// BitmapSource serves color emoji from pre-decoded bitmaps, scaled to the
// em size of the text they sit in. Key.Glyph is the emoji code point.
type BitmapSource struct {
	images map[rune]image.Image
	size   float64
	ascent float64
}

// NewBitmapSource creates a source drawing emoji size points tall, placed
// so that their top sits ascent points above the baseline.
func NewBitmapSource(size, ascent float64) *BitmapSource {
	return &BitmapSource{images: make(map[rune]image.Image), size: size, ascent: ascent}
}

// Add registers the bitmap for r.
func (s *BitmapSource) Add(r rune, img image.Image) {
	s.images[r] = img
}

// Rasterize implements Source.
func (s *BitmapSource) Rasterize(key Key) (Bitmap, error) {
	src, ok := s.images[rune(key.Glyph)]
	if !ok {
		return Bitmap{}, fmt.Errorf("%w: %U", ErrGlyphNotFound, rune(key.Glyph))
	}
	scale := float64(key.Scale)
	if scale <= 0 {
		scale = 1
	}
	px := int(math.Ceil(s.size * scale))
	if px <= 0 {
		return Bitmap{}, ErrEmptyBitmap
	}
	sb := src.Bounds()
	if sb.Empty() {
		return Bitmap{}, ErrEmptyBitmap
	}
	// Preserve the aspect ratio, fitting the height.
	w := int(math.Ceil(float64(px) * float64(sb.Dx()) / float64(sb.Dy())))
	dst := image.NewRGBA(image.Rect(0, 0, w, px))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return Bitmap{
		Image: dst,
		Type:  textplane.VertexTypeEmoji,
		XOff:  0,
		YOff:  -int(math.Round(s.ascent * scale)),
	}, nil
}

// MultiSource routes emoji code points to an emoji source and everything
// else to a text source. FlagEmoji and FlagText in Key.Flags override the
// code point's default presentation.
type MultiSource struct {
	Text  Source
	Emoji Source
}

// Rasterize implements Source.
func (m MultiSource) Rasterize(key Key) (Bitmap, error) {
	emoji := Classify(rune(key.Glyph)) == textplane.VertexTypeEmoji
	switch {
	case key.Flags&FlagText != 0:
		emoji = false
	case key.Flags&FlagEmoji != 0:
		emoji = true
	}
	if m.Emoji != nil && emoji {
		return m.Emoji.Rasterize(key)
	}
	return m.Text.Rasterize(key)
}
