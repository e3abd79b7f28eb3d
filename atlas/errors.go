package atlas

import "errors"

var (
	// ErrAtlasFull is returned when no space is left for a bitmap.
	ErrAtlasFull = errors.New("atlas: full")

	// ErrAtlasFlushed is returned by EmitRun when a flush invalidated the
	// UVs of quads already in the batch.
	ErrAtlasFlushed = errors.New("atlas: flushed, rebuild the frame")

	// ErrEmptyBitmap is returned for bitmaps with zero area.
	ErrEmptyBitmap = errors.New("atlas: empty bitmap")

	// ErrGlyphNotRenderable is returned when a glyph does not fit even in
	// an empty atlas or its source cannot produce it.
	ErrGlyphNotRenderable = errors.New("atlas: glyph is not renderable")

	// ErrGlyphNotFound is returned by sources that have no bitmap for a key.
	ErrGlyphNotFound = errors.New("atlas: glyph not found")

	// ErrInvalidSize is returned for non-positive atlas or face sizes.
	ErrInvalidSize = errors.New("atlas: invalid size")
)
