package textplane

import "errors"

// Validation and encoding errors.
var (
	// ErrShortBuffer is returned when decoding from a buffer smaller than
	// one record.
	ErrShortBuffer = errors.New("textplane: buffer too short")

	// ErrInvalidVertexType is returned for a tag outside the closed set of
	// render modes.
	ErrInvalidVertexType = errors.New("textplane: invalid vertex type")

	// ErrMixedQuadType is returned when the six vertices of a quad do not
	// share one tag.
	ErrMixedQuadType = errors.New("textplane: quad mixes vertex types")

	// ErrPartialQuad is returned when a vertex slice does not hold a whole
	// number of quads.
	ErrPartialQuad = errors.New("textplane: vertex count is not a multiple of 6")

	// ErrNonFinitePosition is returned for NaN or infinite positions.
	ErrNonFinitePosition = errors.New("textplane: non-finite vertex position")

	// ErrUVOutOfRange is returned for texture coordinates outside [0, 1].
	ErrUVOutOfRange = errors.New("textplane: uv outside atlas")

	// ErrBatchFull is returned when a batch reaches its quad limit.
	ErrBatchFull = errors.New("textplane: batch full")

	// ErrInvalidSurfaceSize is returned for a non-positive surface size.
	ErrInvalidSurfaceSize = errors.New("textplane: invalid surface size")

	// ErrInvalidColor is returned when a color string cannot be parsed.
	ErrInvalidColor = errors.New("textplane: invalid color")
)
