//go:build !nogpu

package gpu

import "errors"

var (
	// ErrNilDevice is returned when a renderer is created without a device
	// or queue.
	ErrNilDevice = errors.New("textplane/gpu: nil device or queue")

	// ErrNotInitialized is returned when the renderer is used before Init
	// or after Destroy.
	ErrNotInitialized = errors.New("textplane/gpu: renderer not initialized")

	// ErrNoAtlas is returned when textured quads are prepared before an
	// atlas has been synced.
	ErrNoAtlas = errors.New("textplane/gpu: textured quads without atlas")

	// ErrResolveTargetRequired is returned when a multisampled renderer
	// encodes a pass without a resolve target.
	ErrResolveTargetRequired = errors.New("textplane/gpu: multisampled pass needs a resolve target")

	// ErrProviderNotHal is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrProviderNotHal = errors.New("textplane/gpu: provider does not expose HAL types")
)
