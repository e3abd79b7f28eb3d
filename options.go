package textplane

// BatchConfig holds configuration for a Batch.
type BatchConfig struct {
	// QuadCapacity is the initial capacity in quads.
	// Default: 256
	QuadCapacity int

	// MaxQuads is the maximum number of quads per batch (one draw call).
	// Default: 16384
	MaxQuads int

	// Validate enables per-quad checks of positions and UVs on every add.
	// Default: true
	Validate bool
}

// DefaultBatchConfig returns the default batch configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		QuadCapacity: 256,
		MaxQuads:     16384,
		Validate:     true,
	}
}

// BatchOption configures a Batch during creation.
type BatchOption func(*BatchConfig)

// WithQuadCapacity sets the initial capacity in quads.
func WithQuadCapacity(n int) BatchOption {
	return func(c *BatchConfig) {
		if n > 0 {
			c.QuadCapacity = n
		}
	}
}

// WithMaxQuads sets the quad limit of the batch.
func WithMaxQuads(n int) BatchOption {
	return func(c *BatchConfig) {
		if n > 0 {
			c.MaxQuads = n
		}
	}
}

// WithValidation enables or disables per-quad validation.
func WithValidation(on bool) BatchOption {
	return func(c *BatchConfig) {
		c.Validate = on
	}
}
