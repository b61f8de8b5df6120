package lazytext

// Default tuning values. All are expressed in UTF-16 code units and
// can be overridden per Driver.
const (
	// DefaultChunkSize is the capacity of buffers allocated once
	// building is under way (4 KiB of units).
	DefaultChunkSize = 2048

	// DefaultInlineThreshold is the largest chunk FromChunk copies into
	// the scratch buffer instead of splicing as its own output chunk.
	DefaultInlineThreshold = 128

	// DefaultInitialCapacity is the first buffer's capacity. Small, so
	// short builds produce one small chunk instead of a mostly empty
	// large one.
	DefaultInitialCapacity = 128
)

// config carries a driver's tuning. It is copied into each execution;
// a Driver is immutable after construction.
type config struct {
	chunkSize       int
	inlineThreshold int
	initialCapacity int
}

func defaultConfig() config {
	return config{
		chunkSize:       DefaultChunkSize,
		inlineThreshold: DefaultInlineThreshold,
		initialCapacity: DefaultInitialCapacity,
	}
}

// Option configures a Driver during creation.
type Option func(*config)

// WithChunkSize sets the capacity, in code units, of buffers allocated
// when the scratch buffer grows. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithInlineThreshold sets the largest chunk, in code units, that
// FromChunk copies into the scratch buffer rather than splicing.
// Zero means never inline; negative values are ignored.
func WithInlineThreshold(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.inlineThreshold = n
		}
	}
}

// WithInitialCapacity sets the first buffer's capacity in code units.
// Values below 1 are ignored.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.initialCapacity = n
		}
	}
}
