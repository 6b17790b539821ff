package blockarena

import "log/slog"

type config struct {
	buf    []byte
	logger *slog.Logger
	index  bool
}

// Option configures a Pool.
type Option func(*config)

// WithBuffer backs the pool with buf instead of allocating a new arena.
// Pass a slice of a package-level array to give the arena static extent:
//
//	var heap [4096]byte
//	p, err := blockarena.NewPool(0, 32, blockarena.WithBuffer(heap[:]))
//
// The pool owns buf from then on.
func WithBuffer(buf []byte) Option {
	return func(c *config) {
		c.buf = buf
	}
}

// WithLogger configures structured logging for pool operations.
// Operations log at Debug; allocation failures log at Warn.
// Pass nil to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithOccupancyIndex keeps a bitmap of used blocks next to the block table
// and uses it for the free-run search. Allocation order is unchanged; only
// the cost of skipping long used runs drops. Worth it for pools with
// thousands of blocks.
func WithOccupancyIndex() Option {
	return func(c *config) {
		c.index = true
	}
}

func applyOptions(opts []Option) config {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}
