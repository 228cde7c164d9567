package lang

import "github.com/ardnew/jamal/log"

// DefaultMaxDepth is the default limit on the nesting of blocks,
// parentheses and right-associative operator chains.
const DefaultMaxDepth = 256

type options struct {
	maxDepth int        // affects parsing, part of the cache key
	logger   log.Logger // outside the cache key
}

// Option configures parsing and execution.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Values less than 1 restore [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

// WithLogger sets the structured logger used for trace-level output.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
