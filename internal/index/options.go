package index

import "github.com/koustreak/blobidx/internal/logger"

// DefaultChannelCapacity bounds the results channel between keymap
// goroutines and the collector. Producers block once it is full.
const DefaultChannelCapacity = 100

type options struct {
	log      *logger.Logger
	capacity int
	metrics  bool
}

// Option configures a build.
type Option func(*options)

// WithLogger sets the logger used for build events. Defaults to the
// global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithChannelCapacity overrides DefaultChannelCapacity. Values below 1
// are ignored.
func WithChannelCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMetrics toggles prometheus instrumentation of the build (on by default).
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metrics = enabled
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		log:      logger.Global(),
		capacity: DefaultChannelCapacity,
		metrics:  true,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.Component("index")
	return o
}
