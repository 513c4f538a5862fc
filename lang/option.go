package lang

import "github.com/ardnew/treewalk/log"

// DefaultMaxDepth is the default maximum bracket nesting depth accepted by the
// parser. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// DefaultMaxCallDepth is the default maximum number of active function calls
// in one [Interpreter].
var DefaultMaxCallDepth = 1000

// DefaultHostName is the global name bound to the host object.
const DefaultHostName = "host"

// options holds parser and interpreter configuration.
type options struct {
	logger       log.Logger
	registry     *Registry
	hostName     string
	maxDepth     int
	maxCallDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{
		hostName:     DefaultHostName,
		maxDepth:     DefaultMaxDepth,
		maxCallDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth sets the maximum bracket nesting depth accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxCallDepth sets the maximum number of nested function calls.
// A value less than 1 disables the limit.
func WithMaxCallDepth(depth int) Option {
	return func(o *options) {
		o.maxCallDepth = depth
	}
}

// WithRegistry sets the host-type registry used to resolve "new" expressions
// and member access. Without it, the interpreter can only reach members of
// the primitive types and of the host object's own type, if registered.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithHostName sets the global name under which the host object is bound.
func WithHostName(name string) Option {
	return func(o *options) {
		o.hostName = name
	}
}
