package profile

import (
	"errors"
	"slices"
	"strings"
)

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// ErrMode is returned when a profiler is started with an unsupported mode.
var ErrMode = errors.New("unsupported profile mode")

// Stopper stops a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Profiler configures a single profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Dir is the directory profiles are written to.
	Dir string
	// Quiet suppresses the profiler's start and stop messages.
	Quiet bool
}

// Option configures a [Profiler].
type Option func(Profiler) Profiler

// Make returns a profiler configured by opts.
func Make(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		if opt != nil {
			p = opt(p)
		}
	}

	return p
}

// WithMode sets the profile mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = strings.ToLower(strings.TrimSpace(mode))

		return p
	}
}

// WithDir sets the output directory.
func WithDir(dir string) Option {
	return func(p Profiler) Profiler {
		p.Dir = dir

		return p
	}
}

// WithQuiet sets the quiet flag.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Enabled reports whether profiling support was compiled in.
func Enabled() bool { return len(Modes()) > 0 }

// Start begins profiling. Stop on the result is always safe to call, and
// does nothing when p.Mode is empty.
func (p Profiler) Start() (Stopper, error) {
	if p.Mode == "" {
		return nop{}, nil
	}

	if !slices.Contains(Modes(), p.Mode) {
		return nop{}, errors.Join(ErrMode, errors.New(p.Mode))
	}

	return start(p), nil
}

type nop struct{}

func (nop) Stop() {}
