// SPDX-License-Identifier: MIT

package singular

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBinary is looked up in PATH.
	DefaultBinary = "Singular"

	// DefaultTimeout bounds one script run.
	DefaultTimeout = 5 * time.Minute

	// DefaultConcurrency is the number of Singular processes allowed at once.
	DefaultConcurrency = 4
)

// Options configure a Provider.
type Options struct {
	Binary      string
	Timeout     time.Duration
	Concurrency int64
	Runner      Runner
	Logger      *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults with an ExecRunner.
func DefaultOptions() Options {
	return Options{
		Binary:      DefaultBinary,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		Logger:      zap.NewNop(),
	}
}

// WithBinary sets the Singular executable. Panics on "".
func WithBinary(path string) Option {
	if path == "" {
		panic("singular: WithBinary(\"\")")
	}

	return func(o *Options) { o.Binary = path }
}

// WithTimeout bounds every script run; 0 disables the bound.
// Panics if d < 0.
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("singular: WithTimeout(d<0)")
	}

	return func(o *Options) { o.Timeout = d }
}

// WithConcurrency limits the number of simultaneous runs. Panics if n < 1.
func WithConcurrency(n int) Option {
	if n < 1 {
		panic("singular: WithConcurrency(n<1)")
	}

	return func(o *Options) { o.Concurrency = int64(n) }
}

// WithRunner replaces the process runner. Panics on nil.
func WithRunner(r Runner) Option {
	if r == nil {
		panic("singular: WithRunner(nil)")
	}

	return func(o *Options) { o.Runner = r }
}

// WithLogger sets the debug logger. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("singular: WithLogger(nil)")
	}

	return func(o *Options) { o.Logger = l }
}
