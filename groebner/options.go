// SPDX-License-Identifier: MIT

package groebner

import "go.uber.org/zap"

const (
	// DefaultMaxPairs disables the critical-pair budget.
	DefaultMaxPairs = 0

	// DefaultCacheSize bounds the number of cached standard bases; the cache
	// is dropped as a whole once full.
	DefaultCacheSize = 4096

	// DefaultMaxSplitDepth bounds the recursion of the prime splitting.
	DefaultMaxSplitDepth = 64
)

// Options configure a Provider.
type Options struct {
	MaxPairs      int
	CacheSize     int
	MaxSplitDepth int
	Logger        *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxPairs:      DefaultMaxPairs,
		CacheSize:     DefaultCacheSize,
		MaxSplitDepth: DefaultMaxSplitDepth,
		Logger:        zap.NewNop(),
	}
}

// WithMaxPairs aborts a standard-basis computation after n critical pairs.
// Panics if n < 0; 0 means unbounded.
func WithMaxPairs(n int) Option {
	if n < 0 {
		panic("groebner: WithMaxPairs(n<0)")
	}

	return func(o *Options) { o.MaxPairs = n }
}

// WithCacheSize sets the standard-basis cache size; 0 disables caching.
// Panics if n < 0.
func WithCacheSize(n int) Option {
	if n < 0 {
		panic("groebner: WithCacheSize(n<0)")
	}

	return func(o *Options) { o.CacheSize = n }
}

// WithLogger sets the debug logger. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("groebner: WithLogger(nil)")
	}

	return func(o *Options) { o.Logger = l }
}
