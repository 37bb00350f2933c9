// SPDX-License-Identifier: MIT

package resolve

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Mode selects between global resolution and resolution at the origin.
type Mode int

const (
	// ModeGlobal resolves the whole variety.
	ModeGlobal Mode = iota

	// ModeLocal resolves a neighbourhood of the origin: the first center is
	// the origin itself, later centers are chosen inside the exceptional locus.
	ModeLocal
)

// Pruning controls which charts BlowUp keeps.
type Pruning int

const (
	// PruneRedundant drops charts whose data is represented by the other
	// charts.
	PruneRedundant Pruning = iota

	// PruneAggressive additionally drops charts that only add smooth,
	// normal-crossing information.
	PruneAggressive

	// PruneKeepAll keeps every non-empty chart and skips variable elimination.
	PruneKeepAll

	// PruneKeepDivisorPairs keeps a dropped chart when it is the only one
	// seeing a divisor, a pair or a triple of divisors.
	PruneKeepDivisorPairs
)

// Check is a bit set of self-checks and trace switches.
type Check uint

const (
	// CheckResult verifies every terminal chart at the end of Resolve.
	CheckResult Check = 1 << iota
	// CheckCharts verifies ambient space, center and divisors in every step.
	CheckCharts
	// CheckBlowUp verifies that no chart carrying singular points was dropped.
	CheckBlowUp
	// TraceCenter logs every center decision.
	TraceCenter
	// TraceBlowUp logs chart creation and pruning.
	TraceBlowUp
	// TraceCoeff logs hypersurface choices of Coeff.
	TraceCoeff
	// TraceIntersections logs divisor intersection records.
	TraceIntersections
)

var checkNames = []struct {
	c    Check
	name string
}{
	{CheckResult, "result"},
	{CheckCharts, "charts"},
	{CheckBlowUp, "blowup"},
	{TraceCenter, "trace-center"},
	{TraceBlowUp, "trace-blowup"},
	{TraceCoeff, "trace-coeff"},
	{TraceIntersections, "trace-intersections"},
}

// ParseCheck reads a comma separated list of check names such as
// "result,charts". The empty string is no check.
func ParseCheck(s string) (Check, error) {
	var out Check
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		found := false
		for _, n := range checkNames {
			if n.name == f {
				out |= n.c
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("resolve: unknown check %q", f)
		}
	}

	return out, nil
}

// ParsePruning reads "redundant", "aggressive", "keep-all" or "keep-pairs".
// The empty string is DefaultPruning.
func ParsePruning(s string) (Pruning, error) {
	switch s {
	case "":
		return DefaultPruning, nil
	case "redundant":
		return PruneRedundant, nil
	case "aggressive":
		return PruneAggressive, nil
	case "keep-all":
		return PruneKeepAll, nil
	case "keep-pairs":
		return PruneKeepDivisorPairs, nil
	}

	return 0, fmt.Errorf("resolve: unknown pruning %q", s)
}

const (
	// DefaultPruning is the chart pruning used by Resolve.
	DefaultPruning = PruneKeepDivisorPairs

	// DefaultParallelism processes one chart at a time.
	DefaultParallelism = 1

	// DefaultSeed seeds the hypersurface search.
	DefaultSeed int64 = 1

	// DefaultMaxCharts means no chart limit.
	DefaultMaxCharts = 0

	// coeffAttempts bounds the random combinations tried by Coeff.
	coeffAttempts = 10

	// coeffRange bounds the absolute value of random coefficients.
	coeffRange = 100
)

// Options configure the engine.
type Options struct {
	Mode        Mode
	Pruning     Pruning
	Checks      Check
	Parallelism int
	Seed        int64
	MaxCharts   int
	Logger      *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Mode:        ModeGlobal,
		Pruning:     DefaultPruning,
		Parallelism: DefaultParallelism,
		Seed:        DefaultSeed,
		MaxCharts:   DefaultMaxCharts,
		Logger:      zap.NewNop(),
	}
}

// WithMode selects global or local resolution.
func WithMode(m Mode) Option {
	if m != ModeGlobal && m != ModeLocal {
		panic("resolve: WithMode(unknown mode)")
	}

	return func(o *Options) { o.Mode = m }
}

// WithPruning selects the chart pruning of BlowUp.
func WithPruning(p Pruning) Option {
	if p < PruneRedundant || p > PruneKeepDivisorPairs {
		panic("resolve: WithPruning(unknown pruning)")
	}

	return func(o *Options) { o.Pruning = p }
}

// WithChecks enables self-checks and traces.
func WithChecks(c Check) Option {
	return func(o *Options) { o.Checks |= c }
}

// WithParallelism processes up to n charts of one generation concurrently.
// Panics if n < 1.
func WithParallelism(n int) Option {
	if n < 1 {
		panic("resolve: WithParallelism(n<1)")
	}

	return func(o *Options) { o.Parallelism = n }
}

// WithSeed seeds the random hypersurface search of Coeff.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithMaxCharts aborts Resolve once more than n charts exist. Panics if
// n < 0; 0 means unbounded.
func WithMaxCharts(n int) Option {
	if n < 0 {
		panic("resolve: WithMaxCharts(n<0)")
	}

	return func(o *Options) { o.MaxCharts = n }
}

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("resolve: WithLogger(nil)")
	}

	return func(o *Options) { o.Logger = l }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
