// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// engine bundles the kernel with the options of one run. Every chart gets
// its own copy (see forChart) so the random source is never shared.
type engine struct {
	k    *ideal.Kernel
	opts Options
	log  *zap.Logger
	rnd  *rand.Rand
}

func newEngine(k *ideal.Kernel, opts []Option) *engine {
	o := buildOptions(opts)

	return &engine{k: k, opts: o, log: o.Logger, rnd: rand.New(rand.NewSource(o.Seed))}
}

// forChart returns an engine whose random stream depends only on the seed
// and the chart handle.
func (e *engine) forChart(h int) *engine {
	return &engine{
		k:    e.k,
		opts: e.opts,
		log:  e.log.With(zap.Int("chart", h)),
		rnd:  rand.New(rand.NewSource(e.opts.Seed + int64(h))),
	}
}

func (e *engine) traces(c Check) bool { return e.opts.Checks&c != 0 }

func (e *engine) std(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	return e.k.Std(ctx, I)
}

func (e *engine) isUnit(ctx context.Context, I ideal.Ideal) (bool, error) {
	return e.k.IsUnit(ctx, I)
}

func (e *engine) dim(ctx context.Context, I ideal.Ideal) (int, error) {
	return e.k.Dim(ctx, I)
}

// within reports J ⊆ I.
func (e *engine) within(ctx context.Context, J, I ideal.Ideal) (bool, error) {
	return e.k.Contains(ctx, I, J)
}

// member reports p ∈ I.
func (e *engine) member(ctx context.Context, p poly.Poly, I ideal.Ideal) (bool, error) {
	if I.IsZero() {
		return p.IsZero(), nil
	}
	G, err := e.k.Std(ctx, I)
	if err != nil {
		return false, err
	}
	r, err := e.k.Reduce(ctx, p, G)
	if err != nil {
		return false, err
	}

	return r.IsZero(), nil
}

func (e *engine) smooth(ctx context.Context, I ideal.Ideal, equi bool) (bool, error) {
	return e.k.IsSmooth(ctx, I, equi)
}

// smaller returns the standard basis or the minimal generators of I,
// whichever has fewer elements.
func (e *engine) smaller(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	G, err := e.k.Std(ctx, I)
	if err != nil {
		return ideal.Ideal{}, err
	}
	M, err := e.k.MinimalGenerators(ctx, I)
	if err != nil {
		return ideal.Ideal{}, err
	}
	if G.Len() <= M.Len() {
		return G, nil
	}

	return M, nil
}

// sat returns I : J^∞.
func (e *engine) sat(ctx context.Context, I, J ideal.Ideal) (ideal.Ideal, error) {
	S, _, err := e.k.Sat(ctx, I, J)

	return S, err
}

// intersectAll returns the intersection of Is, the unit ideal for none.
func (e *engine) intersectAll(ctx context.Context, r *poly.Ring, Is []ideal.Ideal) (ideal.Ideal, error) {
	if len(Is) == 0 {
		return ideal.Unit(r), nil
	}
	if len(Is) == 1 {
		return Is[0], nil
	}

	return e.k.Intersect(ctx, Is...)
}

// isOne reports whether the first generator of I is a nonzero constant;
// for standard bases this is the unit test.
func isOne(I ideal.Ideal) bool {
	return I.Len() > 0 && I.Gen(0).IsUnit()
}
