// SPDX-License-Identifier: MIT

package groebner

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/internal/subsets"
	"github.com/katalvlaran/desing/poly"
)

// MinAssPrimes returns the minimal associated primes of I found by
// recursive splitting. The unit ideal has none.
// Stage 1 (Split): on factors of standard-basis elements.
// Stage 2 (Split): on factors of projection eliminants (positive dimension)
// or of univariate eliminants and a generic linear form (dimension zero).
// Stage 3 (Finalize): drop duplicates and non-minimal primes.
func (p *Provider) MinAssPrimes(ctx context.Context, I ideal.Ideal) ([]ideal.Ideal, error) {
	parts, err := p.splitPrimes(ctx, I, 0)
	if err != nil {
		return nil, err
	}

	return p.minimalize(ctx, parts)
}

func (p *Provider) splitPrimes(ctx context.Context, I ideal.Ideal, depth int) ([]ideal.Ideal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	G, err := p.Std(ctx, I)
	if err != nil {
		return nil, err
	}
	if G.HasUnit() {
		return nil, nil
	}
	if depth > p.opts.MaxSplitDepth {
		p.log.Debug("split depth exhausted", zap.String("ideal", G.String()))
		return []ideal.Ideal{G}, nil
	}
	recurse := func(factors []ideal.Factor) ([]ideal.Ideal, error) {
		var out []ideal.Ideal
		for _, f := range factors {
			sub, err := p.splitPrimes(ctx, G.Add(f.Poly), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	}

	if G.MaxDegree() == 1 {
		return []ideal.Ideal{G}, nil
	}
	for _, g := range G.Gens() {
		fs, ok, err := p.usefulFactors(ctx, g, G)
		if err != nil {
			return nil, err
		}
		if ok {
			return recurse(fs)
		}
	}
	if G.Len() == 1 {
		return []ideal.Ideal{G}, nil
	}
	for _, h := range p.eliminants(ctx, G) {
		fs, ok, err := p.usefulFactors(ctx, h, G)
		if err != nil {
			return nil, err
		}
		if ok {
			return recurse(fs)
		}
	}
	if fs, ok, err := p.genericSplit(ctx, G); err != nil {
		return nil, err
	} else if ok {
		var out []ideal.Ideal
		for _, q := range fs {
			sub, err := p.splitPrimes(ctx, G.Add(q), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	}

	return []ideal.Ideal{G}, nil
}

// usefulFactors factors g and reports whether splitting on the factors
// yields strictly larger ideals: g must be reducible or a proper power, and
// no factor may already lie in G.
func (p *Provider) usefulFactors(ctx context.Context, g poly.Poly, G ideal.Ideal) ([]ideal.Factor, bool, error) {
	fs, err := p.Factorize(ctx, g)
	if err != nil {
		return nil, false, err
	}
	if len(fs) == 0 || (len(fs) == 1 && fs[0].Mult == 1) {
		return nil, false, nil
	}
	for _, f := range fs {
		r, err := p.Reduce(ctx, f.Poly, G)
		if err != nil {
			return nil, false, err
		}
		if r.IsZero() {
			return nil, false, nil
		}
	}

	return fs, true, nil
}

// eliminants returns polynomials of G in few variables: for dimension zero
// the univariate eliminant of each variable, otherwise the generators of
// G ∩ Q[U ∪ {x}] for a maximal independent set U and each x outside U.
// Errors make a candidate unavailable rather than failing the split.
func (p *Provider) eliminants(ctx context.Context, G ideal.Ideal) []poly.Poly {
	U, err := p.independentSet(ctx, G)
	if err != nil || U == nil {
		return nil
	}
	n := G.Ring().NVars()
	rest := subsets.Complement(n, U)
	var out []poly.Poly
	for _, x := range rest {
		keep := append(append([]int(nil), U...), x)
		sort.Ints(keep)
		drop := subsets.Complement(n, keep)
		if len(drop) == 0 {
			continue
		}
		E, err := p.Eliminate(ctx, G, drop)
		if err != nil {
			continue
		}
		out = append(out, E.Gens()...)
	}

	return out
}

// genericSplit handles zero-dimensional ideals whose univariate eliminants
// do not split: the minimal polynomial of l = Σ (i+1)·x_i is factored and
// each factor q(l) gives a component.
func (p *Provider) genericSplit(ctx context.Context, G ideal.Ideal) ([]poly.Poly, bool, error) {
	d, err := p.Dim(ctx, G)
	if err != nil || d != 0 {
		return nil, false, err
	}
	r := G.Ring()
	n := r.NVars()
	if n < 2 {
		return nil, false, nil
	}
	rt, err := r.Extend(r.FreshName("T"))
	if err != nil {
		return nil, false, err
	}
	l := poly.Zero(rt)
	for i := 0; i < n; i++ {
		l = l.Add(poly.Var(rt, i).ScaleInt(int64(i + 1)))
	}
	T := poly.Var(rt, n)
	ext := G.MustTransfer(rt).Add(T.Sub(l))
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	E, err := p.Eliminate(ctx, ext, all)
	if err != nil || E.IsZero() {
		return nil, false, err
	}
	fs, err := p.Factorize(ctx, E.Gen(0))
	if err != nil {
		return nil, false, err
	}
	if len(fs) < 2 && (len(fs) == 0 || fs[0].Mult == 1) {
		return nil, false, nil
	}
	images := make([]poly.Poly, n+1)
	for i := 0; i < n; i++ {
		images[i] = poly.Zero(r)
	}
	images[n] = l.MustTransfer(r)
	out := make([]poly.Poly, 0, len(fs))
	for _, f := range fs {
		q := f.Poly.Map(r, images)
		rem, err := p.Reduce(ctx, q, G)
		if err != nil {
			return nil, false, err
		}
		if rem.IsZero() {
			return nil, false, nil
		}
		out = append(out, q)
	}

	return out, true, nil
}

// minimalize removes duplicate and non-minimal primes.
func (p *Provider) minimalize(ctx context.Context, parts []ideal.Ideal) ([]ideal.Ideal, error) {
	k, err := ideal.NewKernel(p)
	if err != nil {
		return nil, err
	}
	var out []ideal.Ideal
	for i, P := range parts {
		drop := false
		for j, Q := range parts {
			if i == j {
				continue
			}
			sub, err := k.Contains(ctx, P, Q) // Q ⊆ P
			if err != nil {
				return nil, err
			}
			if !sub {
				continue
			}
			eq, err := k.Contains(ctx, Q, P)
			if err != nil {
				return nil, err
			}
			if !eq || j < i {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, P)
		}
	}

	return out, nil
}

// Radical returns the intersection of the minimal associated primes.
func (p *Provider) Radical(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	primes, err := p.MinAssPrimes(ctx, I)
	if err != nil {
		return ideal.Ideal{}, err
	}
	if len(primes) == 0 {
		return ideal.Unit(I.Ring()), nil
	}
	R, err := p.Intersect(ctx, primes...)
	if err != nil {
		return ideal.Ideal{}, err
	}

	return p.Std(ctx, R)
}

// EquiRadical returns the intersection of the minimal primes of maximal
// dimension.
func (p *Provider) EquiRadical(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	primes, err := p.MinAssPrimes(ctx, I)
	if err != nil {
		return ideal.Ideal{}, err
	}
	if len(primes) == 0 {
		return ideal.Unit(I.Ring()), nil
	}
	top := -1
	dims := make([]int, len(primes))
	for i, P := range primes {
		if dims[i], err = p.Dim(ctx, P); err != nil {
			return ideal.Ideal{}, err
		}
		top = max(top, dims[i])
	}
	var keep []ideal.Ideal
	for i, P := range primes {
		if dims[i] == top {
			keep = append(keep, P)
		}
	}
	R, err := p.Intersect(ctx, keep...)
	if err != nil {
		return ideal.Ideal{}, err
	}

	return p.Std(ctx, R)
}

// PrimaryDecomposition returns the isolated primary components. Component
// i is I saturated by a product s of generators, one from each other
// minimal prime and outside P_i.
func (p *Provider) PrimaryDecomposition(ctx context.Context, I ideal.Ideal) ([]ideal.Component, error) {
	primes, err := p.MinAssPrimes(ctx, I)
	if err != nil {
		return nil, err
	}
	if len(primes) == 1 {
		Q, err := p.Std(ctx, I)
		if err != nil {
			return nil, err
		}
		return []ideal.Component{{Primary: Q, Prime: primes[0]}}, nil
	}
	out := make([]ideal.Component, 0, len(primes))
	for i, P := range primes {
		s := poly.One(I.Ring())
		for j, Q := range primes {
			if j == i {
				continue
			}
			for _, g := range Q.Gens() {
				rem, err := p.Reduce(ctx, g, P)
				if err != nil {
					return nil, err
				}
				if !rem.IsZero() {
					s = s.Mul(g)
					break
				}
			}
		}
		Qi, _, err := p.Sat(ctx, I, ideal.New(I.Ring(), s))
		if err != nil {
			return nil, err
		}
		out = append(out, ideal.Component{Primary: Qi, Prime: P})
	}

	return out, nil
}
