// SPDX-License-Identifier: MIT

package resolve

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// opening is one set D(p) of the cover together with the hypersurface f
// that is smooth on it.
type opening struct {
	p poly.Poly
	f poly.Poly
}

// coverCenter handles the case where no global hypersurface of maximal
// contact exists.
// Stage 1 (Cover): the singular loci of the generators of Jb have empty
// intersection; a subset of their generators p_i generating the unit
// ideal gives the open cover D(p_i).
// Stage 2 (Localize): on each D(p_i), with a fresh variable u and
// u·p_i − 1 added everywhere, the owning generator f_i is the
// hypersurface; the center there comes from SpecialCoeff and
// findCenter, closed up by eliminating u.
// Stage 3 (Glue): the union of the local centers of maximal interleaved
// invariant sharing the same Origin vector.
func (e *engine) coverCenter(ctx context.Context, bo BasicObject, b int, Jb ideal.Ideal) (Center, error) {
	r := bo.Variety.Ring()
	J, err := e.std(ctx, bo.Variety)
	if err != nil {
		return Center{}, err
	}
	bo.Variety = J

	var cands []opening
	for _, f := range Jb.Gens() {
		S, err := e.k.SingularLocus(ctx, ideal.New(r, f), false)
		if err != nil {
			return Center{}, err
		}
		if S, err = e.smaller(ctx, S); err != nil {
			return Center{}, err
		}
		for _, p := range S.Gens() {
			if !p.IsZero() {
				cands = append(cands, opening{p: p, f: f})
			}
		}
	}
	cover, err := e.unitSubset(ctx, r, cands)
	if err != nil {
		return Center{}, err
	}

	type local struct {
		c   Center
		inv []int
	}
	var locals []local
	var maxv []int
	for _, op := range cover {
		c, err := e.centerOn(ctx, bo, b, op)
		if err != nil {
			return Center{}, err
		}
		empty, err := e.isUnit(ctx, c.Ideal)
		if err != nil {
			return Center{}, err
		}
		if empty {
			continue
		}
		if len(c.Order) != len(c.Counts) {
			return Center{}, pkgerrors.Wrapf(ErrCoverMismatch, "orders %v, counts %v", c.Order, c.Counts)
		}
		inv := make([]int, 0, 2*len(c.Order))
		for j := range c.Order {
			inv = append(inv, c.Order[j], c.Counts[j])
		}
		if maxv == nil || lexLess(maxv, inv) {
			maxv = inv
		}
		locals = append(locals, local{c: c, inv: inv})
	}

	var re *Center
	for _, l := range locals {
		done, err := e.within(ctx, l.c.Ideal, J)
		if err != nil {
			return Center{}, err
		}
		if done || !equalInts(l.inv, maxv) {
			continue
		}
		if re == nil {
			c := l.c.clone()
			re = &c
			continue
		}
		if !equalInts(re.Origin, l.c.Origin) {
			continue
		}
		if re.Ideal, err = e.k.Intersect(ctx, re.Ideal, l.c.Ideal); err != nil {
			return Center{}, err
		}
	}
	if re == nil {
		return Center{Ideal: J, Origin: []int{-1}, Order: []int{0}, Counts: []int{0}}, nil
	}
	if e.traces(TraceCenter) {
		e.log.Debug("center glued from open cover",
			zap.Int("opens", len(cover)),
			zap.Ints("invariant", maxv),
			zap.Stringer("center", re.Ideal))
	}

	return *re, nil
}

// unitSubset returns a minimal subset of cands whose p generate the unit
// ideal, dropping candidates greedily in order.
func (e *engine) unitSubset(ctx context.Context, r *poly.Ring, cands []opening) ([]opening, error) {
	gen := func(ops []opening) ideal.Ideal {
		ps := make([]poly.Poly, len(ops))
		for i, op := range ops {
			ps[i] = op.p
		}
		return ideal.New(r, ps...)
	}
	unit, err := e.isUnit(ctx, gen(cands))
	if err != nil {
		return nil, err
	}
	if !unit {
		return nil, newInvariantError("singular loci of the hypersurface candidates intersect", gen(cands))
	}
	keep := append([]opening(nil), cands...)
	for i := 0; i < len(keep); {
		if len(keep) == 1 {
			break
		}
		trial := append(append([]opening(nil), keep[:i]...), keep[i+1:]...)
		unit, err := e.isUnit(ctx, gen(trial))
		if err != nil {
			return nil, err
		}
		if unit {
			keep = trial
		} else {
			i++
		}
	}

	return keep, nil
}

// centerOn computes the center on D(op.p) and returns its closure in the
// original ring.
func (e *engine) centerOn(ctx context.Context, bo BasicObject, b int, op opening) (Center, error) {
	r := bo.Variety.Ring()
	r1, err := r.Extend(r.FreshName("u"))
	if err != nil {
		return Center{}, err
	}
	u := r1.NVars() - 1
	loc, err := bo.transfer(r1)
	if err != nil {
		return Center{}, err
	}
	inv := poly.Var(r1, u).Mul(op.p.MustTransfer(r1)).Sub(poly.One(r1))
	loc.Ring = r1
	loc.Ambient = loc.Ambient.Add(inv)
	loc.Variety = loc.Variety.Add(inv)
	for j, Ej := range loc.Divisors {
		loc.Divisors[j] = Ej.Add(inv)
	}

	bo1, err := e.specialCoeff(ctx, loc, b, op.f.MustTransfer(r1))
	if err != nil {
		return Center{}, err
	}
	c, err := e.findCenter(ctx, bo1, newSatCache(bo1.SatCache), false)
	if err != nil {
		return Center{}, err
	}
	closed, err := e.k.Eliminate(ctx, c.Ideal, []int{u})
	if err != nil {
		return Center{}, err
	}
	if c.Ideal, err = closed.Transfer(r); err != nil {
		return Center{}, err
	}

	return c, nil
}

// lexLess compares integer vectors lexicographically; a proper prefix is
// smaller.
func lexLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return len(a) < len(b)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
