// SPDX-License-Identifier: MIT

package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
)

// satCache is the stack of saturation counts, one entry per level of the
// Coeff recursion; it becomes the SatCache of the chart.
type satCache struct {
	v []int
}

func newSatCache(v []int) *satCache {
	if len(v) == 0 {
		return &satCache{v: []int{0}}
	}

	return &satCache{v: cloneInts(v)}
}

func (s *satCache) reset() { s.v = []int{0} }

// pop removes and returns the entry of the current level.
func (s *satCache) pop() int {
	top := head(s.v, 0)
	s.v = tail(s.v, 0)

	return top
}

func (s *satCache) push(x int) { s.v = prepend(x, s.v) }

// FindCenter returns the next center of bo and its invariant vectors. A
// unit center means the chart is resolved.
func FindCenter(ctx context.Context, k *ideal.Kernel, bo BasicObject, opts ...Option) (Center, error) {
	e := newEngine(k, opts)
	c, err := e.findCenter(ctx, bo, newSatCache(bo.SatCache), false)

	return c, canceled(err)
}

// PeekCandidateCenter returns the locus of maximal order, the candidate
// FindCenter starts from, without looking at the divisors.
func PeekCandidateCenter(ctx context.Context, k *ideal.Kernel, bo BasicObject, opts ...Option) (Center, error) {
	e := newEngine(k, opts)
	c, err := e.findCenter(ctx, bo, newSatCache(bo.SatCache), true)

	return c, canceled(err)
}

// findCenter
// Stage 1 (Order): DeltaList gives b; an order change resets Origin and
// the saturation cache, an unchanged order fixes Origin[0] on first use.
// Stage 2 (Divisors): IntersectDivisors on the locus of maximal order,
// with redundant components dropped when b = 1 and J is smooth.
// Stage 3 (Base cases): a hypersurface component of maximal order, or a
// single reduced point.
// Stage 4 (Recurse): Coeff, then the center of the coefficient object,
// with the invariant vectors of this level prepended.
func (e *engine) findCenter(ctx context.Context, bo BasicObject, st *satCache, peek bool) (Center, error) {
	bo = bo.Clone()
	r := bo.Variety.Ring()
	J := bo.Variety
	re := Center{Ideal: ideal.Unit(r), Origin: cloneInts(bo.Origin), Order: cloneInts(bo.Order), Counts: []int{0}}
	if J.IsZero() {
		re.Ideal = ideal.Zero(r)
		return re, nil
	}

	outside, err := e.k.ReduceIdeal(ctx, J, bo.Ambient)
	if err != nil {
		return Center{}, err
	}
	L := []ideal.Ideal{J}
	if !outside.IsZero() {
		if L, err = e.deltaList(ctx, bo); err != nil {
			return Center{}, err
		}
	}
	b := len(L)
	if b == 0 {
		return re, nil
	}

	if b == head(bo.Order, 0) {
		if head(bo.Origin, -1) == -1 {
			origin := []int{len(bo.Divisors) - 1}
			if len(bo.Origin) > 1 {
				origin = append(origin, bo.Origin[1:]...)
			}
			re.Origin = origin
			bo.Origin = cloneInts(origin)
		}
	} else {
		re.Origin = []int{-1}
		bo.Origin = []int{-1}
		bo.Order = []int{b}
		st.reset()
	}
	re.Order = cloneInts(bo.Order)

	bo.Variety = L[b-1]
	if peek {
		return Center{Ideal: L[b-1], Origin: []int{re.Origin[0]}, Order: []int{re.Order[0]}, Counts: []int{0}}, nil
	}

	E, err := e.intersectDivisors(ctx, bo)
	if err != nil {
		return Center{}, err
	}
	if b == 1 && E.Detailed && len(E.Components) > 0 {
		sm, err := e.smooth(ctx, bo.Variety, bo.Equidimensional)
		if err != nil {
			return Center{}, err
		}
		if sm {
			var direct *ideal.Ideal
			if E, direct, err = e.dropRedundant(ctx, bo, E); err != nil {
				return Center{}, err
			}
			if direct != nil {
				return Center{Ideal: *direct, Origin: []int{re.Origin[0]}, Order: []int{re.Order[0]}, Counts: []int{0}}, nil
			}
		}
	}

	if E.Count < head(bo.Witness, 0) {
		bo.Origin = []int{head(bo.Origin, -1), -1}
		bo.Order = []int{head(bo.Order, 0), 0}
		st.reset()
	}
	re.Counts[0] = E.Count
	if e.traces(TraceCenter) {
		e.log.Debug("center candidate",
			zap.Int("b", b),
			zap.Int("count", E.Count),
			zap.Ints("origin", bo.Origin),
			zap.Stringer("locus", L[b-1]))
	}

	C := E.Locus.Power(b).Sum(J)
	if C, err = e.k.MinimalGenerators(ctx, C); err != nil {
		return Center{}, err
	}
	C1, err := e.std(ctx, L[b-1].Sum(E.Locus))
	if err != nil {
		return Center{}, err
	}
	dC1, err := e.dim(ctx, C1)
	if err != nil {
		return Center{}, err
	}
	dW, err := e.dim(ctx, bo.Ambient)
	if err != nil {
		return Center{}, err
	}

	if dC1 == dW-1 {
		same, err := e.k.Equal(ctx, C1, J)
		if err != nil {
			return Center{}, err
		}
		if same {
			re.Ideal = C1
		} else {
			eq, err := e.k.EquiRadical(ctx, C1)
			if err != nil {
				return Center{}, err
			}
			if re.Ideal, err = e.std(ctx, eq); err != nil {
				return Center{}, err
			}
		}
		re.Origin = []int{re.Origin[0]}
		re.Order = []int{re.Order[0]}
		re.Counts = []int{re.Counts[0]}
		tr, err := e.transversal(ctx, re.Ideal, bo.Divisors, nil)
		if err != nil {
			return Center{}, err
		}
		if !tr {
			return Center{}, newInvariantError("hypersurface center not transversal to the divisors", re.Ideal)
		}
		return re, nil
	}

	if dC1 == 0 {
		R, err := e.k.Radical(ctx, C1)
		if err != nil {
			return Center{}, err
		}
		if C1, err = e.std(ctx, R); err != nil {
			return Center{}, err
		}
		vd, err := e.k.VDim(ctx, C1)
		if err != nil {
			return Center{}, err
		}
		if vd == 1 {
			re.Ideal = C1
			re.Origin = []int{re.Origin[0]}
			re.Order = []int{re.Order[0]}
			return re, nil
		}
	}

	return e.recurse(ctx, bo, st, re, recursion{b: b, J: C, C1: C1, count: E.Count})
}

// recursion carries the data of one level into the Coeff step.
type recursion struct {
	b     int
	J     ideal.Ideal
	C1    ideal.Ideal
	count int
}

// recurse
// Stage 1 (Truncate): drop the leading entries of Order, Witness, Origin
// and the E⁻ divisors; the variety becomes E^b + J.
// Stage 2 (Coeff): resolved ⇒ C1; no hypersurface ⇒ CoverCenter; b = 1 ⇒
// drop components handled by DropCoeff; a trivial coefficient ideal takes
// the recovery path.
// Stage 3 (Descend): guess from the peeked candidate, otherwise the full
// center of the coefficient object; fold the invariant vectors.
func (e *engine) recurse(ctx context.Context, bo BasicObject, st *satCache, re Center, rc recursion) (Center, error) {
	r := bo.Variety.Ring()
	b := rc.b
	bo.Variety = rc.J
	bo.Order = tail(bo.Order, 0)
	bo.Witness = tail(bo.Witness, 0)
	bo7save := head(bo.Origin, -1)
	if bo7save > -1 {
		cut := min(bo7save, len(bo.Divisors))
		bo.Divisors = bo.Divisors[cut:]
		if cut <= len(bo.Meets) {
			bo.Meets = bo.Meets[cut:]
		}
		bo.Origin = tail(bo.Origin, -1)
	} else {
		bo.Divisors = nil
		bo.Meets = nil
	}
	bo.Intersections = nil
	invSatSave := st.pop()

	res, err := e.coeff(ctx, bo, b)
	if err != nil {
		return Center{}, err
	}
	switch res.Status {
	case CoeffResolved:
		re.Ideal = rc.C1
		return re, nil
	case CoeffNoHypersurface:
		cov, err := e.coverCenter(ctx, bo, b, res.Offending)
		if err != nil {
			return Center{}, err
		}
		st.push(invSatSave)
		return cov, nil
	}

	bo1 := res.BO
	coeffInvar := 0
	dropped := ideal.Unit(r)
	if b == 1 {
		if dropped, err = e.dropCoeff(ctx, bo1); err != nil {
			return Center{}, err
		}
	}
	if bo1.Variety, err = e.sat(ctx, bo1.Variety, dropped); err != nil {
		return Center{}, err
	}
	trivial, err := e.isUnit(ctx, bo1.Variety)
	if err != nil {
		return Center{}, err
	}
	if trivial {
		c, done, invar, err := e.recover(ctx, bo, &bo1, b, dropped, bo7save, rc.count, st)
		if err != nil || done {
			return c, err
		}
		coeffInvar = invar
	}
	invSatSave = max(invSatSave, coeffInvar)

	if bo1.Variety.Len() > 5 {
		if bo1.Variety, err = e.k.MinimalGenerators(ctx, bo1.Variety); err != nil {
			return Center{}, err
		}
	}
	tl, err := e.findCenter(ctx, bo1, st, true)
	if err != nil {
		return Center{}, err
	}
	good, Cstd, err := e.goodGuess(ctx, bo, bo1, tl.Ideal)
	if err != nil {
		return Center{}, err
	}
	if good {
		full, err := e.findCenter(ctx, bo1, st, false)
		if err != nil {
			return Center{}, err
		}
		dFull, err := e.dim(ctx, full.Ideal)
		if err != nil {
			return Center{}, err
		}
		dGuess, err := e.dim(ctx, Cstd)
		if err != nil {
			return Center{}, err
		}
		if dFull != dGuess {
			tl.Ideal = Cstd
		} else {
			tl = full
		}
	} else if tl, err = e.findCenter(ctx, bo1, st, false); err != nil {
		return Center{}, err
	}

	if err := e.witnessFixup(ctx, bo1, &tl); err != nil {
		return Center{}, err
	}

	st.push(invSatSave)

	return Center{
		Ideal:  tl.Ideal,
		Origin: prepend(bo7save, tl.Origin),
		Order:  prepend(b, tl.Order),
		Counts: prepend(rc.count, tl.Counts),
	}, nil
}

// goodGuess reports whether the radical of the peeked candidate of the
// coefficient object can serve as its center: smooth, the coefficient
// variety of dimension at most two, transversal to and normal crossing
// with the divisors not containing it.
func (e *engine) goodGuess(ctx context.Context, bo, bo1 BasicObject, cand ideal.Ideal) (bool, ideal.Ideal, error) {
	R, err := e.k.Radical(ctx, cand)
	if err != nil {
		return false, ideal.Ideal{}, err
	}
	Cstd, err := e.std(ctx, R)
	if err != nil {
		return false, ideal.Ideal{}, err
	}
	sm, err := e.smooth(ctx, Cstd, false)
	if err != nil || !sm {
		return false, Cstd, err
	}
	d, err := e.dim(ctx, bo1.Variety)
	if err != nil || d > 2 {
		return false, Cstd, err
	}
	var E0, E1 []ideal.Ideal
	for _, Ei := range bo.Divisors {
		if Ei.Len() == 0 || Ei.Gen(0).IsConstant() {
			continue
		}
		in, err := e.within(ctx, Ei, Cstd)
		if err != nil {
			return false, Cstd, err
		}
		if !in {
			E0 = append(E0, Ei.Sum(Cstd))
			E1 = append(E1, Ei)
		}
	}
	tr, err := e.transversal(ctx, Cstd, E1, nil)
	if err != nil || !tr {
		return false, Cstd, err
	}
	nc, err := e.normalCross(ctx, E0, nil)

	return nc, Cstd, err
}

// witnessFixup marks a hypersurface center lying in some divisor with a
// count of one.
func (e *engine) witnessFixup(ctx context.Context, bo1 BasicObject, tl *Center) error {
	if len(tl.Counts) != 1 || tl.Counts[0] != 0 {
		return nil
	}
	dC, err := e.dim(ctx, tl.Ideal)
	if err != nil {
		return err
	}
	dW, err := e.dim(ctx, bo1.Ambient)
	if err != nil || dC != dW-1 {
		return err
	}
	for _, Ei := range bo1.Divisors {
		in, err := e.within(ctx, tl.Ideal, Ei)
		if err != nil {
			return err
		}
		if in {
			tl.Counts = []int{1}
			return nil
		}
	}

	return nil
}

// recover handles a coefficient ideal that became trivial after dropping
// components. It reruns Coeff and either returns a center (done) or leaves
// the remaining components in bo1 together with the number of divisors
// that absorbed a whole component.
func (e *engine) recover(ctx context.Context, bo BasicObject, bo1 *BasicObject, b int, dropped ideal.Ideal,
	bo7save, count int, st *satCache) (Center, bool, int, error) {
	bo17save := head(bo1.Origin, -1)
	again := bo.Clone()
	again.Origin = []int{0}
	res, err := e.coeff(ctx, again, b)
	if err != nil {
		return Center{}, false, 0, err
	}
	switch res.Status {
	case CoeffResolved:
		return Center{Ideal: dropped, Origin: []int{bo7save}, Order: []int{b}, Counts: []int{count}}, true, 0, nil
	case CoeffNoHypersurface:
		c, err := e.coverCenter(ctx, bo, b, res.Offending)
		return c, true, 0, err
	}
	*bo1 = res.BO
	if bo1.Variety, err = e.sat(ctx, bo1.Variety, dropped); err != nil {
		return Center{}, false, 0, err
	}
	unit, err := e.isUnit(ctx, bo1.Variety)
	if err != nil {
		return Center{}, false, 0, err
	}
	if unit {
		return Center{Ideal: dropped, Origin: []int{bo7save}, Order: []int{b}, Counts: []int{count}}, true, 0, nil
	}

	R, err := e.k.Radical(ctx, bo1.Variety)
	if err != nil {
		return Center{}, false, 0, err
	}
	sm, err := e.smooth(ctx, R, false)
	if err != nil {
		return Center{}, false, 0, err
	}
	if sm {
		st.v = []int{1, 0}
		return Center{
			Ideal:  bo1.Variety,
			Origin: []int{bo7save, bo17save},
			Order:  []int{b, 1},
			Counts: []int{count, 1},
		}, true, 0, nil
	}

	comps, err := e.k.PrimaryDecomposition(ctx, bo1.Variety)
	if err != nil {
		return Center{}, false, 0, err
	}
	dW1, err := e.dim(ctx, bo1.Ambient)
	if err != nil {
		return Center{}, false, 0, err
	}
	var keep []ideal.Ideal
	for _, c := range comps {
		d, err := e.dim(ctx, c.Prime)
		if err != nil {
			return Center{}, false, 0, err
		}
		if d < dW1-1 {
			keep = append(keep, c.Primary)
		}
	}
	rest, err := e.intersectAll(ctx, bo1.Variety.Ring(), keep)
	if err != nil {
		return Center{}, false, 0, err
	}
	restUnit, err := e.isUnit(ctx, rest)
	if err != nil {
		return Center{}, false, 0, err
	}
	if !restUnit {
		bo1.Variety = rest
	}
	bo1.Origin = cloneInts(bo.Origin)

	var invar int
	if bo1.Variety, invar, err = e.stripDivisors(ctx, *bo1); err != nil {
		return Center{}, false, 0, err
	}
	if restUnit {
		st.v = []int{1, 0}
		return Center{
			Ideal:  bo1.Variety,
			Origin: []int{bo7save, head(bo1.Origin, -1)},
			Order:  []int{b, 1},
			Counts: []int{count, 1},
		}, true, invar, nil
	}

	return Center{}, false, invar, nil
}

// stripDivisors removes the divisors from the coefficient variety: a
// divisor whose saturation leaves nothing is divided out one step short of
// the saturation and counted, otherwise the saturation replaces the
// variety. Unit divisors are skipped.
func (e *engine) stripDivisors(ctx context.Context, bo BasicObject) (ideal.Ideal, int, error) {
	V := bo.Variety
	invar := 0
	for _, Ea := range bo.Divisors {
		u, err := e.isUnit(ctx, Ea)
		if err != nil {
			return V, 0, err
		}
		if u {
			continue
		}
		D := Ea.Sum(bo.Ambient)
		S, steps, err := e.k.Sat(ctx, V, D)
		if err != nil {
			return V, 0, err
		}
		su, err := e.isUnit(ctx, S)
		if err != nil {
			return V, 0, err
		}
		if !su {
			V = S
			continue
		}
		invar++
		if steps == 0 {
			return V, 0, newInvariantError("unexpected value of the coefficient variety", V)
		}
		for s := 1; s < steps; s++ {
			if V, err = e.k.Quotient(ctx, V, D); err != nil {
				return V, 0, err
			}
		}
	}

	return V, invar, nil
}
