// SPDX-License-Identifier: MIT

package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// throughOrigin reports whether V(I) contains the origin, i.e. no
// generator has a constant term.
func throughOrigin(I ideal.Ideal) bool {
	for _, g := range I.Gens() {
		if g.LowDegree() == 0 {
			return false
		}
	}

	return true
}

// prepareLocal restricts J to its components through the origin and
// decides how the origin is treated. It returns the new J, the marker of
// LocalityMarked and whether the origin is a smooth point, in which case there
// is nothing to resolve.
func (d *driver) prepareLocal(ctx context.Context, J ideal.Ideal) (ideal.Ideal, *poly.Poly, bool, error) {
	e := d.e
	r := J.Ring()
	primes, err := e.k.MinAssPrimes(ctx, J)
	if err != nil {
		return J, nil, false, err
	}
	var at []ideal.Ideal
	for _, P := range primes {
		if throughOrigin(P) {
			at = append(at, P)
		}
	}
	if J, err = e.intersectAll(ctx, r, at); err != nil {
		return J, nil, false, err
	}

	S, err := e.k.SingularLocus(ctx, J, false)
	if err != nil {
		return J, nil, false, err
	}
	sing, err := e.k.MinAssPrimes(ctx, S)
	if err != nil {
		return J, nil, false, err
	}
	isolated := true
	var away []ideal.Ideal
	for _, Q := range sing {
		if !throughOrigin(Q) {
			away = append(away, Q)
			continue
		}
		dm, err := e.dim(ctx, Q)
		if err != nil {
			return J, nil, false, err
		}
		if dm > 0 {
			isolated = false
		}
	}
	if len(away) == len(sing) {
		e.log.Info("origin is a smooth point of the variety")
		return J, nil, true, nil
	}
	K, err := e.intersectAll(ctx, r, away)
	if err != nil {
		return J, nil, false, err
	}
	if K, err = e.std(ctx, K); err != nil {
		return J, nil, false, err
	}

	var marker *poly.Poly
	switch {
	case !isOne(K) && !isolated:
		d.local = LocalityMarked
		for _, g := range K.Gens() {
			if g.LowDegree() == 0 {
				p := g
				marker = &p
				break
			}
		}
	case isolated && len(away) > 0:
		d.local = LocalityIsolated
	}
	e.log.Debug("local set-up",
		zap.Int("singular components", len(sing)),
		zap.Int("away from origin", len(away)),
		zap.Bool("isolated", isolated),
		zap.Bool("marked", d.local == LocalityMarked))

	return J, marker, false, nil
}

// originCenter is the first center at an isolated singular point: the
// origin when it is singular, otherwise the variety.
func (d *driver) originCenter(ctx context.Context, e *engine, bo BasicObject) (*Center, error) {
	S, err := e.k.SingularLocus(ctx, bo.Variety, bo.Equidimensional)
	if err != nil {
		return nil, err
	}
	if throughOrigin(S) {
		return &Center{Ideal: ideal.Maximal(bo.Ring), Origin: []int{-1}, Order: []int{0}, Counts: []int{0}}, nil
	}

	return &Center{Ideal: bo.Variety, Origin: []int{-1}, Order: []int{1}, Counts: []int{0}}, nil
}

// meetingComponents returns the intersection of the minimal primes of J
// meeting one of the proper divisors, the unit ideal when none does.
func (e *engine) meetingComponents(ctx context.Context, J ideal.Ideal, E []ideal.Ideal) (ideal.Ideal, error) {
	primes, err := e.k.MinAssPrimes(ctx, J)
	if err != nil {
		return ideal.Ideal{}, err
	}
	var keep []ideal.Ideal
	for _, P := range primes {
		ok, err := e.meetsDivisors(ctx, P, E)
		if err != nil {
			return ideal.Ideal{}, err
		}
		if ok {
			keep = append(keep, P)
		}
	}

	return e.intersectAll(ctx, J.Ring(), keep)
}

// isolatedCenter chooses a center inside the exceptional locus Ex: the
// center of J + Ex^(b/k+1), restricted to its components inside Ex. The
// variety itself is returned once the components meeting the divisors are
// gone, or when J is smooth transversal and normal crossing off the center.
func (d *driver) isolatedCenter(ctx context.Context, e *engine, bo BasicObject, st *satCache) (Center, error) {
	J := bo.Variety
	r := bo.Ring
	done := Center{Ideal: J, Origin: []int{-1}, Order: []int{1}, Counts: []int{0}}

	Ex := ideal.Unit(r)
	k := 0
	for _, Ej := range bo.Divisors {
		if Ej.Len() > 0 && !Ej.Gen(0).IsConstant() {
			Ex = Ex.Product(Ej)
			k++
		}
	}
	K, err := e.meetingComponents(ctx, J, bo.Divisors)
	if err != nil {
		return Center{}, err
	}
	unit, err := e.isUnit(ctx, K)
	if err != nil {
		return Center{}, err
	}
	if unit || k == 0 {
		return done, nil
	}

	b := head(bo.Order, 0)
	if b == 0 {
		L, err := e.deltaList(ctx, bo)
		if err != nil {
			return Center{}, err
		}
		b = len(L)
	}
	loc := bo.Clone()
	loc.Variety = J.Sum(Ex.Power(b/k + 1))
	ce, err := e.findCenter(ctx, loc, st, false)
	if err != nil {
		return Center{}, err
	}
	inEx, err := e.within(ctx, Ex, ce.Ideal)
	if err != nil {
		return Center{}, err
	}
	if !inEx {
		primes, err := e.k.MinAssPrimes(ctx, ce.Ideal)
		if err != nil {
			return Center{}, err
		}
		var keep []ideal.Ideal
		for _, P := range primes {
			ok, err := e.within(ctx, Ex, P)
			if err != nil {
				return Center{}, err
			}
			if ok {
				keep = append(keep, P)
			}
		}
		if ce.Ideal, err = e.intersectAll(ctx, r, keep); err != nil {
			return Center{}, err
		}
		if unit, err = e.isUnit(ctx, ce.Ideal); err != nil {
			return Center{}, err
		}
		if unit {
			ce.Ideal = J
		}
	}

	S, err := e.k.SingularLocus(ctx, J, bo.Equidimensional)
	if err != nil {
		return Center{}, err
	}
	onCenter, err := e.within(ctx, S, ce.Ideal)
	if err != nil {
		return Center{}, err
	}
	if !onCenter {
		tr, err := e.transversal(ctx, J, bo.Divisors, nil)
		if err != nil {
			return Center{}, err
		}
		if tr {
			nc, err := e.normalCross(ctx, cutDivisors(bo.Divisors, J), nil)
			if err != nil {
				return Center{}, err
			}
			if nc {
				ce.Ideal = J
			}
		}
	}

	return ce, nil
}

// updateMarker shrinks the marker to the factor vanishing on the singular
// components it still cuts; 1 once it cuts none of them.
func (e *engine) updateMarker(ctx context.Context, J ideal.Ideal, p poly.Poly) (poly.Poly, error) {
	r := J.Ring()
	if p.IsUnit() {
		return p, nil
	}
	S, err := e.k.SingularLocus(ctx, J, false)
	if err != nil {
		return p, err
	}
	primes, err := e.k.MinAssPrimes(ctx, S)
	if err != nil {
		return p, err
	}
	var on []ideal.Ideal
	for _, P := range primes {
		in, err := e.member(ctx, p, P)
		if err != nil {
			return p, err
		}
		if in {
			on = append(on, P)
		}
	}
	L, err := e.intersectAll(ctx, r, on)
	if err != nil {
		return p, err
	}
	unit, err := e.isUnit(ctx, L)
	if err != nil {
		return p, err
	}
	if unit {
		return poly.One(r), nil
	}
	factors, err := e.k.Factorize(ctx, p)
	if err != nil {
		return p, err
	}
	if len(factors) == 1 {
		return factors[0].Poly, nil
	}
	for _, f := range factors {
		in, err := e.member(ctx, f.Poly, L)
		if err != nil {
			return p, err
		}
		if in {
			return f.Poly, nil
		}
	}

	return p, nil
}

// markedCenter computes the center on the open set where the marker does
// not vanish and closes it up. Components of the center on which the
// marker vanishes are not stored.
// Stage 1 (Marker): updateMarker.
// Stage 2 (Localize): a fresh variable z and z·p − 1 are added to W, J
// and the divisors; the center of the components meeting the divisors,
// of all components on a chart without divisors, is computed there.
// Stage 3 (Close): z is cleared from the center; a center vanishing on
// J after clearing z means J itself.
func (d *driver) markedCenter(ctx context.Context, e *engine, ch *Chart) (Center, ideal.Ideal, []StoredCenter, error) {
	bo := ch.BO
	r := bo.Ring
	J := bo.Variety
	p := poly.One(r)
	if ch.LocalMarker != nil {
		var err error
		if p, err = e.updateMarker(ctx, J, *ch.LocalMarker); err != nil {
			return Center{}, ideal.Ideal{}, nil, err
		}
		ch.LocalMarker = &p
	}

	r1, err := r.Extend(r.FreshName("z"))
	if err != nil {
		return Center{}, ideal.Ideal{}, nil, err
	}
	z := r1.NVars() - 1
	loc, err := bo.transfer(r1)
	if err != nil {
		return Center{}, ideal.Ideal{}, nil, err
	}
	p1 := p.MustTransfer(r1)
	te, err := e.std(ctx, loc.Variety)
	if err != nil {
		return Center{}, ideal.Ideal{}, nil, err
	}
	inv := poly.Var(r1, z).Mul(p1).Sub(poly.One(r1))
	loc.Ambient = loc.Ambient.Add(inv)
	loc.Variety = loc.Variety.Add(inv)
	for j, Ej := range loc.Divisors {
		loc.Divisors[j] = Ej.Add(inv)
	}

	ce := Center{Ideal: loc.Variety, Origin: []int{-1}, Order: []int{1}, Counts: []int{0}}
	// Without divisors every component still needs a center.
	K := loc.Variety
	if len(loc.Divisors) > 0 {
		if K, err = e.meetingComponents(ctx, loc.Variety, loc.Divisors); err != nil {
			return Center{}, ideal.Ideal{}, nil, err
		}
	}
	unit, err := e.isUnit(ctx, K)
	if err != nil {
		return Center{}, ideal.Ideal{}, nil, err
	}
	if !unit {
		bo2 := loc.Clone()
		bo2.Variety = K
		if ce, err = e.findCenter(ctx, bo2, newSatCache(bo2.SatCache), false); err != nil {
			return Center{}, ideal.Ideal{}, nil, err
		}
		same, err := e.k.Equal(ctx, ce.Ideal, K)
		if err != nil {
			return Center{}, ideal.Ideal{}, nil, err
		}
		if same {
			ce.Ideal = loc.Variety
		}
	}

	cleared, err := e.clearInverse(ctx, ce.Ideal, te, z, p1)
	if err != nil {
		return Center{}, ideal.Ideal{}, nil, err
	}
	if cleared.IsZero() {
		ce.Ideal = J
	} else {
		closed, err := e.k.Eliminate(ctx, ce.Ideal, []int{z})
		if err != nil {
			return Center{}, ideal.Ideal{}, nil, err
		}
		if ce.Ideal, err = closed.Transfer(r); err != nil {
			return Center{}, ideal.Ideal{}, nil, err
		}
	}

	Jstd, err := e.std(ctx, J)
	if err != nil {
		return Center{}, ideal.Ideal{}, nil, err
	}
	keep := func(P ideal.Ideal) (bool, error) {
		in, err := e.member(ctx, p, P)
		return !in, err
	}
	cent, pending, err := d.decompose(ctx, e, J, Jstd, ce, keep)
	if err != nil {
		return Center{}, ideal.Ideal{}, nil, err
	}

	return ce, cent, pending, nil
}
