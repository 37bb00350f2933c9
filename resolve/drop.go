// SPDX-License-Identifier: MIT

package resolve

import (
	"context"

	"github.com/katalvlaran/desing/ideal"
)

// dropCoeff returns the intersection of the minimal primes of the
// coefficient variety that are already in good position: smooth, disjoint
// from the other components, transversal to the divisors and normal
// crossing with them. The unit ideal means nothing can be dropped.
func (e *engine) dropCoeff(ctx context.Context, bo BasicObject) (ideal.Ideal, error) {
	r := bo.Variety.Ring()
	primes, err := e.k.MinAssPrimes(ctx, bo.Variety)
	if err != nil {
		return ideal.Ideal{}, err
	}
	I := bo.Variety
	dropped := ideal.Unit(r)
	first := true
	for _, P := range primes {
		ok, rest, err := e.droppable(ctx, bo, I, P)
		if err != nil {
			return ideal.Ideal{}, err
		}
		if !ok {
			continue
		}
		if first {
			dropped = P
			first = false
		} else if dropped, err = e.k.Intersect(ctx, dropped, P); err != nil {
			return ideal.Ideal{}, err
		}
		I = rest
	}

	return dropped, nil
}

func (e *engine) droppable(ctx context.Context, bo BasicObject, I, P ideal.Ideal) (bool, ideal.Ideal, error) {
	sm, err := e.smooth(ctx, P, false)
	if err != nil || !sm {
		return false, ideal.Ideal{}, err
	}
	rest, err := e.sat(ctx, I, P)
	if err != nil {
		return false, ideal.Ideal{}, err
	}
	disjoint, err := e.isUnit(ctx, rest.Sum(P))
	if err != nil || !disjoint {
		return false, ideal.Ideal{}, err
	}
	tr, err := e.transversal(ctx, P, bo.Divisors, nil)
	if err != nil || !tr {
		return false, ideal.Ideal{}, err
	}
	nc, err := e.normalCross(ctx, bo.Divisors, nil)
	if err != nil || !nc {
		return false, ideal.Ideal{}, err
	}
	cut := make([]ideal.Ideal, len(bo.Divisors))
	for j, Ej := range bo.Divisors {
		cut[j] = Ej.Sum(P)
	}
	if nc, err = e.normalCross(ctx, cut, nil); err != nil || !nc {
		return false, ideal.Ideal{}, err
	}

	return true, rest, nil
}

// dropRedundant removes from the maximal divisor intersections those
// components along which V(J) is already in normal crossing position. A
// non-nil direct ideal means no component needs attention and the standard
// basis of J itself is the center.
// Stage 1 (Shortcut): when the locus is smooth, J transversal and no E⁺
// divisor raises the count, components with smooth J + component go.
// Stage 2 (Transversality): a component involving a divisor not
// transversal to J stays.
// Stage 3 (Expected dimension): a component stays unless W + J + component
// is smooth of the expected dimension and crosses E⁺ normally.
func (e *engine) dropRedundant(ctx context.Context, bo BasicObject, E DivisorIntersection) (DivisorIntersection, *ideal.Ideal, error) {
	r := bo.Variety.Ring()
	J := bo.Variety
	G, err := e.std(ctx, J)
	if err != nil {
		return E, nil, err
	}
	dimJ, err := e.dim(ctx, G)
	if err != nil {
		return E, nil, err
	}
	expDim := dimJ - E.Count
	keep := make([]bool, len(E.Components))

	ok := false
	if E.TotalCount <= dimJ && E.NonNormal == 0 {
		R, err := e.k.Radical(ctx, E.Locus.Sum(J).Sum(bo.Ambient))
		if err != nil {
			return E, nil, err
		}
		if R, err = e.k.MinimalGenerators(ctx, R); err != nil {
			return E, nil, err
		}
		sm, err := e.smooth(ctx, R, false)
		if err != nil {
			return E, nil, err
		}
		if sm {
			tr, err := e.transversal(ctx, J, bo.Divisors, nil)
			if err != nil {
				return E, nil, err
			}
			if tr {
				ok = true
				if E.Count == E.TotalCount {
					any := false
					for i, comp := range E.Components {
						s, err := e.smooth(ctx, J.Sum(comp), false)
						if err != nil {
							return E, nil, err
						}
						if !s {
							keep[i] = true
							any = true
						}
					}
					if !any {
						return E, &G, nil
					}
				}
			}
		}
	}

	if !ok {
		transverse := map[int]bool{}
		for i, t := range E.Tuples {
			for _, j := range t {
				tr, seen := transverse[j]
				if !seen {
					if tr, err = e.transversal(ctx, J, bo.Divisors[j:j+1], nil); err != nil {
						return E, nil, err
					}
					transverse[j] = tr
				}
				if !tr {
					keep[i] = true
				}
			}
		}
	}

	for i, comp := range E.Components {
		if keep[i] {
			continue
		}
		if keep[i], err = e.mustKeep(ctx, bo, J, comp, expDim); err != nil {
			return E, nil, err
		}
	}

	var kept []ideal.Ideal
	for i, comp := range E.Components {
		if keep[i] {
			kept = append(kept, comp)
		}
	}
	locus := ideal.Zero(r)
	if len(kept) > 0 {
		if locus, err = e.intersectAll(ctx, r, kept); err != nil {
			return E, nil, err
		}
	}

	return DivisorIntersection{Locus: locus, Count: E.Count, TotalCount: E.TotalCount}, nil, nil
}

// mustKeep tests one transversal component: W + J + comp must be smooth of
// dimension expDim, no E⁺ divisor may keep that dimension, and the cut E⁺
// divisors must cross normally.
func (e *engine) mustKeep(ctx context.Context, bo BasicObject, J, comp ideal.Ideal, expDim int) (bool, error) {
	T := bo.Ambient.Sum(J).Sum(comp)
	d, err := e.dim(ctx, T)
	if err != nil {
		return false, err
	}
	if d != expDim {
		return true, nil
	}
	if T, err = e.k.MinimalGenerators(ctx, T); err != nil {
		return false, err
	}
	sm, err := e.smooth(ctx, T, false)
	if err != nil {
		return false, err
	}
	if !sm {
		return true, nil
	}
	minusEnd := head(bo.Origin, -1)
	if minusEnd == -1 {
		return false, nil
	}
	var plus []ideal.Ideal
	for jj := minusEnd; jj < len(bo.Divisors); jj++ {
		D := bo.Divisors[jj].Sum(T)
		dd, err := e.dim(ctx, D)
		if err != nil {
			return false, err
		}
		if dd == expDim {
			return true, nil
		}
		plus = append(plus, D)
	}
	nc, err := e.normalCross(ctx, plus, nil)

	return !nc, err
}
