// SPDX-License-Identifier: MIT

package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/internal/subsets"
)

// DivisorIntersection describes where the most E⁻ divisors meet the variety.
type DivisorIntersection struct {
	// Locus is the union of the maximal intersections of E⁻ divisors, the
	// zero ideal when no divisor meets the variety.
	Locus ideal.Ideal
	// Count is the maximal number of E⁻ divisors meeting the variety
	// simultaneously.
	Count int
	// TotalCount is the same number certified over all divisors.
	TotalCount int
	// Components are the sums of the divisors of each maximal tuple.
	Components []ideal.Ideal
	// Tuples are the divisor indices of each maximal tuple.
	Tuples [][]int
	// NonNormal is 1 when an E⁻ intersection has unexpected dimension, 2
	// when one found in the E⁺ pass has.
	NonNormal int
	// Detailed reports whether Components, Tuples and NonNormal are set,
	// which happens when Count ≤ dim J.
	Detailed bool
}

// IntersectDivisors computes the maximal simultaneous intersections of the
// divisors of bo with bo.Variety.
func IntersectDivisors(ctx context.Context, k *ideal.Kernel, bo BasicObject) (DivisorIntersection, error) {
	return newEngine(k, nil).intersectDivisors(ctx, bo)
}

// intersectDivisors
// Stage 1 (Prepare): mark divisors with unit standard basis as disjoint;
// split E into E⁻ = E[:Origin[0]] and E⁺.
// Stage 2 (E⁻ pass): for k = 1, 2, … test every k-tuple of usable E⁻
// divisors; tuples containing an empty smaller tuple are skipped. The
// last k with a non-empty tuple is Count.
// Stage 3 (E⁺ pass): when Count is below the bound, tuples involving E⁺
// certify TotalCount.
// Complexity: O(Σ_k C(|E|, k)) standard bases in the worst case.
func (e *engine) intersectDivisors(ctx context.Context, bo BasicObject) (DivisorIntersection, error) {
	r := bo.Variety.Ring()
	J := bo.Ambient.Sum(bo.Variety)
	maxkk, err := e.dim(ctx, J)
	if err != nil {
		return DivisorIntersection{}, err
	}
	E := bo.Divisors
	if len(E) == 0 {
		return DivisorIntersection{Locus: bo.Variety}, nil
	}

	stop := make([]Meet, len(E))
	copy(stop, bo.Meets)
	for i, Ei := range E {
		unit, err := e.isUnit(ctx, Ei)
		if err != nil {
			return DivisorIntersection{}, err
		}
		if unit {
			stop[i] = MeetNever
		}
	}

	count := head(bo.Origin, -1)
	count2 := len(E)
	if count < 0 {
		count = len(E)
	}
	var minus, plus []int
	for i := 0; i < count; i++ {
		if stop[i] == MeetUnknown {
			minus = append(minus, i)
			plus = append(plus, i)
		}
	}
	for i := count; i < count2; i++ {
		plus = append(plus, i)
	}

	levels := count
	if maxkk+1 > levels {
		levels = maxkk + 1
	}
	if levels > count2 {
		levels = count2
	}
	monlist := make([][][]int, levels+1)
	merkmon := make([][][]int, levels+1)
	for kk := 1; kk <= levels; kk++ {
		monlist[kk] = pick(minus, kk)
		if kk <= maxkk+1 {
			for _, t := range pick(plus, kk) {
				if !subsetOf(t, minus) {
					merkmon[kk] = append(merkmon[kk], t)
				}
			}
		}
	}

	testTuple := func(t []int) (bool, int, error) {
		T := J
		for _, i := range t {
			T = T.Sum(E[i])
		}
		G, err := e.std(ctx, T)
		if err != nil {
			return false, 0, err
		}
		if isOne(G) {
			return false, 0, nil
		}
		d, err := e.dim(ctx, G)

		return true, d, err
	}

	n, nonnormal := 0, 0
	var found [][]int
	for kk := 1; kk <= count && kk <= levels; kk++ {
		if len(monlist[kk]) == 0 {
			break
		}
		updated := false
		var empty [][]int
		for _, t := range monlist[kk] {
			ok, d, err := testTuple(t)
			if err != nil {
				return DivisorIntersection{}, err
			}
			if !ok {
				empty = append(empty, t)
				continue
			}
			if !updated {
				found = nil
				updated = true
				n = kk
			}
			found = append(found, t)
			if d != maxkk-kk {
				nonnormal = 1
			}
		}
		for jj := kk + 1; jj <= count && jj <= levels; jj++ {
			monlist[jj] = prune(monlist[jj], empty)
			if jj <= maxkk+1 {
				merkmon[jj] = prune(merkmon[jj], empty)
			}
		}
	}

	var locus ideal.Ideal
	components := make([]ideal.Ideal, 0, len(found))
	for _, t := range found {
		S := ideal.Zero(r)
		for _, i := range t {
			S = S.Sum(E[i])
		}
		components = append(components, S)
	}
	switch len(components) {
	case 0:
		locus = ideal.Zero(r)
	case 1:
		locus = components[0]
	default:
		if locus, err = e.k.Intersect(ctx, components...); err != nil {
			return DivisorIntersection{}, err
		}
	}

	ntotal := n
	if n <= maxkk && n < count2 && nonnormal == 0 {
		for kk := n + 1; kk <= maxkk+1; kk++ {
			if kk > levels || len(merkmon[kk]) == 0 {
				break
			}
			for _, t := range merkmon[kk] {
				ok, d, err := testTuple(t)
				if err != nil {
					return DivisorIntersection{}, err
				}
				if !ok {
					continue
				}
				ntotal = kk
				if d != maxkk-kk {
					nonnormal = 2
					break
				}
			}
			if nonnormal != 0 {
				break
			}
		}
	}

	out := DivisorIntersection{Locus: locus, Count: n, TotalCount: ntotal}
	if n <= maxkk {
		out.Detailed = true
		out.Components = components
		out.Tuples = found
		out.NonNormal = nonnormal
	}
	if e.traces(TraceIntersections) {
		e.log.Debug("divisor intersections",
			zap.Int("count", out.Count),
			zap.Int("total", out.TotalCount),
			zap.Int("nonnormal", out.NonNormal),
			zap.Stringer("locus", out.Locus))
	}

	return out, nil
}

// pick returns the k-subsets of from, in lexicographic order.
func pick(from []int, k int) [][]int {
	idx := subsets.All(len(from), k)
	out := make([][]int, len(idx))
	for a, s := range idx {
		t := make([]int, k)
		for b, i := range s {
			t[b] = from[i]
		}
		out[a] = t
	}

	return out
}

// prune drops every tuple containing one of the empty tuples.
func prune(tuples, empty [][]int) [][]int {
	if len(empty) == 0 {
		return tuples
	}
	out := tuples[:0:0]
	for _, t := range tuples {
		dead := false
		for _, s := range empty {
			if subsetOf(s, t) {
				dead = true
				break
			}
		}
		if !dead {
			out = append(out, t)
		}
	}

	return out
}

// subsetOf reports whether every element of s occurs in t; both ascending.
func subsetOf(s, t []int) bool {
	j := 0
	for _, x := range s {
		for j < len(t) && t[j] < x {
			j++
		}
		if j == len(t) || t[j] != x {
			return false
		}
		j++
	}

	return true
}
