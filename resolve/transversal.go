// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// transversal reports whether V(J) meets every divisor transversally: no
// divisor contains V(J), and J + E_i is smooth of the expected codimension
// wherever it is non-empty. With a local marker pt, a failure only counts
// when pt does not vanish on the bad locus.
func (e *engine) transversal(ctx context.Context, J ideal.Ideal, E []ideal.Ideal, pt *poly.Poly) (bool, error) {
	return e.transversalIn(ctx, J, E, pt, ideal.Ideal{}, false)
}

// transversalOff is transversal restricted to the complement of V(V): a
// failure only counts where V does not vanish. Large intersections of
// high codimension are rejected without a minor computation.
func (e *engine) transversalOff(ctx context.Context, J ideal.Ideal, E []ideal.Ideal, V ideal.Ideal) (bool, error) {
	return e.transversalIn(ctx, J, E, nil, V, true)
}

func (e *engine) transversalIn(ctx context.Context, J ideal.Ideal, E []ideal.Ideal, pt *poly.Poly, V ideal.Ideal, off bool) (bool, error) {
	n := J.Ring().NVars()
	for _, Ei := range E {
		in, err := e.within(ctx, Ei, J)
		if err != nil {
			return false, err
		}
		if in {
			return false, nil
		}
		T := J.Sum(Ei)
		G, err := e.std(ctx, T)
		if err != nil {
			return false, err
		}
		if isOne(G) {
			continue
		}
		dT, err := e.dim(ctx, G)
		if err != nil {
			return false, err
		}
		d := n - dT
		if off && d >= 4 && T.Len() >= 10 {
			return false, nil
		}
		minors, err := ideal.Minors(T.Jacobian(), d)
		if err != nil {
			return false, err
		}
		M := T.Add(minors...)
		if off {
			M = M.Sum(V)
		}
		unit, err := e.isUnit(ctx, M)
		if err != nil {
			return false, err
		}
		if unit {
			continue
		}
		if pt == nil || off {
			return false, nil
		}
		away, err := e.awayFrom(ctx, *pt, M)
		if err != nil {
			return false, err
		}
		if away {
			return false, nil
		}
	}

	return true, nil
}

// awayFrom reports whether pt ∉ radical(M): the bad locus is not confined
// to the zero set of pt.
func (e *engine) awayFrom(ctx context.Context, pt poly.Poly, M ideal.Ideal) (bool, error) {
	R, err := e.k.Radical(ctx, M)
	if err != nil {
		return false, err
	}
	in, err := e.member(ctx, pt, R)

	return !in, err
}

// crossing is a node of the normal-crossing search: an intersection of
// divisors, its standard basis and codimension.
type crossing struct {
	members []int
	K       ideal.Ideal
	codim   int
}

func (c crossing) key() string {
	var b strings.Builder
	for _, m := range c.members {
		fmt.Fprintf(&b, "%d,", m)
	}

	return b.String()
}

// normalCross reports whether the divisors form a normal-crossing
// arrangement: every intersection of a subset is smooth and adding a
// divisor that meets it raises its codimension.
// Stage 1 (Prepare): drop divisors with unit standard basis.
// Stage 2 (Search): breadth first over subsets, each reached once.
// Complexity: one standard basis per non-empty intersection.
func (e *engine) normalCross(ctx context.Context, E []ideal.Ideal, pt *poly.Poly) (bool, error) {
	return e.crossings(ctx, E, pt, ideal.Ideal{}, false)
}

// normalCrossOff checks the arrangement {E_i ∩ J} away from V(V) and stops
// at the first failure.
func (e *engine) normalCrossOff(ctx context.Context, J ideal.Ideal, E []ideal.Ideal, V ideal.Ideal) (bool, error) {
	cut := make([]ideal.Ideal, len(E))
	for i, Ei := range E {
		cut[i] = Ei.Sum(J)
	}

	return e.crossings(ctx, cut, nil, V, true)
}

func (e *engine) crossings(ctx context.Context, E []ideal.Ideal, pt *poly.Poly, V ideal.Ideal, off bool) (bool, error) {
	if len(E) == 0 {
		return true, nil
	}
	n := E[0].Ring().NVars()
	var divs []ideal.Ideal
	for _, Ei := range E {
		G, err := e.std(ctx, Ei)
		if err != nil {
			return false, err
		}
		if !isOne(G) {
			divs = append(divs, G)
		}
	}
	fails := func(M ideal.Ideal, bad ideal.Ideal) (bool, error) {
		if off {
			unit, err := e.isUnit(ctx, bad.Sum(V))
			return !unit, err
		}
		if pt == nil {
			return true, nil
		}

		return e.awayFrom(ctx, *pt, M)
	}

	var queue []crossing
	for i, G := range divs {
		d, err := e.dim(ctx, G)
		if err != nil {
			return false, err
		}
		queue = append(queue, crossing{members: []int{i}, K: G, codim: n - d})
	}
	seen := map[string]bool{}
	ok := true
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		c := queue[0]
		queue = queue[1:]
		minors, err := ideal.Minors(c.K.Jacobian(), c.codim)
		if err != nil {
			return false, err
		}
		M := c.K.Add(minors...)
		unit, err := e.isUnit(ctx, M)
		if err != nil {
			return false, err
		}
		if !unit {
			f, err := fails(M, M)
			if err != nil {
				return false, err
			}
			if f {
				if off {
					return false, nil
				}
				ok = false
			}
		}
		for i := range divs {
			if containsInt(c.members, i) {
				continue
			}
			G, err := e.std(ctx, c.K.Sum(divs[i]))
			if err != nil {
				return false, err
			}
			if isOne(G) {
				continue
			}
			d, err := e.dim(ctx, G)
			if err != nil {
				return false, err
			}
			if n-d == c.codim {
				f, err := fails(M, G)
				if err != nil {
					return false, err
				}
				if f {
					if off {
						return false, nil
					}
					ok = false
				}
			}
			next := crossing{members: insertSorted(c.members, i), K: G, codim: n - d}
			if k := next.key(); !seen[k] {
				seen[k] = true
				queue = append(queue, next)
			}
		}
	}

	return ok, nil
}

// meetsDivisors reports whether V(J) meets some divisor whose standard
// basis is not the unit ideal.
func (e *engine) meetsDivisors(ctx context.Context, J ideal.Ideal, E []ideal.Ideal) (bool, error) {
	for _, Ei := range E {
		unit, err := e.isUnit(ctx, Ei)
		if err != nil {
			return false, err
		}
		if unit {
			continue
		}
		unit, err = e.isUnit(ctx, J.Sum(Ei))
		if err != nil {
			return false, err
		}
		if !unit {
			return true, nil
		}
	}

	return false, nil
}

// finished reports whether the chart is already resolved at the candidate
// center: order at most one, V(J) smooth, transversal to the divisors and
// normal crossing with them.
func (e *engine) finished(ctx context.Context, bo BasicObject) (bool, error) {
	if head(bo.Order, 0) > 1 {
		return false, nil
	}
	J := bo.Variety
	sm, err := e.smooth(ctx, J, bo.Equidimensional)
	if err != nil || !sm {
		return false, err
	}
	tr, err := e.transversal(ctx, J, bo.Divisors, nil)
	if err != nil || !tr {
		return false, err
	}

	return e.normalCross(ctx, cutDivisors(bo.Divisors, J), nil)
}

// cutDivisors returns E_i + J for every divisor whose first generator is
// not constant, the others unchanged.
func cutDivisors(E []ideal.Ideal, J ideal.Ideal) []ideal.Ideal {
	out := make([]ideal.Ideal, len(E))
	for i, Ei := range E {
		if Ei.Len() > 0 && !Ei.Gen(0).IsConstant() {
			out[i] = Ei.Sum(J)
		} else {
			out[i] = Ei
		}
	}

	return out
}

// clearInverse substitutes z = 1/p into every generator of I, clears the
// denominator and reduces modulo J: Σ c_j z^j ↦ Σ c_j p^(deg−j).
func (e *engine) clearInverse(ctx context.Context, I, J ideal.Ideal, z int, p poly.Poly) (ideal.Ideal, error) {
	r := I.Ring()
	G, err := e.std(ctx, J)
	if err != nil {
		return ideal.Ideal{}, err
	}
	out := make([]poly.Poly, 0, I.Len())
	for _, g := range I.Gens() {
		deg := g.DegreeIn(z)
		sum := poly.Zero(r)
		for _, t := range g.Terms() {
			m := t.Exp.Clone()
			j := m[z]
			m[z] = 0
			sum = sum.Add(poly.MonomialPoly(r, t.Coef, m).Mul(p.Pow(deg - j)))
		}
		red, err := e.k.Reduce(ctx, sum, G)
		if err != nil {
			return ideal.Ideal{}, err
		}
		out = append(out, red)
	}

	return ideal.New(r, out...), nil
}

func containsInt(s []int, x int) bool {
	for _, y := range s {
		if y == x {
			return true
		}
	}

	return false
}

func insertSorted(s []int, x int) []int {
	out := make([]int, 0, len(s)+1)
	done := false
	for _, y := range s {
		if !done && x < y {
			out = append(out, x)
			done = true
		}
		out = append(out, y)
	}
	if !done {
		out = append(out, x)
	}

	return out
}
