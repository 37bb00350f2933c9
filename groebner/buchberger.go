// SPDX-License-Identifier: MIT

package groebner

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/katalvlaran/desing/poly"
)

// engine runs one standard-basis computation.
type engine struct {
	ord      order
	maxPairs int
	pairs    int
}

// pair is a critical pair (i < j) of the current basis.
type pair struct {
	i, j  int
	lcm   poly.Monomial
	sugar int
}

// nf returns the fully reduced normal form of f with respect to G.
// Complexity: bounded by the number of reduction steps, each O(|f|+|g|).
func (e *engine) nf(f gpoly, G []gpoly) gpoly {
	var rem []term
	cur := f
	for !cur.isZero() {
		lt := cur.terms[0]
		reduced := false
		for _, g := range G {
			if g.isZero() || !g.lm().Divides(lt.m) {
				continue
			}
			q := g.lm().Div(lt.m)
			c := new(big.Rat).Quo(lt.c, g.lc())
			s := cur.sugar
			if gs := g.sugar + q.Degree(); gs > s {
				s = gs
			}
			cur = subMul(cur, c, q, g, e.ord)
			cur.sugar = s
			reduced = true
			break
		}
		if !reduced {
			rem = append(rem, lt)
			cur.terms = cur.terms[1:]
		}
	}

	return gpoly{terms: rem, sugar: cur.sugar}
}

// basis computes a reduced standard basis of F.
// Stage 1 (Prepare): insert the reduced inputs, creating critical pairs.
// Stage 2 (Execute): process pairs by smallest sugar, skipping pairs
// removed by the product and chain criteria.
// Stage 3 (Finalize): minimize and interreduce.
func (e *engine) basis(ctx context.Context, F []gpoly) ([]gpoly, error) {
	var (
		G       []gpoly
		queue   []pair
		pending = map[[2]int]bool{}
	)
	add := func(h gpoly) {
		h = monicG(h)
		k := len(G)
		G = append(G, h)
		for i := 0; i < k; i++ {
			l := G[i].lm().Lcm(h.lm())
			s := max(G[i].sugar+l.Degree()-G[i].degree(), h.sugar+l.Degree()-h.degree())
			queue = append(queue, pair{i: i, j: k, lcm: l, sugar: s})
			pending[[2]int{i, k}] = true
		}
	}
	for _, f := range F {
		if f.isZero() {
			continue
		}
		h := e.nf(f, G)
		if h.isZero() {
			continue
		}
		if h.isConstant() {
			return []gpoly{monicG(h)}, nil
		}
		add(h)
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		best := 0
		for k := 1; k < len(queue); k++ {
			if e.before(queue[k], queue[best]) {
				best = k
			}
		}
		p := queue[best]
		queue = append(queue[:best], queue[best+1:]...)
		delete(pending, [2]int{p.i, p.j})

		if G[p.i].lm().Coprime(G[p.j].lm()) || chain(p, G, pending) {
			continue
		}
		e.pairs++
		if e.maxPairs > 0 && e.pairs > e.maxPairs {
			return nil, fmt.Errorf("after %d pairs: %w", e.maxPairs, ErrBudgetExceeded)
		}
		s := spoly(G[p.i], G[p.j], e.ord)
		s.sugar = p.sugar
		h := e.nf(s, G)
		if h.isZero() {
			continue
		}
		if h.isConstant() {
			return []gpoly{monicG(h)}, nil
		}
		add(h)
	}

	return e.reduceBasis(G), nil
}

// before orders pairs by sugar, then by lcm, then by index.
func (e *engine) before(a, b pair) bool {
	if a.sugar != b.sugar {
		return a.sugar < b.sugar
	}
	if c := e.ord.cmp(a.lcm, b.lcm); c != 0 {
		return c < 0
	}
	if a.j != b.j {
		return a.j < b.j
	}

	return a.i < b.i
}

// chain reports whether some third element k has lm(k) | lcm(i,j) while
// the pairs (i,k) and (j,k) have already been treated.
func chain(p pair, G []gpoly, pending map[[2]int]bool) bool {
	key := func(a, b int) [2]int {
		if a > b {
			a, b = b, a
		}
		return [2]int{a, b}
	}
	for k := range G {
		if k == p.i || k == p.j || !G[k].lm().Divides(p.lcm) {
			continue
		}
		if !pending[key(p.i, k)] && !pending[key(p.j, k)] {
			return true
		}
	}

	return false
}

// reduceBasis drops elements whose leading monomial is divisible by another
// one, tail-reduces the rest and sorts them by increasing leading monomial.
func (e *engine) reduceBasis(G []gpoly) []gpoly {
	keep := make([]gpoly, 0, len(G))
	for i, g := range G {
		redundant := false
		for j, h := range G {
			if i == j || !h.lm().Divides(g.lm()) {
				continue
			}
			if !h.lm().Equal(g.lm()) || j < i {
				redundant = true
				break
			}
		}
		if !redundant {
			keep = append(keep, g)
		}
	}
	out := make([]gpoly, len(keep))
	for i, g := range keep {
		others := make([]gpoly, 0, len(keep)-1)
		others = append(others, keep[:i]...)
		others = append(others, keep[i+1:]...)
		out[i] = monicG(e.nf(g, others))
	}
	sort.Slice(out, func(a, b int) bool { return e.ord.cmp(out[a].lm(), out[b].lm()) < 0 })

	return out
}
