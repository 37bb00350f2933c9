// SPDX-License-Identifier: MIT

package groebner

import (
	"math/big"
	"sort"

	"github.com/katalvlaran/desing/poly"
)

// term is one coefficient/monomial pair of a gpoly.
type term struct {
	c *big.Rat
	m poly.Monomial
}

// gpoly is a polynomial with terms sorted decreasing in a fixed order.
// Coefficients are never mutated in place.
type gpoly struct {
	terms []term
	sugar int
}

func toG(p poly.Poly, ord order) gpoly {
	ts := p.Terms()
	out := make([]term, len(ts))
	for i, t := range ts {
		out[i] = term{c: t.Coef, m: t.Exp}
	}
	sort.Slice(out, func(i, j int) bool { return ord.cmp(out[i].m, out[j].m) > 0 })

	return gpoly{terms: out, sugar: p.Degree()}
}

func (f gpoly) toPoly(r *poly.Ring) poly.Poly {
	ts := make([]poly.Term, len(f.terms))
	for i, t := range f.terms {
		ts[i] = poly.Term{Coef: t.c, Exp: t.m}
	}

	return poly.FromTerms(r, ts)
}

func (f gpoly) isZero() bool { return len(f.terms) == 0 }
func (f gpoly) lm() poly.Monomial { return f.terms[0].m }
func (f gpoly) lc() *big.Rat { return f.terms[0].c }
func (f gpoly) isConstant() bool { return len(f.terms) > 0 && f.terms[0].m.IsOne() }
func (f gpoly) degree() int { return f.terms[0].m.Degree() }

func (f gpoly) equal(g gpoly) bool {
	if len(f.terms) != len(g.terms) {
		return false
	}
	for i := range f.terms {
		if f.terms[i].c.Cmp(g.terms[i].c) != 0 || !f.terms[i].m.Equal(g.terms[i].m) {
			return false
		}
	}

	return true
}

func monicG(f gpoly) gpoly {
	if f.isZero() || f.lc().Cmp(big.NewRat(1, 1)) == 0 {
		return f
	}
	inv := new(big.Rat).Inv(f.lc())
	out := make([]term, len(f.terms))
	for i, t := range f.terms {
		out[i] = term{c: new(big.Rat).Mul(t.c, inv), m: t.m}
	}

	return gpoly{terms: out, sugar: f.sugar}
}

// subMul returns f - c·x^m·g, merging in order ord.
func subMul(f gpoly, c *big.Rat, m poly.Monomial, g gpoly, ord order) gpoly {
	out := make([]term, 0, len(f.terms)+len(g.terms))
	i, j := 0, 0
	for i < len(f.terms) || j < len(g.terms) {
		if j == len(g.terms) {
			out = append(out, f.terms[i:]...)
			break
		}
		gm := g.terms[j].m.Mul(m)
		if i == len(f.terms) {
			out = append(out, term{c: new(big.Rat).Neg(new(big.Rat).Mul(c, g.terms[j].c)), m: gm})
			j++
			continue
		}
		switch ord.cmp(f.terms[i].m, gm) {
		case 1:
			out = append(out, f.terms[i])
			i++
		case -1:
			out = append(out, term{c: new(big.Rat).Neg(new(big.Rat).Mul(c, g.terms[j].c)), m: gm})
			j++
		default:
			v := new(big.Rat).Sub(f.terms[i].c, new(big.Rat).Mul(c, g.terms[j].c))
			if v.Sign() != 0 {
				out = append(out, term{c: v, m: gm})
			}
			i++
			j++
		}
	}

	return gpoly{terms: out, sugar: f.sugar}
}

// spoly returns the S-polynomial of f and g.
func spoly(f, g gpoly, ord order) gpoly {
	l := f.lm().Lcm(g.lm())
	mf := f.lm().Div(l)
	mg := g.lm().Div(l)
	// (1/lc f)·mf·f - (1/lc g)·mg·g
	a := gpoly{}
	a = subMul(a, new(big.Rat).Neg(new(big.Rat).Inv(f.lc())), mf, f, ord)

	return subMul(a, new(big.Rat).Inv(g.lc()), mg, g, ord)
}
