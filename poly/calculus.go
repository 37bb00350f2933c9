// SPDX-License-Identifier: MIT

package poly

import (
	"fmt"
	"math/big"
)

// Diff returns the partial derivative ∂p/∂x_i.
func (p Poly) Diff(i int) Poly {
	out := make([]Term, 0, len(p.terms))
	for _, t := range p.terms {
		e := t.Exp[i]
		if e == 0 {
			continue
		}
		m := t.Exp.Clone()
		m[i]--
		out = append(out, Term{Coef: new(big.Rat).Mul(t.Coef, big.NewRat(int64(e), 1)), Exp: m})
	}

	// Lowering one exponent may reorder terms, so normalize.
	return FromTerms(p.ring, out)
}

// Map applies the ring homomorphism x_i ↦ images[i] into target.
// len(images) must equal the number of variables of p's ring.
// Complexity: O(terms · vars) polynomial products, powers cached per variable.
func (p Poly) Map(target *Ring, images []Poly) Poly {
	if len(images) != p.ring.NVars() {
		panic(fmt.Errorf("Map: %d images for %d variables: %w", len(images), p.ring.NVars(), ErrDimensionMismatch))
	}
	powers := make([]map[int]Poly, len(images))
	pow := func(i, e int) Poly {
		if powers[i] == nil {
			powers[i] = map[int]Poly{}
		}
		if q, ok := powers[i][e]; ok {
			return q
		}
		q := images[i].withRing(target).Pow(e)
		powers[i][e] = q

		return q
	}
	result := Zero(target)
	for _, t := range p.terms {
		term := Const(target, t.Coef)
		for i, e := range t.Exp {
			if e > 0 {
				term = term.Mul(pow(i, e))
			}
		}
		result = result.Add(term)
	}

	return result
}

// Subst replaces variable i by q; the ring is unchanged.
func (p Poly) Subst(i int, q Poly) Poly {
	images := Identity(p.ring)
	images[i] = q

	return p.Map(p.ring, images)
}

// Transfer moves p into target by variable name. It fails with
// ErrUnknownVariable if p uses a variable that target lacks.
func (p Poly) Transfer(target *Ring) (Poly, error) {
	if p.ring.Equal(target) {
		return Poly{ring: target, terms: p.terms}, nil
	}
	pos := make([]int, p.ring.NVars())
	for i := range pos {
		j, ok := target.Index(p.ring.Var(i))
		if !ok {
			j = -1
		}
		pos[i] = j
	}
	out := make([]Term, 0, len(p.terms))
	for _, t := range p.terms {
		m := NewMonomial(target.NVars())
		for i, e := range t.Exp {
			if e == 0 {
				continue
			}
			if pos[i] < 0 {
				return Poly{}, fmt.Errorf("Transfer(%s): %w", p.ring.Var(i), ErrUnknownVariable)
			}
			m[pos[i]] = e
		}
		out = append(out, Term{Coef: t.Coef, Exp: m})
	}

	return FromTerms(target, out), nil
}

// MustTransfer is Transfer that panics on error.
func (p Poly) MustTransfer(target *Ring) Poly {
	q, err := p.Transfer(target)
	if err != nil {
		panic(err)
	}

	return q
}

// Eval evaluates p at a rational point.
func (p Poly) Eval(point []*big.Rat) *big.Rat {
	sum := new(big.Rat)
	for _, t := range p.terms {
		v := new(big.Rat).Set(t.Coef)
		for i, e := range t.Exp {
			for k := 0; k < e; k++ {
				v.Mul(v, point[i])
			}
		}
		sum.Add(sum, v)
	}

	return sum
}

// Identity returns the variables of r as polynomials: the identity map.
func Identity(r *Ring) []Poly {
	out := make([]Poly, r.NVars())
	for i := range out {
		out[i] = Var(r, i)
	}

	return out
}

// ComposeMaps returns the images of first's source variables under
// second∘first: every polynomial of first is mapped through second.
func ComposeMaps(target *Ring, first, second []Poly) []Poly {
	out := make([]Poly, len(first))
	for i, f := range first {
		out[i] = f.Map(target, second)
	}

	return out
}
