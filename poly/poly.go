// SPDX-License-Identifier: MIT

package poly

import (
	"math/big"
	"sort"
)

// Term is a coefficient times a monomial. Terms returned by a Poly share
// storage with it and must not be modified.
type Term struct {
	Coef *big.Rat
	Exp  Monomial
}

// Poly is an immutable polynomial over Q. Terms are kept strictly
// decreasing in degrevlex order, with no zero coefficients.
type Poly struct {
	ring  *Ring
	terms []Term
}

// Zero returns the zero polynomial of r.
func Zero(r *Ring) Poly { return Poly{ring: r} }

// One returns the constant 1.
func One(r *Ring) Poly { return ConstInt(r, 1) }

// ConstInt returns the constant c.
func ConstInt(r *Ring, c int64) Poly { return Const(r, big.NewRat(c, 1)) }

// Const returns the constant c (copied).
func Const(r *Ring, c *big.Rat) Poly {
	if c.Sign() == 0 {
		return Zero(r)
	}

	return Poly{ring: r, terms: []Term{{Coef: new(big.Rat).Set(c), Exp: NewMonomial(r.NVars())}}}
}

// Var returns the i-th variable as a polynomial.
func Var(r *Ring, i int) Poly {
	m := NewMonomial(r.NVars())
	m[i] = 1

	return Poly{ring: r, terms: []Term{{Coef: big.NewRat(1, 1), Exp: m}}}
}

// VarByName returns the named variable as a polynomial.
func VarByName(r *Ring, name string) (Poly, error) {
	i, ok := r.Index(name)
	if !ok {
		return Poly{}, ErrUnknownVariable
	}

	return Var(r, i), nil
}

// MonomialPoly returns c·x^m.
func MonomialPoly(r *Ring, c *big.Rat, m Monomial) Poly {
	if c.Sign() == 0 {
		return Zero(r)
	}

	return Poly{ring: r, terms: []Term{{Coef: new(big.Rat).Set(c), Exp: m.Clone()}}}
}

// FromTerms builds a polynomial from arbitrary terms: equal monomials are
// combined, zero coefficients dropped and the result sorted.
func FromTerms(r *Ring, terms []Term) Poly {
	acc := make(map[string]Term, len(terms))
	for _, t := range terms {
		if t.Coef.Sign() == 0 {
			continue
		}
		k := t.Exp.Key()
		if old, ok := acc[k]; ok {
			old.Coef.Add(old.Coef, t.Coef)
			continue
		}
		acc[k] = Term{Coef: new(big.Rat).Set(t.Coef), Exp: t.Exp.Clone()}
	}
	out := make([]Term, 0, len(acc))
	for _, t := range acc {
		if t.Coef.Sign() != 0 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return DegRevLex(out[i].Exp, out[j].Exp) > 0 })

	return Poly{ring: r, terms: out}
}

// Ring returns the ring of p.
func (p Poly) Ring() *Ring { return p.ring }

// Terms returns the terms in decreasing degrevlex order (read-only).
func (p Poly) Terms() []Term { return p.terms }

// Len returns the number of terms.
func (p Poly) Len() int { return len(p.terms) }

// IsZero reports whether p == 0.
func (p Poly) IsZero() bool { return len(p.terms) == 0 }

// IsConstant reports whether p is a constant (zero included).
func (p Poly) IsConstant() bool {
	return len(p.terms) == 0 || (len(p.terms) == 1 && p.terms[0].Exp.IsOne())
}

// IsUnit reports whether p is a nonzero constant.
func (p Poly) IsUnit() bool { return len(p.terms) == 1 && p.terms[0].Exp.IsOne() }

// IsMonomial reports whether p is a single term.
func (p Poly) IsMonomial() bool { return len(p.terms) == 1 }

// ConstantValue returns the constant coefficient (the degree-zero term).
func (p Poly) ConstantValue() *big.Rat {
	if n := len(p.terms); n > 0 && p.terms[n-1].Exp.IsOne() {
		return new(big.Rat).Set(p.terms[n-1].Coef)
	}

	return new(big.Rat)
}

// Lead returns the leading term in degrevlex order; p must be nonzero.
func (p Poly) Lead() Term { return p.terms[0] }

// Degree returns the total degree, -1 for the zero polynomial.
func (p Poly) Degree() int {
	if p.IsZero() {
		return -1
	}

	return p.terms[0].Exp.Degree()
}

// DegreeIn returns the degree in variable i, -1 for zero.
func (p Poly) DegreeIn(i int) int {
	d := -1
	for _, t := range p.terms {
		d = max(d, t.Exp[i])
	}

	return d
}

// LowDegree returns the smallest total degree of a term (the order at the
// origin), -1 for zero.
func (p Poly) LowDegree() int {
	if p.IsZero() {
		return -1
	}

	return p.terms[len(p.terms)-1].Exp.Degree()
}

// UsesVar reports whether variable i occurs in p.
func (p Poly) UsesVar(i int) bool {
	for _, t := range p.terms {
		if t.Exp[i] > 0 {
			return true
		}
	}

	return false
}

// Support returns the indices of the variables occurring in p, ascending.
func (p Poly) Support() []int {
	var out []int
	for i := 0; i < p.ring.NVars(); i++ {
		if p.UsesVar(i) {
			out = append(out, i)
		}
	}

	return out
}

// Equal reports whether p and q are the same polynomial.
func (p Poly) Equal(q Poly) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}
	for i := range p.terms {
		if p.terms[i].Coef.Cmp(q.terms[i].Coef) != 0 || !p.terms[i].Exp.Equal(q.terms[i].Exp) {
			return false
		}
	}

	return true
}

// Add returns p+q.
// Complexity: O(n+m) by merging the sorted term lists.
func (p Poly) Add(q Poly) Poly {
	if p.IsZero() {
		return q.withRing(p.ring)
	}
	if q.IsZero() {
		return p
	}
	mustSameRing(p.ring, q.ring)
	out := make([]Term, 0, len(p.terms)+len(q.terms))
	i, j := 0, 0
	for i < len(p.terms) && j < len(q.terms) {
		switch DegRevLex(p.terms[i].Exp, q.terms[j].Exp) {
		case 1:
			out = append(out, p.terms[i])
			i++
		case -1:
			out = append(out, q.terms[j])
			j++
		default:
			c := new(big.Rat).Add(p.terms[i].Coef, q.terms[j].Coef)
			if c.Sign() != 0 {
				out = append(out, Term{Coef: c, Exp: p.terms[i].Exp})
			}
			i++
			j++
		}
	}
	out = append(out, p.terms[i:]...)
	out = append(out, q.terms[j:]...)

	return Poly{ring: p.ring, terms: out}
}

// Neg returns -p.
func (p Poly) Neg() Poly {
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = Term{Coef: new(big.Rat).Neg(t.Coef), Exp: t.Exp}
	}

	return Poly{ring: p.ring, terms: out}
}

// Sub returns p-q.
func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

// Scale returns c·p.
func (p Poly) Scale(c *big.Rat) Poly {
	if c.Sign() == 0 {
		return Zero(p.ring)
	}
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = Term{Coef: new(big.Rat).Mul(t.Coef, c), Exp: t.Exp}
	}

	return Poly{ring: p.ring, terms: out}
}

// ScaleInt returns c·p.
func (p Poly) ScaleInt(c int64) Poly { return p.Scale(big.NewRat(c, 1)) }

// MulTerm returns c·x^m·p. Multiplication by a monomial preserves the order.
func (p Poly) MulTerm(c *big.Rat, m Monomial) Poly {
	if c.Sign() == 0 || p.IsZero() {
		return Zero(p.ring)
	}
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = Term{Coef: new(big.Rat).Mul(t.Coef, c), Exp: t.Exp.Mul(m)}
	}

	return Poly{ring: p.ring, terms: out}
}

// Mul returns p·q.
func (p Poly) Mul(q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return Zero(p.ringOr(q))
	}
	mustSameRing(p.ring, q.ring)
	prod := make([]Term, 0, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			prod = append(prod, Term{Coef: new(big.Rat).Mul(a.Coef, b.Coef), Exp: a.Exp.Mul(b.Exp)})
		}
	}

	return FromTerms(p.ring, prod)
}

// Pow returns p^e for e ≥ 0 by repeated squaring.
func (p Poly) Pow(e int) Poly {
	if e < 0 {
		panic("poly: negative exponent")
	}
	result := One(p.ring)
	base := p
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		e >>= 1
		if e > 0 {
			base = base.Mul(base)
		}
	}

	return result
}

// Monic returns p divided by its leading coefficient; zero stays zero.
func (p Poly) Monic() Poly {
	if p.IsZero() {
		return p
	}

	return p.Scale(new(big.Rat).Inv(p.terms[0].Coef))
}

// Primitive returns the integer multiple of p whose coefficients are coprime
// integers with a positive leading coefficient.
func (p Poly) Primitive() Poly {
	if p.IsZero() {
		return p
	}
	den := big.NewInt(1)
	num := new(big.Int)
	for _, t := range p.terms {
		d := t.Coef.Denom()
		g := new(big.Int).GCD(nil, nil, den, d)
		den.Mul(den, new(big.Int).Quo(d, g))
	}
	for _, t := range p.terms {
		n := new(big.Int).Mul(t.Coef.Num(), new(big.Int).Quo(den, t.Coef.Denom()))
		num.GCD(nil, nil, num, new(big.Int).Abs(n))
	}
	f := new(big.Rat).SetFrac(den, num)
	if p.terms[0].Coef.Sign() < 0 {
		f.Neg(f)
	}

	return p.Scale(f)
}

func (p Poly) withRing(r *Ring) Poly {
	if p.ring == nil {
		p.ring = r
	}

	return p
}

func (p Poly) ringOr(q Poly) *Ring {
	if p.ring != nil {
		return p.ring
	}

	return q.ring
}
