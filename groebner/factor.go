// SPDX-License-Identifier: MIT

package groebner

import (
	"context"
	"math/big"
	"sort"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// divExact returns f/g or ErrNotDivisible.
func divExact(f, g poly.Poly) (poly.Poly, error) {
	if g.IsZero() {
		return poly.Poly{}, ErrNotDivisible
	}
	r := f.Ring()
	gl := g.Lead()
	q := poly.Zero(r)
	cur := f
	for !cur.IsZero() {
		lt := cur.Lead()
		if !gl.Exp.Divides(lt.Exp) {
			return poly.Poly{}, ErrNotDivisible
		}
		c := new(big.Rat).Quo(lt.Coef, gl.Coef)
		m := gl.Exp.Div(lt.Exp)
		q = q.Add(poly.MonomialPoly(r, c, m))
		cur = cur.Sub(g.MulTerm(c, m))
	}

	return q, nil
}

// gcd returns a primitive greatest common divisor of f and g.
// The general case reads the lcm off the principal ideal (f) ∩ (g).
func (p *Provider) gcd(ctx context.Context, f, g poly.Poly) (poly.Poly, error) {
	r := f.Ring()
	switch {
	case f.IsZero():
		return g.Primitive(), nil
	case g.IsZero():
		return f.Primitive(), nil
	case f.IsConstant() || g.IsConstant():
		return poly.One(r), nil
	case f.IsMonomial() || g.IsMonomial():
		return monomialGCD(r, f, g), nil
	}
	if q, err := divExact(g, f); err == nil && !q.IsZero() {
		return f.Primitive(), nil
	}
	if q, err := divExact(f, g); err == nil && !q.IsZero() {
		return g.Primitive(), nil
	}
	L, err := p.intersect2(ctx, ideal.New(r, f), ideal.New(r, g))
	if err != nil {
		return poly.Poly{}, err
	}
	L, err = p.Std(ctx, L)
	if err != nil {
		return poly.Poly{}, err
	}
	lcm := L.Gen(0)
	d, err := divExact(f.Mul(g), lcm)
	if err != nil {
		return poly.Poly{}, err
	}

	return d.Primitive(), nil
}

// monomialGCD handles the case where one argument is a monomial: the gcd
// is the largest monomial dividing every term of both.
func monomialGCD(r *poly.Ring, f, g poly.Poly) poly.Poly {
	m := minExponents(f)
	h := minExponents(g)
	for i := range m {
		m[i] = min(m[i], h[i])
	}

	return poly.MonomialPoly(r, big.NewRat(1, 1), m)
}

func minExponents(f poly.Poly) poly.Monomial {
	ts := f.Terms()
	m := ts[0].Exp.Clone()
	for _, t := range ts[1:] {
		for i := range m {
			m[i] = min(m[i], t.Exp[i])
		}
	}

	return m
}

// coefficientsIn splits f = Σ c_k·x_i^k and returns the nonzero c_k.
func coefficientsIn(f poly.Poly, i int) map[int]poly.Poly {
	r := f.Ring()
	groups := map[int][]poly.Term{}
	for _, t := range f.Terms() {
		m := t.Exp.Clone()
		k := m[i]
		m[i] = 0
		groups[k] = append(groups[k], poly.Term{Coef: t.Coef, Exp: m})
	}
	out := make(map[int]poly.Poly, len(groups))
	for k, ts := range groups {
		out[k] = poly.FromTerms(r, ts)
	}

	return out
}

// contentIn returns the gcd of the coefficients of f as a polynomial in x_i.
func (p *Provider) contentIn(ctx context.Context, f poly.Poly, i int) (poly.Poly, error) {
	coeffs := coefficientsIn(f, i)
	keys := make([]int, 0, len(coeffs))
	for k := range coeffs {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	c := poly.Zero(f.Ring())
	for _, k := range keys {
		var err error
		if c, err = p.gcd(ctx, c, coeffs[k]); err != nil {
			return poly.Poly{}, err
		}
		if c.IsConstant() {
			return poly.One(f.Ring()), nil
		}
	}

	return c, nil
}

// squarefreeParts returns s with s[k-1] the product of the irreducible
// factors of multiplicity exactly k (characteristic zero).
func (p *Provider) squarefreeParts(ctx context.Context, f poly.Poly) ([]poly.Poly, error) {
	var cumulative []poly.Poly // cumulative[k-1] = product of factors with multiplicity ≥ k
	cur := f.Primitive()
	for !cur.IsConstant() {
		g := cur
		for _, i := range cur.Support() {
			var err error
			if g, err = p.gcd(ctx, g, cur.Diff(i)); err != nil {
				return nil, err
			}
			if g.IsConstant() {
				break
			}
		}
		s, err := divExact(cur, g)
		if err != nil {
			return nil, err
		}
		cumulative = append(cumulative, s.Primitive())
		cur = g.Primitive()
	}
	out := make([]poly.Poly, len(cumulative))
	for k := range cumulative {
		if k+1 == len(cumulative) {
			out[k] = cumulative[k]
			continue
		}
		q, err := divExact(cumulative[k], cumulative[k+1])
		if err != nil {
			return nil, err
		}
		out[k] = q.Primitive()
	}

	return out, nil
}

// Factorize returns the distinct irreducible factors of f found by the
// splitting rules of this package, with multiplicities; constants are omitted.
func (p *Provider) Factorize(ctx context.Context, f poly.Poly) ([]ideal.Factor, error) {
	if f.IsConstant() {
		return nil, nil
	}
	r := f.Ring()
	acc := map[string]*ideal.Factor{}
	var order []string
	push := func(q poly.Poly, mult int) {
		q = q.Primitive()
		k := q.String()
		if old, ok := acc[k]; ok {
			old.Mult += mult
			return
		}
		acc[k] = &ideal.Factor{Poly: q, Mult: mult}
		order = append(order, k)
	}

	mono := minExponents(f)
	for i, e := range mono {
		if e > 0 {
			push(poly.Var(r, i), e)
		}
	}
	rest, err := divExact(f, poly.MonomialPoly(r, big.NewRat(1, 1), mono))
	if err != nil {
		return nil, err
	}
	parts, err := p.squarefreeParts(ctx, rest)
	if err != nil {
		return nil, err
	}
	for k, s := range parts {
		if s.IsConstant() {
			continue
		}
		irr, err := p.split(ctx, s, 0)
		if err != nil {
			return nil, err
		}
		for _, q := range irr {
			push(q, k+1)
		}
	}
	out := make([]ideal.Factor, 0, len(order))
	for _, k := range order {
		out = append(out, *acc[k])
	}
	sort.SliceStable(out, func(a, b int) bool {
		if da, db := out[a].Poly.Degree(), out[b].Poly.Degree(); da != db {
			return da < db
		}
		return out[a].Poly.String() < out[b].Poly.String()
	})

	return out, nil
}

// split factors a square-free polynomial without monomial content.
func (p *Provider) split(ctx context.Context, s poly.Poly, depth int) ([]poly.Poly, error) {
	if s.IsConstant() {
		return nil, nil
	}
	if s.Degree() == 1 || depth > p.opts.MaxSplitDepth {
		return []poly.Poly{s}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	support := s.Support()
	// content with respect to each variable
	for _, i := range support {
		c, err := p.contentIn(ctx, s, i)
		if err != nil {
			return nil, err
		}
		if c.IsConstant() {
			continue
		}
		q, err := divExact(s, c)
		if err != nil {
			return nil, err
		}
		return p.splitBoth(ctx, c, q, depth)
	}
	// primitive and linear in some variable: irreducible
	for _, i := range support {
		if s.DegreeIn(i) == 1 {
			return []poly.Poly{s}, nil
		}
	}
	if len(support) == 1 {
		return univariateSplit(s, support[0]), nil
	}
	if g, ok := quadraticFactor(s, support); ok {
		q, err := divExact(s, g)
		if err == nil {
			return p.splitBoth(ctx, g, q, depth)
		}
	}
	if len(support) == 2 {
		if fs, ok := binaryFormSplit(s, support); ok {
			return fs, nil
		}
	}

	return []poly.Poly{s}, nil
}

func (p *Provider) splitBoth(ctx context.Context, a, b poly.Poly, depth int) ([]poly.Poly, error) {
	fa, err := p.split(ctx, a, depth+1)
	if err != nil {
		return nil, err
	}
	fb, err := p.split(ctx, b, depth+1)
	if err != nil {
		return nil, err
	}

	return append(fa, fb...), nil
}

// quadraticFactor looks for a variable x with s = a·x² + b·x + c and
// b² - 4ac a perfect square r²; then 2a·x + b - r, made primitive in x,
// divides s.
func quadraticFactor(s poly.Poly, support []int) (poly.Poly, bool) {
	r := s.Ring()
	for _, i := range support {
		if s.DegreeIn(i) != 2 {
			continue
		}
		co := coefficientsIn(s, i)
		a, b, c := co[2], co[1], co[0]
		if b.Ring() == nil {
			b = poly.Zero(r)
		}
		if c.Ring() == nil {
			c = poly.Zero(r)
		}
		disc := b.Mul(b).Sub(a.Mul(c).ScaleInt(4))
		root, ok := sqrtPoly(disc)
		if !ok {
			continue
		}
		x := poly.Var(r, i)
		lin := a.ScaleInt(2).Mul(x).Add(b).Sub(root)
		co2 := coefficientsIn(lin, i)
		lead, tail := co2[1], co2[0]
		if tail.Ring() == nil {
			tail = poly.Zero(r)
		}
		g := primitiveLinear(lead, tail, x)
		if g.DegreeIn(i) == 1 {
			return g, true
		}
	}

	return poly.Poly{}, false
}

// primitiveLinear returns (lead·x + tail) divided by the common monomial and
// constant content; if lead divides tail exactly, lead is removed too.
func primitiveLinear(lead, tail, x poly.Poly) poly.Poly {
	if q, err := divExact(tail, lead); err == nil {
		return x.Add(q).Primitive()
	}
	if tail.IsZero() {
		return x
	}
	m := minExponents(lead)
	h := minExponents(tail)
	for k := range m {
		m[k] = min(m[k], h[k])
	}
	mono := poly.MonomialPoly(lead.Ring(), big.NewRat(1, 1), m)
	l, _ := divExact(lead, mono)
	t, _ := divExact(tail, mono)

	return l.Mul(x).Add(t).Primitive()
}

// sqrtPoly returns r with r² = d, if d is a perfect square over Q.
func sqrtPoly(d poly.Poly) (poly.Poly, bool) {
	r := d.Ring()
	if d.IsZero() {
		return poly.Zero(r), true
	}
	lt := d.Lead()
	m := poly.NewMonomial(r.NVars())
	for i, e := range lt.Exp {
		if e%2 != 0 {
			return poly.Poly{}, false
		}
		m[i] = e / 2
	}
	c, ok := ratSqrt(lt.Coef)
	if !ok {
		return poly.Poly{}, false
	}
	root := poly.MonomialPoly(r, c, m)
	lead := root.Lead()
	last := m
	for iter := 0; iter <= 2*d.Len()+2; iter++ {
		rem := d.Sub(root.Mul(root))
		if rem.IsZero() {
			return root, true
		}
		rt := rem.Lead()
		if !lead.Exp.Divides(rt.Exp) {
			return poly.Poly{}, false
		}
		nm := lead.Exp.Div(rt.Exp)
		if poly.DegRevLex(nm, last) >= 0 {
			return poly.Poly{}, false
		}
		nc := new(big.Rat).Quo(rt.Coef, new(big.Rat).Mul(big.NewRat(2, 1), lead.Coef))
		root = root.Add(poly.MonomialPoly(r, nc, nm))
		last = nm
	}

	return poly.Poly{}, false
}

func ratSqrt(c *big.Rat) (*big.Rat, bool) {
	if c.Sign() < 0 {
		return nil, false
	}
	n, ok := intSqrt(c.Num())
	if !ok {
		return nil, false
	}
	d, ok := intSqrt(c.Denom())
	if !ok {
		return nil, false
	}

	return new(big.Rat).SetFrac(n, d), true
}

func intSqrt(v *big.Int) (*big.Int, bool) {
	s := new(big.Int).Sqrt(v)

	return s, new(big.Int).Mul(s, s).Cmp(v) == 0
}

// univariateSplit splits off the linear factors q·x - p of a square-free
// univariate polynomial found by the rational root test. The cofactor is
// kept whole.
func univariateSplit(s poly.Poly, i int) []poly.Poly {
	r := s.Ring()
	var out []poly.Poly
	cur := s.Primitive()
	for cur.Degree() > 1 {
		root, ok := rationalRoot(cur, i)
		if !ok {
			break
		}
		lin := poly.Var(r, i).Scale(new(big.Rat).SetInt(root.Denom())).
			Sub(poly.Const(r, new(big.Rat).SetInt(root.Num())))
		q, err := divExact(cur, lin)
		if err != nil {
			break
		}
		out = append(out, lin.Primitive())
		cur = q.Primitive()
	}

	return append(out, cur)
}

// rationalRoot returns a root p/q of f (integer coefficients, nonzero
// constant term) with p | a0 and q | an, searching divisors up to a bound.
func rationalRoot(f poly.Poly, i int) (*big.Rat, bool) {
	deg := f.DegreeIn(i)
	coeffs := make([]*big.Int, deg+1)
	for k := range coeffs {
		coeffs[k] = new(big.Int)
	}
	for _, t := range f.Terms() {
		coeffs[t.Exp[i]] = new(big.Int).Set(t.Coef.Num())
	}
	if coeffs[0].Sign() == 0 {
		return new(big.Rat), true
	}
	ps, ok1 := divisors(coeffs[0])
	qs, ok2 := divisors(coeffs[deg])
	if !ok1 || !ok2 {
		return nil, false
	}
	for _, q := range qs {
		for _, p := range ps {
			for _, sign := range []int64{1, -1} {
				cand := new(big.Rat).SetFrac(new(big.Int).Mul(p, big.NewInt(sign)), q)
				if evalUni(coeffs, cand).Sign() == 0 {
					return cand, true
				}
			}
		}
	}

	return nil, false
}

func evalUni(coeffs []*big.Int, x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for k := len(coeffs) - 1; k >= 0; k-- {
		acc.Mul(acc, x)
		acc.Add(acc, new(big.Rat).SetInt(coeffs[k]))
	}

	return acc
}

// divisors lists the positive divisors of |v| for |v| ≤ 10^12.
func divisors(v *big.Int) ([]*big.Int, bool) {
	a := new(big.Int).Abs(v)
	if a.Cmp(big.NewInt(1_000_000_000_000)) > 0 {
		return nil, false
	}
	n := a.Int64()
	var small, large []*big.Int
	for d := int64(1); d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		small = append(small, big.NewInt(d))
		if d*d != n {
			large = append(large, big.NewInt(n/d))
		}
	}
	for k := len(large) - 1; k >= 0; k-- {
		small = append(small, large[k])
	}

	return small, true
}

// binaryFormSplit factors a form homogeneous in two variables by
// dehomogenizing, splitting the univariate image and homogenizing back.
func binaryFormSplit(s poly.Poly, support []int) ([]poly.Poly, bool) {
	deg := s.Degree()
	for _, t := range s.Terms() {
		if t.Exp.Degree() != deg {
			return nil, false
		}
	}
	r := s.Ring()
	x, y := support[0], support[1]
	deh := s.Subst(y, poly.One(r))
	parts := univariateSplit(deh, x)
	if len(parts) < 2 {
		return nil, false
	}
	out := make([]poly.Poly, 0, len(parts)+1)
	total := 0
	for _, q := range parts {
		h := homogenize(q, y)
		total += h.Degree()
		out = append(out, h)
	}
	if total < deg {
		// factors of y were lost when setting y = 1
		out = append(out, poly.Var(r, y).Pow(deg-total))
	}

	return out, true
}

// homogenize multiplies every term of q by the power of x_y making it of
// the degree of q.
func homogenize(q poly.Poly, y int) poly.Poly {
	r := q.Ring()
	d := q.Degree()
	ts := make([]poly.Term, 0, q.Len())
	for _, t := range q.Terms() {
		m := t.Exp.Clone()
		m[y] += d - t.Exp.Degree()
		ts = append(ts, poly.Term{Coef: t.Coef, Exp: m})
	}

	return poly.FromTerms(r, ts)
}
