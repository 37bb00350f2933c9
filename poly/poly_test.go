package poly_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/desing/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRing_Validation checks the name rules of NewRing.
func TestNewRing_Validation(t *testing.T) {
	_, err := poly.NewRing("x", "x")
	assert.ErrorIs(t, err, poly.ErrDuplicateVariable)

	_, err = poly.NewRing("1a")
	assert.ErrorIs(t, err, poly.ErrBadVariable)

	r, err := poly.NewRing("x", "y0", "T_1")
	require.NoError(t, err)
	assert.Equal(t, 3, r.NVars())
	i, ok := r.Index("y0")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "Q[x,y0,T_1]", r.String())
	assert.Equal(t, "y01", poly.MustRing("y0", "y").FreshName("y0"))
}

// TestPoly_ArithmeticAndOrder verifies that terms come out in degrevlex order.
func TestPoly_ArithmeticAndOrder(t *testing.T) {
	r := poly.MustRing("x", "y")
	x, y := poly.Var(r, 0), poly.Var(r, 1)

	sq := x.Add(y).Pow(2)
	assert.Equal(t, "x^2+2*x*y+y^2", sq.String())

	cusp := x.Pow(2).Sub(y.Pow(3))
	assert.Equal(t, "-y^3+x^2", cusp.String())
	assert.Equal(t, 3, cusp.Degree())
	assert.Equal(t, 2, cusp.LowDegree())

	assert.True(t, x.Sub(x).IsZero())
	assert.True(t, poly.ConstInt(r, 5).IsUnit())
	assert.Equal(t, "3*x+2", poly.MustParse(r, "1/2*x+1/3").Primitive().String())
	assert.Equal(t, "x-2/3", poly.MustParse(r, "3*x-2").Monic().String())
}

// TestPoly_Diff checks partial derivatives.
func TestPoly_Diff(t *testing.T) {
	r := poly.MustRing("x", "y")
	f := poly.MustParse(r, "x^2-y^3+x*y")

	assert.Equal(t, "2*x+y", f.Diff(0).String())
	assert.Equal(t, "-3*y^2+x", f.Diff(1).String())
	assert.True(t, poly.ConstInt(r, 7).Diff(0).IsZero())
}

// TestPoly_MapAndTransfer checks ring homomorphisms and renaming.
func TestPoly_MapAndTransfer(t *testing.T) {
	src := poly.MustRing("x", "y")
	dst := poly.MustRing("y", "y0")
	f := poly.MustParse(src, "x^2-y^3")

	y, y0 := poly.Var(dst, 0), poly.Var(dst, 1)
	g := f.Map(dst, []poly.Poly{y.Mul(y0), y})
	assert.Equal(t, "y^2*y0^2-y^3", g.String())

	h, err := poly.MustParse(src, "y^2+1").Transfer(dst)
	require.NoError(t, err)
	assert.Equal(t, "y^2+1", h.String())

	_, err = f.Transfer(dst)
	assert.ErrorIs(t, err, poly.ErrUnknownVariable)

	sub := f.Subst(1, poly.ConstInt(src, 1))
	assert.Equal(t, "x^2-1", sub.String())

	v := f.Eval([]*big.Rat{big.NewRat(2, 1), big.NewRat(1, 1)})
	assert.Equal(t, "3", v.RatString())
}

// TestParse_Errors checks the sentinel set of the parser.
func TestParse_Errors(t *testing.T) {
	r := poly.MustRing("x", "y")

	_, err := poly.Parse(r, "x+")
	assert.ErrorIs(t, err, poly.ErrParse)

	_, err = poly.Parse(r, "z")
	assert.ErrorIs(t, err, poly.ErrUnknownVariable)

	_, err = poly.Parse(r, "x/0")
	assert.ErrorIs(t, err, poly.ErrDivisionByZero)

	_, err = poly.Parse(r, "x/y")
	assert.ErrorIs(t, err, poly.ErrParse)

	_, err = poly.Parse(r, "(x+y")
	assert.ErrorIs(t, err, poly.ErrParse)
}

// TestParse_RoundTrip verifies that String output parses back to the same value.
func TestParse_RoundTrip(t *testing.T) {
	r := poly.MustRing("x", "y", "z")
	for _, s := range []string{
		"x^3+y^5+y*z^2+x*y^4",
		"-1/2*x*y+3/4",
		"(x-1)*(y+2)^2",
		"-(x+y)^3",
		"0",
	} {
		p, err := poly.Parse(r, s)
		require.NoError(t, err, s)
		q, err := poly.Parse(r, p.String())
		require.NoError(t, err, s)
		assert.True(t, p.Equal(q), s)
	}

	list, err := poly.ParseList(r, "x^2-y, (x+y)*z ,1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "x*z+y*z", list[1].String())
	assert.Equal(t, "x^2-y,x*z+y*z,1", poly.FormatList(list))
}

// TestMonomial_Orders checks the two monomial orders.
func TestMonomial_Orders(t *testing.T) {
	assert.Equal(t, 1, poly.DegRevLex(poly.Monomial{1, 1, 0}, poly.Monomial{1, 0, 1}))
	assert.Equal(t, 1, poly.DegRevLex(poly.Monomial{0, 0, 3}, poly.Monomial{2, 0, 0}))
	assert.Equal(t, -1, poly.Lex(poly.Monomial{0, 0, 3}, poly.Monomial{1, 0, 0}))
	assert.Equal(t, 0, poly.Lex(poly.Monomial{1, 2}, poly.Monomial{1, 2}))

	m := poly.Monomial{2, 1}
	assert.True(t, poly.Monomial{1, 1}.Divides(m))
	assert.Equal(t, poly.Monomial{1, 0}, poly.Monomial{1, 1}.Div(m))
	assert.Equal(t, poly.Monomial{2, 3}, m.Lcm(poly.Monomial{0, 3}))
	assert.False(t, m.Coprime(poly.Monomial{0, 3}))
}
