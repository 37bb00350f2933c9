package groebner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/desing/groebner"
	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

func newKernel(t *testing.T, opts ...groebner.Option) *ideal.Kernel {
	t.Helper()
	k, err := ideal.NewKernel(groebner.New(opts...))
	require.NoError(t, err)

	return k
}

func assertEqualIdeals(t *testing.T, k *ideal.Kernel, want, got ideal.Ideal) {
	t.Helper()
	eq, err := k.Equal(context.Background(), want, got)
	require.NoError(t, err)
	assert.True(t, eq, "want (%v), got (%v)", want, got)
}

// TestStd_Reduced checks a reduced basis and the unit ideal.
func TestStd_Reduced(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")

	G, err := k.Std(ctx, ideal.MustParse(r, "x^2-y^3, 2*x, -3*y^2"))
	require.NoError(t, err)
	assert.Equal(t, "x,y^2", G.String())

	U, err := k.Std(ctx, ideal.MustParse(r, "x, x+1"))
	require.NoError(t, err)
	assert.Equal(t, "1", U.String())

	nf, err := k.Reduce(ctx, poly.MustParse(r, "x*y+y+3"), G)
	require.NoError(t, err)
	assert.Equal(t, "y+3", nf.String())
}

// TestDim_VDim checks Krull and vector-space dimensions.
func TestDim_VDim(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y", "z")

	cases := []struct {
		gens string
		dim  int
		vdim int
	}{
		{"x^2-y^3", 2, -1},
		{"x, y", 1, -1},
		{"x, y, z^2", 0, 2},
		{"x^2, y^3, x*y, z", 0, 4},
		{"1", -1, -1},
	}
	for _, c := range cases {
		I := ideal.MustParse(r, c.gens)
		d, err := k.Dim(ctx, I)
		require.NoError(t, err, c.gens)
		assert.Equal(t, c.dim, d, c.gens)
		v, err := k.VDim(ctx, I)
		require.NoError(t, err, c.gens)
		assert.Equal(t, c.vdim, v, c.gens)
	}
	d, err := k.Dim(ctx, ideal.Zero(r))
	require.NoError(t, err)
	assert.Equal(t, 3, d)
}

// TestIdealOperations covers intersection, quotient, saturation and elimination.
func TestIdealOperations(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y", "t")

	I, err := k.Intersect(ctx, ideal.MustParse(r, "x"), ideal.MustParse(r, "y"))
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x*y"), I)

	Q, err := k.Quotient(ctx, ideal.MustParse(r, "x*y"), ideal.MustParse(r, "x"))
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "y"), Q)

	S, steps, err := k.Sat(ctx, ideal.MustParse(r, "x^2*y"), ideal.MustParse(r, "x"))
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "y"), S)
	assert.Equal(t, 2, steps)

	E, err := k.Eliminate(ctx, ideal.MustParse(r, "x-t, y-t^2"), []int{2})
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "y-x^2"), E)

	M, err := k.Interred(ctx, ideal.MustParse(r, "x^2+y, x^2"))
	require.NoError(t, err)
	assert.Equal(t, "y,x^2", M.String())

	mg, err := k.MinimalGenerators(ctx, ideal.MustParse(r, "x, x*y, x+y, y"))
	require.NoError(t, err)
	assert.Equal(t, 2, mg.Len())
}

// TestFactorize checks the splitting rules.
func TestFactorize(t *testing.T) {
	ctx := context.Background()
	p := groebner.New()
	r := poly.MustRing("x", "y")

	names := func(fs []ideal.Factor) []string {
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = f.Poly.String()
		}
		return out
	}

	fs, err := p.Factorize(ctx, poly.MustParse(r, "x^2-y^2"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x-y", "x+y"}, names(fs))

	fs, err = p.Factorize(ctx, poly.MustParse(r, "x^3*y-x*y^3"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "y", "x-y", "x+y"}, names(fs))

	fs, err = p.Factorize(ctx, poly.MustParse(r, "(x+1)^2*(y-2)"))
	require.NoError(t, err)
	require.Len(t, fs, 2)
	for _, f := range fs {
		switch f.Poly.String() {
		case "x+1":
			assert.Equal(t, 2, f.Mult)
		case "y-2":
			assert.Equal(t, 1, f.Mult)
		default:
			t.Fatalf("unexpected factor %v", f.Poly)
		}
	}

	fs, err = p.Factorize(ctx, poly.MustParse(r, "x^3-y^3"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x-y", "x^2+x*y+y^2"}, names(fs))

	fs, err = p.Factorize(ctx, poly.MustParse(r, "x^2-y^3"))
	require.NoError(t, err)
	assert.Equal(t, []string{"y^3-x^2"}, names(fs))
}

// TestDecomposition checks minimal primes, radicals and primary components.
func TestDecomposition(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y", "z")

	primes, err := k.MinAssPrimes(ctx, ideal.MustParse(r, "x*z, y*z"))
	require.NoError(t, err)
	require.Len(t, primes, 2)

	var sawPlane, sawLine bool
	for _, P := range primes {
		if eq, _ := k.Equal(ctx, P, ideal.MustParse(r, "z")); eq {
			sawPlane = true
		}
		if eq, _ := k.Equal(ctx, P, ideal.MustParse(r, "x, y")); eq {
			sawLine = true
		}
	}
	assert.True(t, sawPlane && sawLine, "primes %v", primes)

	rad, err := k.Radical(ctx, ideal.MustParse(r, "x^2, y"))
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y"), rad)

	eq, err := k.EquiRadical(ctx, ideal.MustParse(r, "x*z, y*z"))
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "z"), eq)

	comps, err := k.PrimaryDecomposition(ctx, ideal.MustParse(r, "x^2*y"))
	require.NoError(t, err)
	require.Len(t, comps, 2)
	for _, c := range comps {
		if ok, _ := k.Equal(ctx, c.Prime, ideal.MustParse(r, "x")); ok {
			assertEqualIdeals(t, k, ideal.MustParse(r, "x^2"), c.Primary)
		} else {
			assertEqualIdeals(t, k, ideal.MustParse(r, "y"), c.Primary)
		}
	}

	pts, err := k.MinAssPrimes(ctx, ideal.MustParse(r, "x^2-1, y, z"))
	require.NoError(t, err)
	assert.Len(t, pts, 2)
}

// TestSingularLocus checks the Jacobian criterion through the kernel.
func TestSingularLocus(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")

	smooth, err := k.IsSmooth(ctx, ideal.MustParse(r, "x-y^2"), true)
	require.NoError(t, err)
	assert.True(t, smooth)

	cusp := ideal.MustParse(r, "x^2-y^3")
	smooth, err = k.IsSmooth(ctx, cusp, false)
	require.NoError(t, err)
	assert.False(t, smooth)

	sl, err := k.SingularLocus(ctx, cusp, true)
	require.NoError(t, err)
	rad, err := k.Radical(ctx, sl)
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y"), rad)

	cross, err := k.SingularLocus(ctx, ideal.MustParse(r, "x*y"), false)
	require.NoError(t, err)
	rad, err = k.Radical(ctx, cross)
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y"), rad)
}

// TestBudgetAndCancel checks the two abort paths.
func TestBudgetAndCancel(t *testing.T) {
	r := poly.MustRing("x", "y")
	I := ideal.MustParse(r, "x^2-y, x*y-1")

	k := newKernel(t, groebner.WithMaxPairs(1), groebner.WithCacheSize(0))
	_, err := k.Std(context.Background(), I)
	assert.ErrorIs(t, err, groebner.ErrBudgetExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newKernel(t).Std(ctx, I)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Panics(t, func() { groebner.WithMaxPairs(-1) })
	assert.Panics(t, func() { groebner.WithLogger(nil) })
}
