package resolve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
	"github.com/katalvlaran/desing/resolve"
)

// TestNewBasicObject_Defaults checks the fields of a fresh object.
func TestNewBasicObject_Defaults(t *testing.T) {
	r := poly.MustRing("x", "y")
	bo, err := resolve.NewBasicObject(ideal.MustParse(r, "x^2-y^3"), resolve.Config{
		Divisors:  []ideal.Ideal{ideal.MustParse(r, "y")},
		OrderHint: 2,
	})
	require.NoError(t, err)

	assert.True(t, bo.Ambient.IsZero())
	assert.Equal(t, []int{2}, bo.Order)
	assert.Equal(t, []int{-1}, bo.Origin)
	assert.Equal(t, []int{0}, bo.Witness)
	assert.Equal(t, []resolve.Meet{resolve.MeetUnknown}, bo.Meets)
	assert.True(t, bo.Hypersurface)
	require.Len(t, bo.Pullback, 2)
	assert.Equal(t, "x", bo.Pullback[0].String())
	assert.Equal(t, "y", bo.Pullback[1].String())

	other := poly.MustRing("u", "v")
	_, err = resolve.NewBasicObject(ideal.MustParse(r, "x"), resolve.Config{Ambient: ideal.MustParse(other, "u")})
	assert.ErrorIs(t, err, resolve.ErrRingMismatch)
}

// TestDelta_Cusp checks the order of the cusp: one Delta step reaches the
// singular point, the second the unit ideal.
func TestDelta_Cusp(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")
	bo, err := resolve.NewBasicObject(ideal.MustParse(r, "x^2-y^3"), resolve.Config{})
	require.NoError(t, err)

	D, err := resolve.Delta(ctx, k, bo)
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y^2"), D)

	L, err := resolve.DeltaList(ctx, k, bo)
	require.NoError(t, err)
	require.Len(t, L, 2)
	assertEqualIdeals(t, k, bo.Variety, L[0])
	assertEqualIdeals(t, k, D, L[1])
}

// TestDelta_Ambient differentiates along the hyperplane z = 0.
func TestDelta_Ambient(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y", "z")
	bo, err := resolve.NewBasicObject(ideal.MustParse(r, "z, x^2-y^3"), resolve.Config{
		Ambient: ideal.MustParse(r, "z"),
	})
	require.NoError(t, err)

	D, err := resolve.Delta(ctx, k, bo)
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y^2, z"), D)
}

// TestIntersectDivisors_Transversal checks k transversal hyperplanes
// through a point of V(J).
func TestIntersectDivisors_Transversal(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y", "z", "w")
	J := ideal.MustParse(r, "w")

	bo, err := resolve.NewBasicObject(J, resolve.Config{Divisors: []ideal.Ideal{
		ideal.MustParse(r, "x"), ideal.MustParse(r, "y"), ideal.MustParse(r, "z"),
	}})
	require.NoError(t, err)
	di, err := resolve.IntersectDivisors(ctx, k, bo)
	require.NoError(t, err)
	assert.Equal(t, 3, di.Count)
	assert.Equal(t, 3, di.TotalCount)
	assert.True(t, di.Detailed)
	assert.Equal(t, 0, di.NonNormal)
	assert.Equal(t, [][]int{{0, 1, 2}}, di.Tuples)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y, z"), di.Locus)

	// a divisor known never to meet is left out of every tuple
	bo.Meets[1] = resolve.MeetNever
	di, err = resolve.IntersectDivisors(ctx, k, bo)
	require.NoError(t, err)
	assert.Equal(t, 2, di.Count)
	assert.Equal(t, 2, di.TotalCount)
	assert.Equal(t, 0, di.NonNormal)
	assert.Equal(t, [][]int{{0, 2}}, di.Tuples)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, z"), di.Locus)

	// parallel hyperplanes never meet
	bo, err = resolve.NewBasicObject(J, resolve.Config{Divisors: []ideal.Ideal{
		ideal.MustParse(r, "x"), ideal.MustParse(r, "x-1"),
	}})
	require.NoError(t, err)
	di, err = resolve.IntersectDivisors(ctx, k, bo)
	require.NoError(t, err)
	assert.Equal(t, 1, di.Count)
	assert.Equal(t, [][]int{{0}, {1}}, di.Tuples)
}

// TestCenterOf_WhitneyUmbrella checks that the first center of
// x^2 - y^2 z is its singular line.
func TestCenterOf_WhitneyUmbrella(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y", "z")

	C, err := resolve.CenterOf(ctx, k, ideal.MustParse(r, "x^2-y^2*z"), resolve.Config{})
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y"), C)
}

// TestCenterOf_Errors covers the input validation.
func TestCenterOf_Errors(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")

	_, err := resolve.CenterOf(ctx, k, ideal.MustParse(r, "y"), resolve.Config{Ambient: ideal.MustParse(r, "x")})
	assert.ErrorIs(t, err, resolve.ErrNotContained)

	_, err = resolve.CenterOf(ctx, k, ideal.Zero(r), resolve.Config{})
	assert.ErrorIs(t, err, resolve.ErrEmptyCenter)
}

// TestBlowUpIdeal_Origin blows up the plane at the origin and keeps every
// chart.
func TestBlowUpIdeal_Origin(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")
	J := ideal.MustParse(r, "x^2-y^3")

	charts, err := resolve.BlowUpIdeal(ctx, k, J, ideal.MustParse(r, "x, y"), resolve.Config{},
		resolve.WithPruning(resolve.PruneKeepAll))
	require.NoError(t, err)
	require.NotEmpty(t, charts)
	assert.LessOrEqual(t, len(charts), 2)
	for i, c := range charts {
		assert.Len(t, c.BO.Divisors, 1, "chart %d", i)
		assert.Len(t, c.BO.Meets, 1, "chart %d", i)
		assert.Len(t, c.LastMap, 2, "chart %d", i)
		assert.Len(t, c.BO.Pullback, 2, "chart %d", i)
		assert.Nil(t, c.LocalMarker)
	}

	_, err = resolve.BlowUpIdeal(ctx, k, J, ideal.Zero(r), resolve.Config{})
	assert.ErrorIs(t, err, resolve.ErrEmptyCenter)

	other := poly.MustRing("u", "v")
	_, err = resolve.BlowUpIdeal(ctx, k, J, ideal.MustParse(other, "u"), resolve.Config{})
	assert.ErrorIs(t, err, resolve.ErrRingMismatch)
}

// TestBlowUp_UnitCenter returns the object unchanged.
func TestBlowUp_UnitCenter(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")
	bo, err := resolve.NewBasicObject(ideal.MustParse(r, "x^2-y^3"), resolve.Config{})
	require.NoError(t, err)

	charts, err := resolve.BlowUp(ctx, k, bo, ideal.Unit(r))
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, bo.Variety.String(), charts[0].BO.Variety.String())
	assert.Empty(t, charts[0].BO.Divisors)
}

// TestCoeff_Cusp reduces the cusp, of order 2, to the hypersurface x. The
// coefficient ideal is (x, y^3); along the divisor y its weak transform is
// the unit ideal and the controlled transform (x, y^3) : (x, y)^2.
func TestCoeff_Cusp(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")
	J := ideal.MustParse(r, "x^2-y^3")

	tests := []struct {
		name       string
		divisors   []ideal.Ideal
		variety    ideal.Ideal
		controlled ideal.Ideal
	}{
		{"no divisors", nil, ideal.MustParse(r, "x, y^3"), ideal.MustParse(r, "x, y^3")},
		{"divisor y", []ideal.Ideal{ideal.MustParse(r, "y")}, ideal.Unit(r), ideal.MustParse(r, "x, y")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bo, err := resolve.NewBasicObject(J, resolve.Config{Divisors: tt.divisors})
			require.NoError(t, err)

			res, err := resolve.Coeff(ctx, k, bo, 2)
			require.NoError(t, err)
			require.Equal(t, resolve.CoeffOK, res.Status)
			assertEqualIdeals(t, k, ideal.MustParse(r, "x"), ideal.New(r, res.Hypersurface))
			assertEqualIdeals(t, k, ideal.MustParse(r, "x"), res.BO.Ambient)
			assertEqualIdeals(t, k, tt.variety, res.BO.Variety)
			assertEqualIdeals(t, k, tt.controlled, res.Controlled)
			require.Len(t, res.BO.Divisors, len(tt.divisors))
			for _, E := range res.BO.Divisors {
				assertEqualIdeals(t, k, ideal.MustParse(r, "x, y"), E)
			}
		})
	}

	bo, err := resolve.NewBasicObject(J, resolve.Config{})
	require.NoError(t, err)
	_, err = resolve.Coeff(ctx, k, bo, 0)
	assert.ErrorIs(t, err, resolve.ErrInternal)
}

// TestBlowUp_Pruning blows up the cusp at the origin under every pruning
// mode. The x-chart holds no point outside the y-chart, so only keep-all
// returns it; every mode still resolves the cusp.
func TestBlowUp_Pruning(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")
	J := ideal.MustParse(r, "x^2-y^3")

	tests := []struct {
		name    string
		pruning resolve.Pruning
		charts  int
	}{
		{"redundant", resolve.PruneRedundant, 1},
		{"aggressive", resolve.PruneAggressive, 1},
		{"keep-all", resolve.PruneKeepAll, 2},
		{"keep-pairs", resolve.PruneKeepDivisorPairs, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charts, err := resolve.BlowUpIdeal(ctx, k, J, ideal.MustParse(r, "x, y"), resolve.Config{},
				resolve.WithPruning(tt.pruning))
			require.NoError(t, err)
			require.Len(t, charts, tt.charts)
			for i, c := range charts {
				unit, err := k.IsUnit(ctx, c.BO.Variety)
				require.NoError(t, err)
				assert.False(t, unit, "chart %d", i)
			}

			tree, err := resolve.Resolve(ctx, k, J, resolve.WithPruning(tt.pruning))
			require.NoError(t, err)
			require.NotEmpty(t, tree.Terminal)
			checkTree(t, tree)
			require.NoError(t, resolve.Verify(ctx, k, tree))
		})
	}
}
