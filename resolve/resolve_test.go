package resolve_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/desing/groebner"
	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
	"github.com/katalvlaran/desing/resolve"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newKernel(t *testing.T) *ideal.Kernel {
	t.Helper()
	k, err := ideal.NewKernel(groebner.New())
	require.NoError(t, err)

	return k
}

func assertEqualIdeals(t *testing.T, k *ideal.Kernel, want, got ideal.Ideal) {
	t.Helper()
	eq, err := k.Equal(context.Background(), want, got)
	require.NoError(t, err)
	assert.True(t, eq, "want (%v), got (%v)", want, got)
}

// checkTree verifies the structural properties every run must have: the
// arena is indexed by handle, paths end at the parent and composed maps
// agree with the pullbacks.
func checkTree(t *testing.T, tree *resolve.Tree) {
	t.Helper()
	require.NotEmpty(t, tree.All)
	for h, ch := range tree.All {
		assert.Equal(t, h, ch.Handle)
		assert.Len(t, ch.BO.Meets, len(ch.BO.Divisors), "chart %d", h)
		if h == 0 {
			assert.Empty(t, ch.Path)
			assert.Equal(t, -1, tree.Parent(h))
			continue
		}
		p := tree.Parent(h)
		require.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, h)
		assert.Len(t, ch.Path, len(tree.All[p].Path)+1)

		images, err := tree.ComposeMap(h)
		require.NoError(t, err)
		require.Len(t, images, len(ch.BO.Pullback))
		for i := range images {
			assert.True(t, images[i].Equal(ch.BO.Pullback[i]),
				"chart %d, variable %d: composed %v, pullback %v", h, i, images[i], ch.BO.Pullback[i])
		}
	}
	for _, h := range tree.Terminal {
		assert.True(t, tree.All[h].Terminal)
	}
}

// assertOrderNonIncreasing checks that the leading order of the invariant
// never grows from a chart to a chart blown up from it.
func assertOrderNonIncreasing(t *testing.T, tree *resolve.Tree) {
	t.Helper()
	for h, ch := range tree.All {
		if h == 0 || ch.Terminal {
			continue
		}
		p := tree.Parent(h)
		if p == 0 {
			continue
		}
		parent := tree.All[p]
		require.NotEmpty(t, ch.Invariant.Order, "chart %d", h)
		require.NotEmpty(t, parent.Invariant.Order, "chart %d", p)
		assert.LessOrEqual(t, ch.Invariant.Order[0], parent.Invariant.Order[0],
			"chart %d below chart %d", h, p)
	}
}

// TestResolve_SmoothInput checks that a smooth variety needs no blow-up.
func TestResolve_SmoothInput(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")
	J := ideal.MustParse(r, "x-y")

	tree, err := resolve.Resolve(ctx, k, J, resolve.WithChecks(resolve.CheckResult|resolve.CheckCharts))
	require.NoError(t, err)
	require.Len(t, tree.All, 1)
	assert.Equal(t, []int{0}, tree.Terminal)
	assertEqualIdeals(t, k, J, tree.All[0].BO.Variety)
	assert.Empty(t, tree.All[0].BO.Divisors)
	assert.NotEqual(t, uuid.Nil, tree.RunID)
	checkTree(t, tree)
}

// TestResolve_Cusp resolves x^2 - y^3 and verifies every terminal chart.
func TestResolve_Cusp(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")

	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "x^2-y^3"),
		resolve.WithChecks(resolve.CheckResult))
	require.NoError(t, err)
	require.NotEmpty(t, tree.Terminal)
	assert.Greater(t, len(tree.All), 1)
	checkTree(t, tree)

	for _, ch := range tree.Charts() {
		assert.NotEmpty(t, ch.BO.Divisors, "chart %d", ch.Handle)
		assert.LessOrEqual(t, ch.BO.Order[0], 1, "chart %d", ch.Handle)
	}
	assertOrderNonIncreasing(t, tree)
	require.NoError(t, resolve.Verify(ctx, k, tree))
}

// TestResolve_ParallelMatchesSequential compares the trees of one and
// four workers.
func TestResolve_ParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")
	J := ideal.MustParse(r, "x^2-y^3")

	type node struct {
		Path    []resolve.Step
		Variety string
		Center  string
	}
	shape := func(tree *resolve.Tree) []node {
		out := make([]node, len(tree.All))
		for i, ch := range tree.All {
			out[i] = node{Path: ch.Path, Variety: ch.BO.Variety.String(), Center: ch.Center.String()}
		}
		return out
	}

	seq, err := resolve.Resolve(ctx, k, J)
	require.NoError(t, err)
	par, err := resolve.Resolve(ctx, k, J, resolve.WithParallelism(4))
	require.NoError(t, err)

	if diff := cmp.Diff(shape(seq), shape(par)); diff != "" {
		t.Errorf("parallel tree differs (-seq +par):\n%s", diff)
	}
	assert.Equal(t, seq.Terminal, par.Terminal)
	assert.NotEqual(t, seq.RunID, par.RunID)
}

// TestResolve_Errors covers invalid input, cancellation and the chart limit.
func TestResolve_Errors(t *testing.T) {
	k := newKernel(t)
	r := poly.MustRing("x", "y")

	_, err := resolve.Resolve(context.Background(), k, ideal.Zero(r))
	assert.ErrorIs(t, err, resolve.ErrEmptyCenter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = resolve.Resolve(ctx, k, ideal.MustParse(r, "x^2-y^3"))
	assert.ErrorIs(t, err, resolve.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = resolve.Resolve(context.Background(), k, ideal.MustParse(r, "x^2-y^3"), resolve.WithMaxCharts(1))
	assert.ErrorIs(t, err, resolve.ErrChartLimit)
}

// TestResolve_NonReducedInput checks that a square is replaced by its
// radical.
func TestResolve_NonReducedInput(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")

	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "(x-y)^2"))
	require.NoError(t, err)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x-y"), tree.Input)
	assert.Equal(t, []int{0}, tree.Terminal)
}

// TestResolve_Local resolves the cusp at the origin.
func TestResolve_Local(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")

	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "x^2-y^3"), resolve.WithMode(resolve.ModeLocal))
	require.NoError(t, err)
	require.NotEmpty(t, tree.Terminal)
	assert.Equal(t, resolve.LocalityGlobal, tree.Locality)
	checkTree(t, tree)

	// a line away from the origin: nothing to resolve there
	tree, err = resolve.Resolve(ctx, k, ideal.MustParse(r, "x*(x-1)"), resolve.WithMode(resolve.ModeLocal))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, tree.Terminal)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x"), tree.Input)
}

// TestResolve_LocalIsolated resolves y(y - x^2 + x), singular at the
// origin and at (1, 0): the origin is blown up first and later centers
// stay inside the exceptional locus.
func TestResolve_LocalIsolated(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y")

	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "y*(y-x^2+x)"), resolve.WithMode(resolve.ModeLocal))
	require.NoError(t, err)
	assert.Equal(t, resolve.LocalityIsolated, tree.Locality)
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y"), tree.All[0].Center)
	assert.Greater(t, len(tree.All), 1)
	require.NotEmpty(t, tree.Terminal)
	checkTree(t, tree)
	require.NoError(t, resolve.Verify(ctx, k, tree))
}

// TestResolve_LocalMarked resolves x(x - y^2 + y), singular along the
// lines x = y = 0 through the origin and x = y - 1 = 0 away from it. The
// second line is marked by y - 1 and left alone.
func TestResolve_LocalMarked(t *testing.T) {
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y", "z")

	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "x*(x-y^2+y)"), resolve.WithMode(resolve.ModeLocal))
	require.NoError(t, err)
	assert.Equal(t, resolve.LocalityMarked, tree.Locality)
	root := tree.All[0]
	require.NotNil(t, root.LocalMarker)
	assertEqualIdeals(t, k, ideal.MustParse(r, "y-1"), ideal.New(r, *root.LocalMarker))
	assertEqualIdeals(t, k, ideal.MustParse(r, "x, y"), root.Center)
	assert.Greater(t, len(tree.All), 1)
	require.NotEmpty(t, tree.Terminal)
	for _, h := range tree.Terminal {
		assert.NotNil(t, tree.All[h].LocalMarker, "chart %d", h)
	}
	checkTree(t, tree)
	require.NoError(t, resolve.Verify(ctx, k, tree))
}

// TestResolve_Long resolves x^3+y^5+yz^2+xy^4 with full verification.
func TestResolve_Long(t *testing.T) {
	if testing.Short() {
		t.Skip("long-running resolution")
	}
	ctx := context.Background()
	k := newKernel(t)
	r := poly.MustRing("x", "y", "z")

	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "x^3+y^5+y*z^2+x*y^4"),
		resolve.WithChecks(resolve.CheckResult))
	require.NoError(t, err)
	require.NotEmpty(t, tree.Terminal)
	checkTree(t, tree)
}
