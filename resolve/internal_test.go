package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/desing/groebner"
	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

func testEngine(t *testing.T) *engine {
	t.Helper()
	k, err := ideal.NewKernel(groebner.New())
	require.NoError(t, err)

	return newEngine(k, nil)
}

func requireSameIdeal(t *testing.T, e *engine, want, got ideal.Ideal) {
	t.Helper()
	eq, err := e.k.Equal(context.Background(), want, got)
	require.NoError(t, err)
	require.True(t, eq, "want (%v), got (%v)", want, got)
}

// TestReplay_OriginOffset checks that a replayed center completes its
// Origin vector for the current divisors and propagates the values to the
// centers still waiting.
func TestReplay_OriginOffset(t *testing.T) {
	r := poly.MustRing("x", "y", "z")
	bo := BasicObject{
		Ring: r,
		Divisors: []ideal.Ideal{
			ideal.MustParse(r, "x"), ideal.MustParse(r, "y"), ideal.MustParse(r, "z"),
		},
		Pending: []StoredCenter{
			{Ideal: ideal.Zero(r), Origin: []int{0}},
			{Ideal: ideal.MustParse(r, "x, y"), Origin: []int{1, -1, -1}, Order: []int{2, 1, 1}, Witness: []int{1, 0}},
			{Ideal: ideal.MustParse(r, "x, z"), Origin: []int{1, -1, -1}, Order: []int{2, 1, 1}, Witness: []int{1, 0}},
		},
	}

	c, ok := bo.replay()
	require.True(t, ok)
	assert.Equal(t, "x,y", c.Ideal.String())
	assert.Equal(t, []int{1, 1, 0}, c.Origin)
	assert.Equal(t, []int{2, 1, 1}, c.Order)
	assert.Equal(t, []int{1, 0}, c.Counts)
	require.Len(t, bo.Pending, 1)
	assert.Equal(t, []int{1, 1, 0}, bo.Pending[0].Origin)

	c, ok = bo.replay()
	require.True(t, ok)
	assert.Equal(t, "x,z", c.Ideal.String())
	_, ok = bo.replay()
	assert.False(t, ok)
}

// TestLexLess checks the order used to glue local centers.
func TestLexLess(t *testing.T) {
	assert.True(t, lexLess([]int{1, 2}, []int{1, 3}))
	assert.True(t, lexLess([]int{1}, []int{1, 0}))
	assert.False(t, lexLess([]int{2}, []int{1, 9}))
	assert.False(t, lexLess([]int{1, 2}, []int{1, 2}))
	assert.True(t, equalInts([]int{1, 2}, []int{1, 2}))
	assert.False(t, equalInts([]int{1}, []int{1, 2}))
}

// TestPick enumerates k-subsets in lexicographic order.
func TestPick(t *testing.T) {
	assert.Equal(t, [][]int{{2, 5}, {2, 7}, {5, 7}}, pick([]int{2, 5, 7}, 2))
	assert.Equal(t, [][]int{{0, 1, 2}}, pick(seq(3), 3))
	assert.Equal(t, [][]int{{0, 2}}, prune([][]int{{0, 1}, {0, 2}}, [][]int{{1}}))
}

// TestThroughOrigin checks the constant-term test of the local mode.
func TestThroughOrigin(t *testing.T) {
	r := poly.MustRing("x", "y")
	assert.True(t, throughOrigin(ideal.MustParse(r, "x^2-y^3, x*y")))
	assert.False(t, throughOrigin(ideal.MustParse(r, "x-1")))
	assert.True(t, throughOrigin(ideal.Zero(r)))
}

// TestDropCoeff drops an isolated smooth point of the coefficient variety
// unless a divisor passes through it.
func TestDropCoeff(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t)
	r := poly.MustRing("x", "y")
	V := ideal.MustParse(r, "(y^2-x^3)*(x-1), (y^2-x^3)*(y-2)")

	tests := []struct {
		name     string
		divisors []ideal.Ideal
		want     ideal.Ideal
	}{
		{"no divisors", nil, ideal.MustParse(r, "x-1, y-2")},
		{"divisor through the point", []ideal.Ideal{ideal.MustParse(r, "x-1")}, ideal.Unit(r)},
		{"divisor away from the point", []ideal.Ideal{ideal.MustParse(r, "x+1")}, ideal.MustParse(r, "x-1, y-2")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bo, err := NewBasicObject(V, Config{Divisors: tt.divisors})
			require.NoError(t, err)
			got, err := e.dropCoeff(ctx, bo)
			require.NoError(t, err)
			requireSameIdeal(t, e, tt.want, got)
		})
	}
}

// TestDropRedundant checks both exits: every component in good position
// gives the variety itself as the center, otherwise only the components
// along which the variety is not transversal stay in the locus.
func TestDropRedundant(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t)
	r := poly.MustRing("x", "y")

	tests := []struct {
		name       string
		J          string
		divisors   []string
		wantDirect bool
		wantLocus  string
	}{
		{"transversal line", "y", []string{"x", "x-1"}, true, ""},
		{"tangent divisor stays", "y-x^2", []string{"x-1", "y"}, false, "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var E []ideal.Ideal
			for _, d := range tt.divisors {
				E = append(E, ideal.MustParse(r, d))
			}
			bo, err := NewBasicObject(ideal.MustParse(r, tt.J), Config{Divisors: E})
			require.NoError(t, err)
			di := DivisorIntersection{
				Locus:      E[0].Product(E[1]),
				Count:      1,
				TotalCount: 1,
				Components: []ideal.Ideal{E[0], E[1]},
				Tuples:     [][]int{{0}, {1}},
				Detailed:   true,
			}

			got, direct, err := e.dropRedundant(ctx, bo, di)
			require.NoError(t, err)
			if tt.wantDirect {
				require.NotNil(t, direct)
				requireSameIdeal(t, e, ideal.MustParse(r, tt.J), *direct)
				return
			}
			require.Nil(t, direct)
			assert.Equal(t, 1, got.Count)
			assert.Equal(t, 1, got.TotalCount)
			assert.Nil(t, got.Components)
			requireSameIdeal(t, e, ideal.MustParse(r, tt.wantLocus), got.Locus)
		})
	}
}

// TestUpdateMarker keeps the factor of the marker vanishing on a singular
// component and returns 1 once no singular component lies on the marker.
func TestUpdateMarker(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t)
	r := poly.MustRing("x", "y", "z")
	J := ideal.MustParse(r, "x*(x-y^2+y)")

	p, err := e.updateMarker(ctx, J, poly.MustParse(r, "(y-1)*(y+2)"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Degree())
	requireSameIdeal(t, e, ideal.MustParse(r, "y-1"), ideal.New(r, p))

	p, err = e.updateMarker(ctx, J, poly.MustParse(r, "y+2"))
	require.NoError(t, err)
	assert.True(t, p.IsUnit())

	p, err = e.updateMarker(ctx, J, poly.One(r))
	require.NoError(t, err)
	assert.True(t, p.IsUnit())
}

// TestStripDivisors checks that a unit divisor does not hide the divisor
// after it.
func TestStripDivisors(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t)
	r := poly.MustRing("x", "y")

	tests := []struct {
		name     string
		divisors []string
		want     string
		invar    int
	}{
		{"divisor through the point", []string{"x"}, "x, y", 1},
		{"after a unit divisor", []string{"1", "x"}, "x, y", 1},
		{"divisor away from the point", []string{"x-1"}, "x^2, y", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var E []ideal.Ideal
			for _, d := range tt.divisors {
				E = append(E, ideal.MustParse(r, d))
			}
			bo, err := NewBasicObject(ideal.MustParse(r, "x^2, y"), Config{Divisors: E})
			require.NoError(t, err)

			V, invar, err := e.stripDivisors(ctx, bo)
			require.NoError(t, err)
			assert.Equal(t, tt.invar, invar)
			requireSameIdeal(t, e, ideal.MustParse(r, tt.want), V)
		})
	}
}
