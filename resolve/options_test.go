package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/desing/resolve"
)

// TestDefaultOptions checks the documented defaults.
func TestDefaultOptions(t *testing.T) {
	o := resolve.DefaultOptions()
	assert.Equal(t, resolve.ModeGlobal, o.Mode)
	assert.Equal(t, resolve.DefaultPruning, o.Pruning)
	assert.Equal(t, resolve.DefaultParallelism, o.Parallelism)
	assert.Equal(t, resolve.DefaultSeed, o.Seed)
	assert.Equal(t, resolve.DefaultMaxCharts, o.MaxCharts)
	assert.Zero(t, o.Checks)
	assert.NotNil(t, o.Logger)
}

// TestOptions_Panics checks that nonsensical option values panic at
// construction.
func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { resolve.WithParallelism(0) })
	assert.Panics(t, func() { resolve.WithMaxCharts(-1) })
	assert.Panics(t, func() { resolve.WithLogger(nil) })
	assert.Panics(t, func() { resolve.WithMode(resolve.Mode(7)) })
	assert.Panics(t, func() { resolve.WithPruning(resolve.Pruning(9)) })
	assert.NotPanics(t, func() { resolve.WithMaxCharts(0) })
}

// TestParseCheck reads comma separated check names.
func TestParseCheck(t *testing.T) {
	c, err := resolve.ParseCheck("result, charts")
	require.NoError(t, err)
	assert.Equal(t, resolve.CheckResult|resolve.CheckCharts, c)

	c, err = resolve.ParseCheck("")
	require.NoError(t, err)
	assert.Zero(t, c)

	c, err = resolve.ParseCheck("blowup,trace-center,trace-blowup,trace-coeff,trace-intersections")
	require.NoError(t, err)
	assert.Equal(t, resolve.CheckBlowUp|resolve.TraceCenter|resolve.TraceBlowUp|
		resolve.TraceCoeff|resolve.TraceIntersections, c)

	_, err = resolve.ParseCheck("result,bogus")
	assert.Error(t, err)
}

// TestParsePruning reads the pruning names.
func TestParsePruning(t *testing.T) {
	cases := map[string]resolve.Pruning{
		"":           resolve.DefaultPruning,
		"redundant":  resolve.PruneRedundant,
		"aggressive": resolve.PruneAggressive,
		"keep-all":   resolve.PruneKeepAll,
		"keep-pairs": resolve.PruneKeepDivisorPairs,
	}
	for in, want := range cases {
		got, err := resolve.ParsePruning(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := resolve.ParsePruning("none")
	assert.Error(t, err)
	_, err = resolve.ParsePruning("default")
	assert.Error(t, err)
}
