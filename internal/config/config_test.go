package config_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"go.uber.org/zap"

	"github.com/katalvlaran/desing/internal/config"
	"github.com/katalvlaran/desing/resolve"
)

const whitney = `
vars: [x, y, z]
ideal: "x^2-y^2*z"
divisors: ["z"]
mode: local
pruning: aggressive
checks: "result,charts"
parallelism: 2
seed: 7
provider:
  name: singular
  timeout: 30s
`

// TestLoad reads a YAML file from the memory file system.
func TestLoad(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/desing/config/whitney.yaml"
	require.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(whitney)))

	cfg, err := config.Load(ctx, fs, URL)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"x", "y", "z"}, cfg.Vars)
	assert.Equal(t, "local", cfg.Mode)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, config.ProviderSingular, cfg.Provider.Name)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	// defaults survive fields missing from the file
	assert.Equal(t, 4, cfg.Provider.Concurrency)

	in, err := cfg.Parse()
	require.NoError(t, err)
	assert.Equal(t, 3, in.Ring.NVars())
	assert.Equal(t, 1, in.Ideal.Len())
	require.Len(t, in.Object.Divisors, 1)
	assert.True(t, in.Object.Ambient.Ring() == nil)

	opts, err := cfg.Options(zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, opts, 6)
	o := resolve.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	assert.Equal(t, resolve.ModeLocal, o.Mode)
	assert.Equal(t, resolve.PruneAggressive, o.Pruning)
	assert.Equal(t, resolve.CheckResult|resolve.CheckCharts, o.Checks)
	assert.Equal(t, 2, o.Parallelism)

	k, err := cfg.Kernel(zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, k)
}

// TestValidate covers the validation errors.
func TestValidate(t *testing.T) {
	cfg := config.Default()
	assert.ErrorIs(t, cfg.Validate(), config.ErrNoVariables)

	cfg.Vars = []string{"x"}
	assert.ErrorIs(t, cfg.Validate(), config.ErrNoIdeal)

	cfg.Ideal = "x^2"
	require.NoError(t, cfg.Validate())

	cfg.Provider.Name = "maple"
	assert.ErrorIs(t, cfg.Validate(), config.ErrUnknownProvider)

	cfg.Provider.Name = config.ProviderNative
	cfg.Mode = "semi"
	assert.ErrorIs(t, cfg.Validate(), config.ErrUnknownMode)

	cfg.Mode = ""
	cfg.Pruning = "none"
	assert.Error(t, cfg.Validate())
}

// TestLoad_Missing reports a download error.
func TestLoad_Missing(t *testing.T) {
	_, err := config.Load(context.Background(), afs.New(), "mem://localhost/desing/config/missing.yaml")
	assert.Error(t, err)
}
