package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/desing/internal/config"
	"github.com/katalvlaran/desing/internal/report"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestResolveCmd_Line(t *testing.T) {
	out, err := run(t, "resolve", "--vars", "x,y", "--ideal", "x-y")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: resolution\n")
	assert.Contains(t, out, "terminal: [0]\n")
}

func TestDeltaCmd_Cusp(t *testing.T) {
	out, err := run(t, "delta", "--vars", "x,y", "--ideal", "x^2-y^3")
	require.NoError(t, err)
	rep := &report.Report{}
	require.NoError(t, yaml.Unmarshal([]byte(out), rep))
	assert.Equal(t, report.KindDelta, rep.Kind)
	// the cusp has order 2
	assert.Len(t, rep.Delta, 2)
}

func TestBlowupCmd_Out(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/desing/cmd/blowup.yaml"
	_, err := run(t, "blowup", "--vars", "x,y", "--ideal", "x^2-y^3", "--center", "x,y",
		"--pruning", "keep-all", "--out", URL)
	require.NoError(t, err)

	rep, err := report.Read(ctx, afs.New(), URL)
	require.NoError(t, err)
	assert.Equal(t, report.KindBlowUp, rep.Kind)
	assert.Equal(t, "x,y", rep.Center)
	assert.NotEmpty(t, rep.Charts)
}

// TestConfigFlagOverride reads the ideal from a file and the mode from a flag.
func TestConfigFlagOverride(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/desing/cmd/line.yaml"
	doc := "vars: [x, y]\nideal: \"x-y\"\nmode: local\n"
	require.NoError(t, afs.New().Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(doc)))

	out, err := run(t, "resolve", "--config", URL, "--local=false")
	require.NoError(t, err)
	assert.Contains(t, out, "locality: global\n")
}

func TestErrors(t *testing.T) {
	_, err := run(t, "resolve", "--ideal", "x")
	assert.ErrorIs(t, err, config.ErrNoVariables)

	_, err = run(t, "resolve", "--vars", "x", "--ideal", "x", "--provider", "maple")
	assert.ErrorIs(t, err, config.ErrUnknownProvider)

	_, err = run(t, "center", "extra", "--vars", "x", "--ideal", "x")
	assert.Error(t, err)
}
