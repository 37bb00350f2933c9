package report_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/katalvlaran/desing/groebner"
	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/internal/report"
	"github.com/katalvlaran/desing/poly"
	"github.com/katalvlaran/desing/resolve"
)

// TestFromTree_WriteRead stores the report of a smooth line and reads it
// back.
func TestFromTree_WriteRead(t *testing.T) {
	ctx := context.Background()
	k, err := ideal.NewKernel(groebner.New())
	require.NoError(t, err)
	r := poly.MustRing("x", "y")

	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "x-y"))
	require.NoError(t, err)

	rep := report.FromTree(tree)
	assert.Equal(t, report.KindResolution, rep.Kind)
	assert.Equal(t, "global", rep.Locality)
	assert.Equal(t, []int{0}, rep.Terminal)
	require.Len(t, rep.Charts, 1)
	assert.Equal(t, -1, rep.Charts[0].Parent)
	assert.True(t, rep.Charts[0].Terminal)
	assert.Equal(t, []string{"x", "y"}, rep.Charts[0].Pullback)

	fs := afs.New()
	URL := "mem://localhost/desing/report/line.yaml"
	require.NoError(t, report.Write(ctx, fs, URL, rep))
	back, err := report.Read(ctx, fs, URL)
	require.NoError(t, err)
	if diff := cmp.Diff(rep, back); diff != "" {
		t.Errorf("report changed on the way through storage (-want +got):\n%s", diff)
	}
}

// TestEncode_Center checks the YAML layout of a center document.
func TestEncode_Center(t *testing.T) {
	r := poly.MustRing("x", "y", "z")
	rep := report.FromCenter(ideal.MustParse(r, "x^2-y^2*z"), ideal.MustParse(r, "x, y"))

	var buf bytes.Buffer
	require.NoError(t, report.Encode(&buf, rep))
	out := buf.String()
	assert.Contains(t, out, "kind: center\n")
	assert.Contains(t, out, "vars: [x, y, z]\n")
	assert.Contains(t, out, "center: x,y\n")
	assert.NotContains(t, out, "charts:")
}

// TestFromDelta lists the Delta ideals.
func TestFromDelta(t *testing.T) {
	r := poly.MustRing("x", "y")
	J := ideal.MustParse(r, "x^2-y^3")
	rep := report.FromDelta(J, []ideal.Ideal{J, ideal.MustParse(r, "x, y^2")})
	assert.Equal(t, report.KindDelta, rep.Kind)
	assert.Equal(t, []string{J.String(), "x,y^2"}, rep.Delta)
}
