// SPDX-License-Identifier: MIT

package singular_test

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
	"github.com/katalvlaran/desing/singular"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder is a fake Runner returning a canned reply and keeping the scripts.
type recorder struct {
	mu      sync.Mutex
	reply   string
	scripts []string
}

func (r *recorder) Run(_ context.Context, script string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts = append(r.scripts, script)

	return r.reply, nil
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scripts[len(r.scripts)-1]
}

func reply(lines ...string) string {
	return "banner noise\n@@BEGIN\n" + strings.Join(lines, "\n") + "\n@@END\n"
}

func TestStd_ScriptAndParse(t *testing.T) {
	rec := &recorder{reply: reply("x,y^2")}
	p := singular.New(singular.WithRunner(rec))
	r := poly.MustRing("x", "y")

	G, err := p.Std(context.Background(), ideal.MustParse(r, "x^2-y^3, 2*x, -3*y^2"))
	require.NoError(t, err)
	assert.Equal(t, "x,y^2", G.String())

	script := rec.last()
	assert.Contains(t, script, "ring @R = 0, (x,y), dp;")
	assert.Contains(t, script, "short = 0;")
	assert.Contains(t, script, "ideal @I = -y^3+x^2,2*x,-3*y^2;")
	assert.Contains(t, script, "print(string(std(@I)));")
	assert.Less(t, strings.Index(script, "@@BEGIN"), strings.Index(script, "std(@I)"))
}

func TestSat_ReadsIdealAndCount(t *testing.T) {
	rec := &recorder{reply: reply("y", "2")}
	p := singular.New(singular.WithRunner(rec))
	r := poly.MustRing("x", "y")

	S, k, err := p.Sat(context.Background(), ideal.MustParse(r, "x^2*y"), ideal.MustParse(r, "x"))
	require.NoError(t, err)
	assert.Equal(t, "y", S.String())
	assert.Equal(t, 2, k)
	assert.Contains(t, rec.last(), "quotient(@S, @J)")
}

func TestEliminate_VariableProduct(t *testing.T) {
	rec := &recorder{reply: reply("-x^2+y")}
	p := singular.New(singular.WithRunner(rec))
	r := poly.MustRing("x", "y", "t", "s")

	E, err := p.Eliminate(context.Background(), ideal.MustParse(r, "x-t, y-t^2, s"), []int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, E.Len())
	assert.Contains(t, rec.last(), "eliminate(@I, t*s)")
}

func TestFactorize_DropsConstant(t *testing.T) {
	rec := &recorder{reply: reply("3", "1", "1", "x-y", "1", "x+y", "2")}
	p := singular.New(singular.WithRunner(rec))
	r := poly.MustRing("x", "y")

	fs, err := p.Factorize(context.Background(), poly.MustParse(r, "(x-y)*(x+y)^2"))
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, "x-y", fs[0].Poly.String())
	assert.Equal(t, 1, fs[0].Mult)
	assert.Equal(t, "x+y", fs[1].Poly.String())
	assert.Equal(t, 2, fs[1].Mult)
	assert.Contains(t, rec.last(), "factorize(@f)")

	fs, err = p.Factorize(context.Background(), poly.ConstInt(r, 5))
	require.NoError(t, err)
	assert.Empty(t, fs)
}

func TestDecompositions(t *testing.T) {
	r := poly.MustRing("x", "y", "z")
	ctx := context.Background()

	rec := &recorder{reply: reply("2", "x,y", "z")}
	p := singular.New(singular.WithRunner(rec))
	primes, err := p.MinAssPrimes(ctx, ideal.MustParse(r, "x*z, y*z"))
	require.NoError(t, err)
	require.Len(t, primes, 2)
	assert.Equal(t, "x,y", primes[0].String())
	assert.Contains(t, rec.last(), `LIB "primdec.lib";`)

	rec.reply = reply("1", "1")
	primes, err = p.MinAssPrimes(ctx, ideal.Unit(r))
	require.NoError(t, err)
	assert.Empty(t, primes, "unit components are dropped")

	rec.reply = reply("2", "x^2", "x", "y", "y")
	comps, err := p.PrimaryDecomposition(ctx, ideal.MustParse(r, "x^2*y"))
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Equal(t, "x^2", comps[0].Primary.String())
	assert.Equal(t, "x", comps[0].Prime.String())
}

func TestDim(t *testing.T) {
	rec := &recorder{reply: reply("-1")}
	p := singular.New(singular.WithRunner(rec))
	d, err := p.Dim(context.Background(), ideal.Unit(poly.MustRing("x")))
	require.NoError(t, err)
	assert.Equal(t, -1, d)
}

func TestErrors(t *testing.T) {
	r := poly.MustRing("x")
	I := ideal.MustParse(r, "x")
	ctx := context.Background()

	p := singular.New(singular.WithRunner(&recorder{reply: "no markers"}))
	_, err := p.Std(ctx, I)
	assert.ErrorIs(t, err, singular.ErrOutput)

	p = singular.New(singular.WithRunner(&recorder{reply: reply()}))
	_, err = p.Dim(ctx, I)
	assert.ErrorIs(t, err, singular.ErrOutput, "missing line")

	p = singular.New(singular.WithRunner(singular.RunnerFunc(func(context.Context, string) (string, error) {
		return "", singular.ErrProcess
	})))
	_, err = p.Std(ctx, I)
	assert.ErrorIs(t, err, singular.ErrProcess)

	_, err = p.Std(ctx, ideal.Zero(poly.MustRing()))
	assert.ErrorIs(t, err, singular.ErrNoVariables)

	assert.Panics(t, func() { singular.WithConcurrency(0) })
	assert.Panics(t, func() { singular.WithBinary("") })
}

func TestTimeout(t *testing.T) {
	blocking := singular.RunnerFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	p := singular.New(singular.WithRunner(blocking), singular.WithTimeout(10*time.Millisecond))
	_, err := p.Std(context.Background(), ideal.MustParse(poly.MustRing("x"), "x"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrencyLimit(t *testing.T) {
	var active, peak int64
	runner := singular.RunnerFunc(func(context.Context, string) (string, error) {
		n := atomic.AddInt64(&active, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&active, -1)

		return reply("x"), nil
	})
	p := singular.New(singular.WithRunner(runner), singular.WithConcurrency(2))
	I := ideal.MustParse(poly.MustRing("x"), "x")

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := p.Std(context.Background(), I)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

// TestIntegration runs the real binary when it is installed.
func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	if _, err := exec.LookPath(singular.DefaultBinary); err != nil {
		t.Skip("Singular not installed")
	}
	p := singular.New()
	r := poly.MustRing("x", "y")
	ctx := context.Background()

	G, err := p.Std(ctx, ideal.MustParse(r, "x^2-y^3, 2*x, -3*y^2"))
	require.NoError(t, err)
	k, err := ideal.NewKernel(p)
	require.NoError(t, err)
	eq, err := k.Equal(ctx, G, ideal.MustParse(r, "x, y^2"))
	require.NoError(t, err)
	assert.True(t, eq)

	primes, err := p.MinAssPrimes(ctx, ideal.MustParse(r, "x*y"))
	require.NoError(t, err)
	assert.Len(t, primes, 2)
}
