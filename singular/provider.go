// SPDX-License-Identifier: MIT

package singular

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// Provider implements ideal.Provider by running Singular scripts. It is
// safe for concurrent use.
type Provider struct {
	opts   Options
	runner Runner
	sem    *semaphore.Weighted
	log    *zap.Logger
}

var _ ideal.Provider = (*Provider)(nil)

// New returns a Provider configured by opts.
func New(opts ...Option) *Provider {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	runner := o.Runner
	if runner == nil {
		runner = ExecRunner{Binary: o.Binary}
	}

	return &Provider{
		opts:   o,
		runner: runner,
		sem:    semaphore.NewWeighted(o.Concurrency),
		log:    o.Logger,
	}
}

// run executes s under the process limit and the per-call timeout.
func (p *Provider) run(ctx context.Context, op string, s *script) (*output, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}
	start := time.Now()
	raw, err := p.runner.Run(ctx, s.String())
	if err != nil {
		return nil, fmt.Errorf("singular.%s: %w", op, err)
	}
	p.log.Debug("singular run",
		zap.String("op", op),
		zap.Int("vars", s.ring.NVars()),
		zap.Duration("elapsed", time.Since(start)))
	out, err := parseOutput(raw)
	if err != nil {
		return nil, fmt.Errorf("singular.%s: %w", op, err)
	}

	return out, nil
}

// idealOp runs a script printing one ideal expression over I.
func (p *Provider) idealOp(ctx context.Context, op string, I ideal.Ideal, expr string, libs ...string) (ideal.Ideal, error) {
	s, err := newScript(I.Ring())
	if err != nil {
		return ideal.Ideal{}, err
	}
	for _, l := range libs {
		s.lib(l)
	}
	s.declareIdeal("@I", I).printString(expr)
	out, err := p.run(ctx, op, s)
	if err != nil {
		return ideal.Ideal{}, err
	}

	return out.readIdeal(I.Ring())
}

// Std returns a reduced standard basis.
func (p *Provider) Std(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	return p.idealOp(ctx, "Std", I, "std(@I)")
}

// Reduce returns the normal form of f modulo a standard basis of I.
func (p *Provider) Reduce(ctx context.Context, f poly.Poly, I ideal.Ideal) (poly.Poly, error) {
	s, err := newScript(I.Ring())
	if err != nil {
		return poly.Poly{}, err
	}
	s.declareIdeal("@I", I).declarePoly("@f", f).printString("reduce(@f, std(@I))")
	out, err := p.run(ctx, "Reduce", s)
	if err != nil {
		return poly.Poly{}, err
	}

	return out.readPoly(I.Ring())
}

// Sat returns I : J^∞ and the number of quotient steps that enlarged the
// ideal. The loop is spelled out in the script because the saturation
// commands of the Singular libraries differ between releases.
func (p *Provider) Sat(ctx context.Context, I, J ideal.Ideal) (ideal.Ideal, int, error) {
	s, err := newScript(I.Ring())
	if err != nil {
		return ideal.Ideal{}, 0, err
	}
	s.declareIdeal("@I", I).declareIdeal("@J", J).
		line("ideal @S = std(@I);").
		line("ideal @P;").
		line("int @k = 0;").
		line("while (1) {").
		line("  @P = std(quotient(@S, @J));").
		line("  if (size(reduce(@P, @S, 1)) == 0) { break; }").
		line("  @S = @P;").
		line("  @k = @k + 1;").
		line("}").
		printString("@S").
		printString("@k")
	out, err := p.run(ctx, "Sat", s)
	if err != nil {
		return ideal.Ideal{}, 0, err
	}
	S, err := out.readIdeal(I.Ring())
	if err != nil {
		return ideal.Ideal{}, 0, err
	}
	k, err := out.readInt()
	if err != nil {
		return ideal.Ideal{}, 0, err
	}

	return S, k, nil
}

// Quotient returns I : J.
func (p *Provider) Quotient(ctx context.Context, I, J ideal.Ideal) (ideal.Ideal, error) {
	s, err := newScript(I.Ring())
	if err != nil {
		return ideal.Ideal{}, err
	}
	s.declareIdeal("@I", I).declareIdeal("@J", J).printString("std(quotient(@I, @J))")
	out, err := p.run(ctx, "Quotient", s)
	if err != nil {
		return ideal.Ideal{}, err
	}

	return out.readIdeal(I.Ring())
}

// Intersect returns the intersection of Is. At least one ideal is required.
func (p *Provider) Intersect(ctx context.Context, Is ...ideal.Ideal) (ideal.Ideal, error) {
	if len(Is) == 0 {
		return ideal.Ideal{}, fmt.Errorf("singular.Intersect: %w", ideal.ErrUnsupported)
	}
	if len(Is) == 1 {
		return p.Std(ctx, Is[0])
	}
	r := Is[0].Ring()
	s, err := newScript(r)
	if err != nil {
		return ideal.Ideal{}, err
	}
	names := make([]string, len(Is))
	for i, I := range Is {
		names[i] = fmt.Sprintf("@I%d", i)
		s.declareIdeal(names[i], I)
	}
	s.printString("std(intersect(" + strings.Join(names, ", ") + "))")
	out, err := p.run(ctx, "Intersect", s)
	if err != nil {
		return ideal.Ideal{}, err
	}

	return out.readIdeal(r)
}

// Eliminate returns generators of I ∩ Q[other variables].
func (p *Provider) Eliminate(ctx context.Context, I ideal.Ideal, vars []int) (ideal.Ideal, error) {
	if len(vars) == 0 {
		return p.Std(ctx, I)
	}

	return p.idealOp(ctx, "Eliminate", I, "std(eliminate(@I, "+varProduct(I.Ring(), vars)+"))")
}

// intOp runs a script printing one integer expression over I.
func (p *Provider) intOp(ctx context.Context, op string, I ideal.Ideal, expr string) (int, error) {
	s, err := newScript(I.Ring())
	if err != nil {
		return 0, err
	}
	s.declareIdeal("@I", I).printString(expr)
	out, err := p.run(ctx, op, s)
	if err != nil {
		return 0, err
	}

	return out.readInt()
}

// Dim returns the Krull dimension, -1 for the unit ideal.
func (p *Provider) Dim(ctx context.Context, I ideal.Ideal) (int, error) {
	return p.intOp(ctx, "Dim", I, "dim(std(@I))")
}

// VDim returns the vector-space dimension, -1 if I is not zero-dimensional.
func (p *Provider) VDim(ctx context.Context, I ideal.Ideal) (int, error) {
	return p.intOp(ctx, "VDim", I, "vdim(std(@I))")
}

// Radical returns the radical (primdec.lib).
func (p *Provider) Radical(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	return p.idealOp(ctx, "Radical", I, "std(radical(@I))", "primdec.lib")
}

// EquiRadical returns the equidimensional radical (primdec.lib).
func (p *Provider) EquiRadical(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	return p.idealOp(ctx, "EquiRadical", I, "std(equiRadical(@I))", "primdec.lib")
}

// MinAssPrimes returns the minimal associated primes (minAssGTZ).
func (p *Provider) MinAssPrimes(ctx context.Context, I ideal.Ideal) ([]ideal.Ideal, error) {
	s, err := newScript(I.Ring())
	if err != nil {
		return nil, err
	}
	s.lib("primdec.lib").declareIdeal("@I", I).
		line("list @L = minAssGTZ(@I);").
		printString("size(@L)").
		line("for (@i = 1; @i <= size(@L); @i++) { print(string(std(@L[@i]))); }")
	out, err := p.run(ctx, "MinAssPrimes", s)
	if err != nil {
		return nil, err
	}
	n, err := out.readInt()
	if err != nil {
		return nil, err
	}
	primes := make([]ideal.Ideal, 0, n)
	for i := 0; i < n; i++ {
		P, err := out.readIdeal(I.Ring())
		if err != nil {
			return nil, err
		}
		if !P.HasUnit() {
			primes = append(primes, P)
		}
	}

	return primes, nil
}

// PrimaryDecomposition returns the primary components (primdecGTZ).
func (p *Provider) PrimaryDecomposition(ctx context.Context, I ideal.Ideal) ([]ideal.Component, error) {
	s, err := newScript(I.Ring())
	if err != nil {
		return nil, err
	}
	s.lib("primdec.lib").declareIdeal("@I", I).
		line("list @L = primdecGTZ(@I);").
		printString("size(@L)").
		line("for (@i = 1; @i <= size(@L); @i++) {").
		line("  print(string(std(@L[@i][1])));").
		line("  print(string(std(@L[@i][2])));").
		line("}")
	out, err := p.run(ctx, "PrimaryDecomposition", s)
	if err != nil {
		return nil, err
	}
	n, err := out.readInt()
	if err != nil {
		return nil, err
	}
	comps := make([]ideal.Component, 0, n)
	for i := 0; i < n; i++ {
		Q, err := out.readIdeal(I.Ring())
		if err != nil {
			return nil, err
		}
		P, err := out.readIdeal(I.Ring())
		if err != nil {
			return nil, err
		}
		if !P.HasUnit() {
			comps = append(comps, ideal.Component{Primary: Q, Prime: P})
		}
	}

	return comps, nil
}

// Factorize returns the irreducible factors of f with multiplicities,
// without the constant factor.
func (p *Provider) Factorize(ctx context.Context, f poly.Poly) ([]ideal.Factor, error) {
	if f.IsZero() || f.IsConstant() {
		return nil, nil
	}
	s, err := newScript(f.Ring())
	if err != nil {
		return nil, err
	}
	s.declarePoly("@f", f).
		line("list @F = factorize(@f);").
		printString("size(@F[1])").
		line("for (@i = 1; @i <= size(@F[1]); @i++) {").
		line("  print(string(@F[1][@i]));").
		line("  print(string(@F[2][@i]));").
		line("}")
	out, err := p.run(ctx, "Factorize", s)
	if err != nil {
		return nil, err
	}
	n, err := out.readInt()
	if err != nil {
		return nil, err
	}
	var fs []ideal.Factor
	for i := 0; i < n; i++ {
		q, err := out.readPoly(f.Ring())
		if err != nil {
			return nil, err
		}
		m, err := out.readInt()
		if err != nil {
			return nil, err
		}
		if q.IsConstant() {
			continue
		}
		fs = append(fs, ideal.Factor{Poly: q.Primitive(), Mult: m})
	}

	return fs, nil
}

// MinimalGenerators returns the minimal generators computed by mstd.
func (p *Provider) MinimalGenerators(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	return p.idealOp(ctx, "MinimalGenerators", I, "mstd(@I)[2]")
}

// Interred returns an interreduced generating set.
func (p *Provider) Interred(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	return p.idealOp(ctx, "Interred", I, "interred(@I)")
}
