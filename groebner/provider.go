// SPDX-License-Identifier: MIT

package groebner

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/internal/subsets"
	"github.com/katalvlaran/desing/poly"
)

// Provider implements ideal.Provider in pure Go. It is safe for concurrent
// use; standard bases are cached per ring, order and generator list.
type Provider struct {
	opts Options
	log  *zap.Logger

	mu    sync.Mutex
	cache map[string][]gpoly
}

var _ ideal.Provider = (*Provider)(nil)

// New returns a Provider configured by opts.
func New(opts ...Option) *Provider {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Provider{opts: o, log: o.Logger, cache: make(map[string][]gpoly)}
}

// basis returns the reduced standard basis of I in ord, using the cache.
func (p *Provider) basis(ctx context.Context, I ideal.Ideal, ord order) ([]gpoly, error) {
	key := ord.name + "|" + strings.Join(I.Ring().Vars(), ",") + "|" + I.String()
	if p.opts.CacheSize > 0 {
		p.mu.Lock()
		G, ok := p.cache[key]
		p.mu.Unlock()
		if ok {
			return G, nil
		}
	}
	start := time.Now()
	F := make([]gpoly, 0, I.Len())
	for _, g := range I.Gens() {
		F = append(F, toG(g, ord))
	}
	e := &engine{ord: ord, maxPairs: p.opts.MaxPairs}
	G, err := e.basis(ctx, F)
	if err != nil {
		return nil, err
	}
	p.log.Debug("standard basis",
		zap.String("order", ord.name),
		zap.Int("input", I.Len()),
		zap.Int("output", len(G)),
		zap.Int("pairs", e.pairs),
		zap.Duration("elapsed", time.Since(start)))
	if p.opts.CacheSize > 0 {
		p.mu.Lock()
		if len(p.cache) >= p.opts.CacheSize {
			p.cache = make(map[string][]gpoly)
		}
		p.cache[key] = G
		p.mu.Unlock()
	}

	return G, nil
}

func fromG(r *poly.Ring, G []gpoly) ideal.Ideal {
	gens := make([]poly.Poly, len(G))
	for i, g := range G {
		gens[i] = g.toPoly(r)
	}

	return ideal.New(r, gens...)
}

// Std returns the reduced degrevlex standard basis, sorted by leading monomial.
func (p *Provider) Std(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	G, err := p.basis(ctx, I, degrevlex)
	if err != nil {
		return ideal.Ideal{}, err
	}

	return fromG(I.Ring(), G), nil
}

// Reduce returns the normal form of f modulo I.
func (p *Provider) Reduce(ctx context.Context, f poly.Poly, I ideal.Ideal) (poly.Poly, error) {
	G, err := p.basis(ctx, I, degrevlex)
	if err != nil {
		return poly.Poly{}, err
	}
	e := &engine{ord: degrevlex}

	return e.nf(toG(f.MustTransfer(I.Ring()), degrevlex), G).toPoly(I.Ring()), nil
}

// Interred reduces the generators against each other until no leading or
// tail term is reducible by another generator. The result generates I but
// is not a standard basis in general.
func (p *Provider) Interred(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	e := &engine{ord: degrevlex}
	gens := make([]gpoly, 0, I.Len())
	for _, g := range I.Gens() {
		gens = append(gens, toG(g, degrevlex))
	}
	for round := 0; round < 64; round++ {
		if err := ctx.Err(); err != nil {
			return ideal.Ideal{}, err
		}
		changed := false
		for i := 0; i < len(gens); i++ {
			others := make([]gpoly, 0, len(gens)-1)
			others = append(others, gens[:i]...)
			others = append(others, gens[i+1:]...)
			h := e.nf(gens[i], others)
			if h.equal(gens[i]) {
				continue
			}
			changed = true
			if h.isZero() {
				gens = append(gens[:i], gens[i+1:]...)
				i--
				continue
			}
			if h.isConstant() {
				return ideal.Unit(I.Ring()), nil
			}
			gens[i] = monicG(h)
		}
		if !changed {
			break
		}
	}
	out := make([]poly.Poly, len(gens))
	for i, g := range gens {
		out[i] = g.toPoly(I.Ring()).Primitive()
	}

	return ideal.New(I.Ring(), out...).Sorted(), nil
}

// MinimalGenerators drops generators that lie in the ideal of the others
// and returns the shorter of that list and the standard basis.
func (p *Provider) MinimalGenerators(ctx context.Context, I ideal.Ideal) (ideal.Ideal, error) {
	std, err := p.Std(ctx, I)
	if err != nil {
		return ideal.Ideal{}, err
	}
	if std.HasUnit() || I.Len() > 12 {
		return std, nil
	}
	gens := I.Simplify().Gens()
	for i := 0; i < len(gens); {
		others := make([]poly.Poly, 0, len(gens)-1)
		others = append(others, gens[:i]...)
		others = append(others, gens[i+1:]...)
		r, err := p.Reduce(ctx, gens[i], ideal.New(I.Ring(), others...))
		if err != nil {
			return ideal.Ideal{}, err
		}
		if r.IsZero() {
			gens = others
			continue
		}
		i++
	}
	if len(gens) < std.Len() {
		return ideal.New(I.Ring(), gens...), nil
	}

	return std, nil
}

// Eliminate returns generators of I ∩ Q[other variables], in the ring of I.
func (p *Provider) Eliminate(ctx context.Context, I ideal.Ideal, vars []int) (ideal.Ideal, error) {
	if len(vars) == 0 {
		return p.Std(ctx, I)
	}
	first := append([]int(nil), vars...)
	sort.Ints(first)
	G, err := p.basis(ctx, I, blockOrder(I.Ring().NVars(), first))
	if err != nil {
		return ideal.Ideal{}, err
	}
	var keep []poly.Poly
	for _, g := range G {
		q := g.toPoly(I.Ring())
		free := true
		for _, v := range first {
			if q.UsesVar(v) {
				free = false
				break
			}
		}
		if free {
			keep = append(keep, q)
		}
	}

	return ideal.New(I.Ring(), keep...), nil
}

// Intersect returns the intersection of the ideals; with none it fails.
// Each step eliminates t from t·I + (1-t)·J.
func (p *Provider) Intersect(ctx context.Context, Is ...ideal.Ideal) (ideal.Ideal, error) {
	if len(Is) == 0 {
		return ideal.Ideal{}, ideal.ErrUnsupported
	}
	acc := Is[0]
	for _, J := range Is[1:] {
		var err error
		if acc, err = p.intersect2(ctx, acc, J); err != nil {
			return ideal.Ideal{}, err
		}
	}

	return acc, nil
}

func (p *Provider) intersect2(ctx context.Context, I, J ideal.Ideal) (ideal.Ideal, error) {
	r := I.Ring()
	if I.IsZero() || J.IsZero() {
		return ideal.Zero(r), nil
	}
	if I.HasUnit() {
		return J, nil
	}
	if J.HasUnit() {
		return I, nil
	}
	rt, err := r.Extend(r.FreshName("t"))
	if err != nil {
		return ideal.Ideal{}, err
	}
	t := poly.Var(rt, r.NVars())
	oneMinusT := poly.One(rt).Sub(t)
	gens := make([]poly.Poly, 0, I.Len()+J.Len())
	for _, f := range I.Gens() {
		gens = append(gens, f.MustTransfer(rt).Mul(t))
	}
	for _, g := range J.Gens() {
		gens = append(gens, g.MustTransfer(rt).Mul(oneMinusT))
	}
	E, err := p.Eliminate(ctx, ideal.New(rt, gens...), []int{r.NVars()})
	if err != nil {
		return ideal.Ideal{}, err
	}

	return E.Transfer(r)
}

// Quotient returns I : J = {f : f·J ⊆ I}.
func (p *Provider) Quotient(ctx context.Context, I, J ideal.Ideal) (ideal.Ideal, error) {
	r := I.Ring()
	if J.IsZero() {
		return ideal.Unit(r), nil
	}
	parts := make([]ideal.Ideal, 0, J.Len())
	for _, g := range J.Gens() {
		q, err := p.quotientPoly(ctx, I, g)
		if err != nil {
			return ideal.Ideal{}, err
		}
		parts = append(parts, q)
	}

	return p.Intersect(ctx, parts...)
}

// quotientPoly returns I : (g) = (I ∩ (g)) / g.
func (p *Provider) quotientPoly(ctx context.Context, I ideal.Ideal, g poly.Poly) (ideal.Ideal, error) {
	r := I.Ring()
	if g.IsUnit() {
		return I, nil
	}
	if I.IsZero() {
		return I, nil
	}
	K, err := p.intersect2(ctx, I, ideal.New(r, g))
	if err != nil {
		return ideal.Ideal{}, err
	}
	out := make([]poly.Poly, 0, K.Len())
	for _, h := range K.Gens() {
		q, err := divExact(h, g)
		if err != nil {
			return ideal.Ideal{}, err
		}
		out = append(out, q)
	}

	return ideal.New(r, out...), nil
}

// Sat returns I : J^∞ and the number of quotient steps that enlarged the ideal.
func (p *Provider) Sat(ctx context.Context, I, J ideal.Ideal) (ideal.Ideal, int, error) {
	cur, err := p.Std(ctx, I)
	if err != nil {
		return ideal.Ideal{}, 0, err
	}
	steps := 0
	for !cur.HasUnit() {
		next, err := p.Quotient(ctx, cur, J)
		if err != nil {
			return ideal.Ideal{}, 0, err
		}
		grew := false
		for _, g := range next.Gens() {
			r, err := p.Reduce(ctx, g, cur)
			if err != nil {
				return ideal.Ideal{}, 0, err
			}
			if !r.IsZero() {
				grew = true
				break
			}
		}
		if !grew {
			break
		}
		if cur, err = p.Std(ctx, next); err != nil {
			return ideal.Ideal{}, 0, err
		}
		steps++
	}

	return cur, steps, nil
}

// Dim returns the Krull dimension of R/I: the size of a largest set of
// variables such that no leading monomial is supported inside it.
// Complexity: O(2^n · |G|) after the standard basis.
func (p *Provider) Dim(ctx context.Context, I ideal.Ideal) (int, error) {
	U, err := p.independentSet(ctx, I)
	if err != nil {
		return 0, err
	}
	if U == nil {
		return -1, nil
	}

	return len(U), nil
}

// independentSet returns a maximal independent set of variables modulo I,
// or nil for the unit ideal.
func (p *Provider) independentSet(ctx context.Context, I ideal.Ideal) ([]int, error) {
	G, err := p.basis(ctx, I, degrevlex)
	if err != nil {
		return nil, err
	}
	n := I.Ring().NVars()
	if len(G) == 1 && G[0].isConstant() {
		return nil, nil
	}
	for size := n; size >= 0; size-- {
		for _, S := range subsets.All(n, size) {
			if independent(S, G, n) {
				return S, nil
			}
		}
	}

	return []int{}, nil
}

func independent(S []int, G []gpoly, n int) bool {
	in := make([]bool, n)
	for _, i := range S {
		in[i] = true
	}
	for _, g := range G {
		inside := true
		for i, e := range g.lm() {
			if e > 0 && !in[i] {
				inside = false
				break
			}
		}
		if inside {
			return false
		}
	}

	return true
}

// VDim returns the number of standard monomials, -1 unless I is
// zero-dimensional.
func (p *Provider) VDim(ctx context.Context, I ideal.Ideal) (int, error) {
	d, err := p.Dim(ctx, I)
	if err != nil {
		return 0, err
	}
	if d != 0 {
		return -1, nil
	}
	G, err := p.basis(ctx, I, degrevlex)
	if err != nil {
		return 0, err
	}
	n := I.Ring().NVars()
	start := poly.NewMonomial(n)
	seen := map[string]bool{start.Key(): true}
	queue := []poly.Monomial{start}
	count := 0
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if !standard(m, G) {
			continue
		}
		count++
		for i := 0; i < n; i++ {
			next := m.Clone()
			next[i]++
			if k := next.Key(); !seen[k] {
				seen[k] = true
				queue = append(queue, next)
			}
		}
	}

	return count, nil
}

func standard(m poly.Monomial, G []gpoly) bool {
	for _, g := range G {
		if g.lm().Divides(m) {
			return false
		}
	}

	return true
}
