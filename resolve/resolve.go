// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// driver owns the tree of one run.
type driver struct {
	e     *engine
	tree  *Tree
	local Locality
}

// outcome is what processing one chart produced.
type outcome struct {
	terminal bool
	children []ChartData
}

// Resolve computes a resolution of V(J).
// Stage 1 (Prepare): J is replaced by its equidimensional radical when it
// differs; in ModeLocal the components through the origin are kept and
// the kind of local treatment is decided.
// Stage 2 (Loop): every chart of the worklist gets a center (replayed,
// local or from FindCenter); a center equal to the variety makes the
// chart terminal when a divisor meets it, otherwise BlowUp appends the
// children. Charts of one generation run concurrently up to the
// configured parallelism.
// Stage 3 (Check): with CheckResult every terminal chart is verified.
func Resolve(ctx context.Context, k *ideal.Kernel, J ideal.Ideal, opts ...Option) (*Tree, error) {
	if J.Ring() == nil || J.IsZero() {
		return nil, fmt.Errorf("Resolve: %w", ErrEmptyCenter)
	}
	d := &driver{e: newEngine(k, opts)}
	tree, err := d.run(ctx, J)
	if err != nil {
		return nil, canceled(err)
	}

	return tree, nil
}

func (d *driver) run(ctx context.Context, J ideal.Ideal) (*Tree, error) {
	e := d.e
	runID := uuid.New()
	e.log = e.log.With(zap.String("run", runID.String()))

	Jrad, err := e.k.EquiRadical(ctx, J)
	if err != nil {
		return nil, err
	}
	same, err := e.within(ctx, Jrad, J)
	if err != nil {
		return nil, err
	}
	if !same {
		e.log.Warn("input is not reduced or not equidimensional, continuing with its equidimensional radical",
			zap.Stringer("input", J), zap.Stringer("radical", Jrad))
		J = Jrad
	}

	var marker *poly.Poly
	smoothAtOrigin := false
	if e.opts.Mode == ModeLocal {
		if J, marker, smoothAtOrigin, err = d.prepareLocal(ctx, J); err != nil {
			return nil, err
		}
	}

	bo, err := NewBasicObject(J, Config{})
	if err != nil {
		return nil, err
	}
	root := &Chart{Handle: 0, BO: bo, LastMap: poly.Identity(bo.Ring), LocalMarker: marker}
	d.tree = &Tree{RunID: runID, Input: J, All: []*Chart{root}}
	if smoothAtOrigin {
		root.Terminal = true
		root.Center = J
		d.tree.Terminal = []int{0}
		return d.tree, nil
	}

	for lo := 0; lo < len(d.tree.All); {
		hi := len(d.tree.All)
		results := make([]outcome, hi-lo)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.opts.Parallelism)
		for h := lo; h < hi; h++ {
			h := h
			g.Go(func() error {
				out, err := d.process(gctx, e.forChart(h), d.tree.All[h])
				if err != nil {
					return atChart(err, h)
				}
				results[h-lo] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for h := lo; h < hi; h++ {
			if err := d.register(h, results[h-lo]); err != nil {
				return nil, err
			}
		}
		lo = hi
	}

	d.tree.Locality = d.local
	if e.traces(CheckResult) {
		if err := Verify(ctx, e.k, d.tree); err != nil {
			return nil, err
		}
	}
	e.log.Info("resolution finished",
		zap.Int("charts", len(d.tree.All)),
		zap.Int("terminal", len(d.tree.Terminal)))

	return d.tree, nil
}

// register records the outcome of chart h: terminal or children appended
// in order with the path extended by (h, position).
func (d *driver) register(h int, out outcome) error {
	ch := d.tree.All[h]
	if out.terminal {
		ch.Terminal = true
		d.tree.Terminal = append(d.tree.Terminal, h)
		return nil
	}
	for pos, cd := range out.children {
		if limit := d.e.opts.MaxCharts; limit > 0 && len(d.tree.All) >= limit {
			return pkgerrors.Wrapf(ErrChartLimit, "%d charts", limit)
		}
		path := make([]Step, len(ch.Path), len(ch.Path)+1)
		copy(path, ch.Path)
		path = append(path, Step{Parent: h, Position: pos})
		d.tree.All = append(d.tree.All, &Chart{
			Handle:      len(d.tree.All),
			BO:          cd.BO,
			Path:        path,
			LastMap:     cd.LastMap,
			LocalMarker: cd.LocalMarker,
		})
	}

	return nil
}

// process chooses the center of one chart and either finishes it or
// blows it up. Only ch is modified.
func (d *driver) process(ctx context.Context, e *engine, ch *Chart) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}
	bo := &ch.BO
	J := bo.Variety
	Jstd, err := e.std(ctx, J)
	if err != nil {
		return outcome{}, err
	}
	st := newSatCache(bo.SatCache)

	var ce *Center
	decompose := false
	if ch.Handle == 0 {
		if ce, err = d.rootCenter(ctx, e, *bo); err != nil {
			return outcome{}, err
		}
	}
	if sc, ok := bo.replay(); ok {
		ce = &sc
	}
	if d.local == LocalityIsolated && ch.Handle == 0 {
		if ce, err = d.originCenter(ctx, e, *bo); err != nil {
			return outcome{}, err
		}
	}
	if d.local != LocalityGlobal && ch.Handle != 0 {
		meets, err := e.meetsDivisors(ctx, J, bo.Divisors)
		if err != nil {
			return outcome{}, err
		}
		if !meets {
			ce = &Center{Ideal: J, Origin: []int{-1}, Order: []int{1}, Counts: []int{0}}
		}
	}

	var pending []StoredCenter
	var cent ideal.Ideal
	switch {
	case ce == nil && d.local == LocalityMarked:
		var c Center
		if c, cent, pending, err = d.markedCenter(ctx, e, ch); err != nil {
			return outcome{}, err
		}
		ce = &c
		bo.Pending = pending
	case ce == nil:
		var c Center
		if d.local == LocalityIsolated {
			c, err = d.isolatedCenter(ctx, e, *bo, st)
		} else {
			c, err = e.findCenter(ctx, *bo, st, false)
			if err == nil && c.Ideal.IsZero() && len(c.Counts) < len(c.Order)-1 {
				n := len(c.Counts)
				c.Order = c.Order[:n]
				c.Origin = c.Origin[:min(n, len(c.Origin))]
			}
		}
		if err != nil {
			return outcome{}, err
		}
		ce = &c
		decompose = true
	default:
		cent = ce.Ideal
	}

	if decompose {
		if cent, pending, err = d.decompose(ctx, e, J, Jstd, *ce, nil); err != nil {
			return outcome{}, err
		}
		bo.Pending = pending
	}
	bo.SatCache = st.v

	bo.Origin = cloneInts(ce.Origin)
	bo.Order = cloneInts(ce.Order)
	counts := cloneInts(ce.Counts)
	if len(counts) < len(ce.Origin)-1 || len(counts) < len(ce.Order)-1 {
		cu, err := e.isUnit(ctx, ce.Ideal)
		if err != nil {
			return outcome{}, err
		}
		ju, err := e.isUnit(ctx, J)
		if err != nil {
			return outcome{}, err
		}
		if !cu || !ju {
			return outcome{}, newInvariantError("witness vector has the wrong length", ce.Ideal)
		}
		counts = make([]int, max(1, len(ce.Origin)-1))
	}
	bo.Witness = counts
	ch.Invariant = ce.clone()
	if e.traces(TraceCenter) {
		e.log.Debug("center chosen",
			zap.Stringer("center", cent),
			zap.Ints("order", bo.Order),
			zap.Ints("origin", bo.Origin),
			zap.Ints("witness", bo.Witness),
			zap.Int("pending", len(bo.Pending)))
	}

	if e.traces(CheckCharts) {
		if cent, err = d.checkChart(ctx, e, ch, cent, Jstd); err != nil {
			return outcome{}, err
		}
	}
	ch.Center = cent

	equal, err := e.within(ctx, cent, Jstd)
	if err != nil {
		return outcome{}, err
	}
	if equal {
		terminal := len(bo.Divisors) == 0 || e.opts.Pruning == PruneKeepAll
		for _, m := range bo.Meets {
			terminal = terminal || m != MeetNever
		}
		return outcome{terminal: terminal}, nil
	}

	children, err := e.blowUp(ctx, *bo, cent, ch.LocalMarker)
	if err != nil {
		return outcome{}, err
	}
	if e.traces(CheckBlowUp) && d.local == LocalityGlobal {
		ok, err := e.blowUpComplete(ctx, *bo, cent, children)
		if err != nil {
			return outcome{}, err
		}
		if !ok {
			return outcome{}, newInvariantError("a chart carrying singular points was dropped", cent)
		}
	}

	return outcome{children: children}, nil
}

// rootCenter is the first-step short-cut: the radical of the last Delta
// entry is the center when it is smooth and irreducible.
func (d *driver) rootCenter(ctx context.Context, e *engine, bo BasicObject) (*Center, error) {
	L, err := e.deltaList(ctx, bo)
	if err != nil || len(L) == 0 {
		return nil, err
	}
	sL, err := e.k.Radical(ctx, L[len(L)-1])
	if err != nil {
		return nil, err
	}
	sm, err := e.smooth(ctx, sL, false)
	if err != nil || !sm {
		return nil, err
	}
	primes, err := e.k.MinAssPrimes(ctx, sL)
	if err != nil || len(primes) != 1 {
		return nil, err
	}

	return &Center{Ideal: sL, Origin: []int{-1}, Order: []int{0}, Counts: []int{0}}, nil
}

// replay pops the next stored center. Its Origin vector is completed for
// the current divisor list: the first unset entry becomes the number of
// divisors not accounted for by the earlier entries, later entries become
// zero, and the same values are written into the centers still waiting.
func (bo *BasicObject) replay() (Center, bool) {
	for len(bo.Pending) > 0 {
		sc := bo.Pending[0].clone()
		bo.Pending = bo.Pending[1:]
		if sc.Ideal.IsZero() {
			continue
		}
		used := 0
		at := -1
		for i, o := range sc.Origin {
			if o > -1 {
				used += o
				continue
			}
			at = i
			break
		}
		if at >= 0 {
			sc.Origin[at] = len(bo.Divisors) - used - 1
			for i := at + 1; i < len(sc.Origin); i++ {
				sc.Origin[i] = 0
			}
			for p := range bo.Pending {
				o := bo.Pending[p].Origin
				for i := at; i < len(sc.Origin) && i < len(o); i++ {
					o[i] = sc.Origin[i]
				}
			}
		}
		return Center{Ideal: sc.Ideal, Origin: sc.Origin, Order: sc.Order, Counts: sc.Witness}, true
	}

	return Center{}, false
}

// decompose splits a center different from J into its minimal primes:
// the first is blown up, the others are stored. keep filters the stored
// ones.
func (d *driver) decompose(ctx context.Context, e *engine, J, Jstd ideal.Ideal, ce Center,
	keep func(ideal.Ideal) (bool, error)) (ideal.Ideal, []StoredCenter, error) {
	unit, err := e.isUnit(ctx, ce.Ideal)
	if err != nil {
		return ideal.Ideal{}, nil, err
	}
	if unit {
		return J, nil, nil
	}
	inJ, err := e.within(ctx, J, ce.Ideal)
	if err != nil {
		return ideal.Ideal{}, nil, err
	}
	inC, err := e.within(ctx, ce.Ideal, Jstd)
	if err != nil {
		return ideal.Ideal{}, nil, err
	}
	if inJ && inC {
		return ce.Ideal, nil, nil
	}
	primes, err := e.k.MinAssPrimes(ctx, ce.Ideal)
	if err != nil {
		return ideal.Ideal{}, nil, err
	}
	if len(primes) == 0 {
		return ce.Ideal, nil, nil
	}
	var pending []StoredCenter
	for _, P := range primes[1:] {
		if keep != nil {
			ok, err := keep(P)
			if err != nil {
				return ideal.Ideal{}, nil, err
			}
			if !ok {
				continue
			}
		}
		pending = append(pending, StoredCenter{
			Ideal:   P,
			Origin:  cloneInts(ce.Origin),
			Order:   cloneInts(ce.Order),
			Witness: cloneInts(ce.Counts),
		})
	}

	return primes[0], pending, nil
}

// checkChart verifies the ambient space, the center and the divisors of a
// chart. A center handed to an already finished chart is replaced by J.
func (d *driver) checkChart(ctx context.Context, e *engine, ch *Chart, cent, Jstd ideal.Ideal) (ideal.Ideal, error) {
	bo := ch.BO
	if !bo.Ambient.IsZero() {
		u, err := e.isUnit(ctx, bo.Ambient)
		if err != nil {
			return cent, err
		}
		if u {
			return cent, newInvariantError("ambient space is empty", bo.Ambient)
		}
		sm, err := e.smooth(ctx, bo.Ambient, false)
		if err != nil {
			return cent, err
		}
		if !sm {
			return cent, newInvariantError("ambient space is not smooth", bo.Ambient)
		}
	}
	global := d.local == LocalityGlobal
	if global {
		sm, err := e.smooth(ctx, cent.Sum(bo.Ambient), false)
		if err != nil {
			return cent, err
		}
		if !sm {
			return cent, newInvariantError("center is not smooth", cent)
		}
	}
	for _, Ej := range bo.Divisors {
		if Ej.Len() == 0 || Ej.Gen(0).IsConstant() {
			continue
		}
		sm, err := e.smooth(ctx, Ej.Sum(bo.Ambient), false)
		if err != nil {
			return cent, err
		}
		if !sm {
			return cent, newInvariantError("exceptional divisor is not smooth", Ej)
		}
	}
	if global {
		done, err := e.finished(ctx, bo)
		if err != nil {
			return cent, err
		}
		in, err := e.within(ctx, cent, Jstd)
		if err != nil {
			return cent, err
		}
		if done && !in {
			e.log.Warn("chart already finished, using the variety as center", zap.Stringer("center", cent))
			return bo.Variety, nil
		}
	}

	return cent, nil
}
