// SPDX-License-Identifier: MIT

package resolve

import (
	"context"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/internal/subsets"
	"github.com/katalvlaran/desing/poly"
)

// Delta applies the order-lowering differential operator to bo.Variety
// relative to bo.Ambient.
func Delta(ctx context.Context, k *ideal.Kernel, bo BasicObject) (ideal.Ideal, error) {
	return newEngine(k, nil).delta(ctx, bo)
}

// DeltaList returns [J, Δ(J), Δ²(J), …] up to, and excluding, the first
// unit ideal. Its length is the order of J along W.
func DeltaList(ctx context.Context, k *ideal.Kernel, bo BasicObject) ([]ideal.Ideal, error) {
	return newEngine(k, nil).deltaList(ctx, bo)
}

// coordinateMinor is a nonzero maximal minor m of the Jacobian of W: the
// generators in rows, the solved variables in cols, the remaining free
// variables and the adjugate of the submatrix.
type coordinateMinor struct {
	m    poly.Poly
	adj  *poly.Matrix
	rows []poly.Poly
	cols []int
	free []int
}

// delta
// Stage 1 (Reduce): C = J mod W.
// Stage 2 (Derive): without ambient, std(C + all partials). Otherwise, for
// every nonzero maximal Jacobian minor of W, the chain-rule derivatives of
// the generators along the free variables, plus W, saturated by the minor.
// Stage 3 (Glue): intersect over all minors, return the smaller of the
// standard basis and the minimal generators.
func (e *engine) delta(ctx context.Context, bo BasicObject) (ideal.Ideal, error) {
	r := bo.Variety.Ring()
	W := bo.Ambient
	C, err := e.k.ReduceIdeal(ctx, bo.Variety, W)
	if err != nil {
		return ideal.Ideal{}, err
	}
	if W.IsZero() {
		return e.std(ctx, C.Add(C.Diffs()...))
	}

	minors, err := e.coordinateMinors(ctx, W)
	if err != nil {
		return ideal.Ideal{}, err
	}
	parts := make([]ideal.Ideal, 0, len(minors))
	for _, cm := range minors {
		if err := ctx.Err(); err != nil {
			return ideal.Ideal{}, err
		}
		D := C
		for _, g := range C.Gens() {
			for _, w := range cm.free {
				D = D.Add(chainDerivative(g, w, cm))
			}
		}
		S, err := e.sat(ctx, D.Sum(W), ideal.New(r, cm.m))
		if err != nil {
			return ideal.Ideal{}, err
		}
		parts = append(parts, S)
	}
	D, err := e.intersectAll(ctx, r, parts)
	if err != nil {
		return ideal.Ideal{}, err
	}

	return e.smaller(ctx, D)
}

// chainDerivative returns m·∂g/∂w − Σ ∂g/∂v_l · adj[l][i] · ∂V_i/∂w: the
// derivative of g along w on W, with the solved variables v eliminated by
// the implicit function theorem and the denominator m cleared.
func chainDerivative(g poly.Poly, w int, cm coordinateMinor) poly.Poly {
	out := cm.m.Mul(g.Diff(w))
	for l, v := range cm.cols {
		dg := g.Diff(v)
		if dg.IsZero() {
			continue
		}
		for i, V := range cm.rows {
			dV := V.Diff(w)
			if dV.IsZero() {
				continue
			}
			a, _ := cm.adj.At(l, i)
			out = out.Sub(dg.Mul(a).Mul(dV))
		}
	}

	return out
}

// coordinateMinors enumerates the nonzero k×k minors of the Jacobian of W,
// k = n − dim W.
func (e *engine) coordinateMinors(ctx context.Context, W ideal.Ideal) ([]coordinateMinor, error) {
	r := W.Ring()
	n := r.NVars()
	d, err := e.dim(ctx, W)
	if err != nil {
		return nil, err
	}
	kk := n - d
	gens := W.Gens()
	jac := W.Jacobian()
	var out []coordinateMinor
	for _, rows := range subsets.All(len(gens), kk) {
		for _, cols := range subsets.All(n, kk) {
			sub, err := jac.Submatrix(rows, cols)
			if err != nil {
				return nil, err
			}
			m, err := sub.Det()
			if err != nil {
				return nil, err
			}
			if m.IsZero() {
				continue
			}
			adj, err := sub.Adjugate()
			if err != nil {
				return nil, err
			}
			V := make([]poly.Poly, len(rows))
			for i, ri := range rows {
				V[i] = gens[ri]
			}
			out = append(out, coordinateMinor{m: m, adj: adj, rows: V, cols: cols, free: subsets.Complement(n, cols)})
		}
	}

	return out, nil
}

// deltaList
// Stage 1 (Iterate): append C, replace C by Δ(C), until C is the unit ideal.
// Stage 2 (Guard): an iterate that does not grow means J ⊆ W, which has no
// finite order; this is reported as an internal error.
func (e *engine) deltaList(ctx context.Context, bo BasicObject) ([]ideal.Ideal, error) {
	var L []ideal.Ideal
	C := bo.Variety
	cur := bo.Clone()
	for {
		unit, err := e.isUnit(ctx, C)
		if err != nil {
			return nil, err
		}
		if unit {
			return L, nil
		}
		L = append(L, C)
		cur.Variety = C
		next, err := e.delta(ctx, cur)
		if err != nil {
			return nil, err
		}
		same, err := e.k.Equal(ctx, next, C)
		if err != nil {
			return nil, err
		}
		if same {
			return nil, newInvariantError("delta does not grow the ideal", C)
		}
		C = next
	}
}
