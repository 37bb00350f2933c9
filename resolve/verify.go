// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// Verify checks every terminal chart of tree: V(J) is smooth (over the
// origin in local mode), the pullback of the input saturated by the
// divisors gives back J, J is transversal to the divisors, and the
// divisors cross normally, alone and cut with J.
// All failing charts are reported, each wrapping ErrNotResolved; a
// provider error stops the check.
func Verify(ctx context.Context, k *ideal.Kernel, tree *Tree) error {
	e := newEngine(k, nil)
	var errs error
	for _, h := range tree.Terminal {
		reason, err := e.verifyChart(ctx, tree, tree.All[h])
		if err != nil {
			return canceled(err)
		}
		if reason != "" {
			errs = multierr.Append(errs, fmt.Errorf("chart %d: %s: %w", h, reason, ErrNotResolved))
		}
	}

	return errs
}

// verifyChart returns the first failed property of ch, empty when none.
func (e *engine) verifyChart(ctx context.Context, tree *Tree, ch *Chart) (string, error) {
	bo := ch.BO
	r := bo.Ring
	J := bo.Variety
	isolated := tree.Locality == LocalityIsolated
	var marker *poly.Poly
	if tree.Locality == LocalityMarked {
		marker = ch.LocalMarker
	}

	K := tree.Input.Map(r, bo.Pullback).Sum(bo.Ambient)
	stK, err := e.std(ctx, K)
	if err != nil {
		return "", err
	}
	var stM ideal.Ideal
	if isolated {
		M := ideal.Maximal(tree.Input.Ring()).Map(r, bo.Pullback).Sum(bo.Ambient)
		if stM, err = e.std(ctx, M); err != nil {
			return "", err
		}
	}
	for _, Ej := range bo.Divisors {
		if Ej.Len() == 0 || Ej.Gen(0).IsConstant() {
			continue
		}
		if stK, err = e.sat(ctx, stK, Ej); err != nil {
			return "", err
		}
		if isolated {
			if stM, err = e.sat(ctx, stM, Ej); err != nil {
				return "", err
			}
		}
	}

	sL, err := e.k.SingularLocus(ctx, J, bo.Equidimensional)
	if err != nil {
		return "", err
	}
	if isolated {
		sL = sL.Sum(stM)
	}
	unit, err := e.isUnit(ctx, sL)
	if err != nil {
		return "", err
	}
	if !unit {
		if marker == nil {
			return "variety is not smooth", nil
		}
		rad, err := e.k.Radical(ctx, sL)
		if err != nil {
			return "", err
		}
		in, err := e.member(ctx, *marker, rad)
		if err != nil {
			return "", err
		}
		if !in {
			return "variety is not smooth away from the marker", nil
		}
	}

	same, err := e.k.Equal(ctx, J, stK)
	if err != nil {
		return "", err
	}
	if !same {
		return "map does not give back the variety", nil
	}
	tr, err := e.transversal(ctx, J, bo.Divisors, marker)
	if err != nil {
		return "", err
	}
	if !tr {
		return "divisors not transversal to the variety", nil
	}
	nc, err := e.normalCross(ctx, bo.Divisors, nil)
	if err != nil {
		return "", err
	}
	if !nc {
		return "divisors not normal crossing", nil
	}
	if nc, err = e.normalCross(ctx, cutDivisors(bo.Divisors, J), nil); err != nil {
		return "", err
	}
	if !nc {
		return "divisors not normal crossing with the variety", nil
	}

	return "", nil
}

// blowUpComplete reports whether the kept children still see every
// singular point on the center: the radical of cent ∩ Sing(J) must equal
// the radical of cent intersected with the images of the children's
// singular loci.
func (e *engine) blowUpComplete(ctx context.Context, bo BasicObject, cent ideal.Ideal, children []ChartData) (bool, error) {
	T := cent
	for _, c := range children {
		S, err := e.k.SingularLocus(ctx, c.BO.Variety, c.BO.Equidimensional)
		if err != nil {
			return false, err
		}
		TE, err := e.k.Radical(ctx, S)
		if err != nil {
			return false, err
		}
		TW, err := e.preimage(ctx, bo.Ring, c.BO.Ring, c.LastMap, TE)
		if err != nil {
			return false, err
		}
		if T, err = e.k.Intersect(ctx, T, TW); err != nil {
			return false, err
		}
	}

	S, err := e.k.SingularLocus(ctx, bo.Variety, bo.Equidimensional)
	if err != nil {
		return false, err
	}
	sL, err := e.k.Intersect(ctx, S, cent)
	if err != nil {
		return false, err
	}
	radT, err := e.k.Radical(ctx, T)
	if err != nil {
		return false, err
	}
	radS, err := e.k.Radical(ctx, sL)
	if err != nil {
		return false, err
	}
	ok, err := e.within(ctx, sL, radT)
	if err != nil || !ok {
		return false, err
	}

	return e.within(ctx, T, radS)
}

// preimage returns φ⁻¹(I) in parent for φ: x_i ↦ images[i] ∈ child, by
// eliminating the child variables from I + (x_i − images[i]) in the ring
// of both variable sets.
func (e *engine) preimage(ctx context.Context, parent, child *poly.Ring, images []poly.Poly, I ideal.Ideal) (ideal.Ideal, error) {
	nc := child.NVars()
	both := child
	for i := 0; i < parent.NVars(); i++ {
		var err error
		if both, err = both.Extend(both.FreshName(parent.Var(i))); err != nil {
			return ideal.Ideal{}, err
		}
	}
	up := make([]poly.Poly, nc)
	for j := range up {
		up[j] = poly.Var(both, j)
	}
	G := I.Map(both, up)
	for i, img := range images {
		G = G.Add(poly.Var(both, nc+i).Sub(img.Map(both, up)))
	}
	elim, err := e.k.Eliminate(ctx, G, seq(nc))
	if err != nil {
		return ideal.Ideal{}, err
	}
	down := make([]poly.Poly, both.NVars())
	for j := 0; j < nc; j++ {
		down[j] = poly.Zero(parent)
	}
	for i := 0; i < parent.NVars(); i++ {
		down[nc+i] = poly.Var(parent, i)
	}

	return elim.Map(parent, down), nil
}
