// SPDX-License-Identifier: MIT

// Package resolve implements the constructive resolution of singularities
// of Bravo, Encinas and Villamayor: a variety given by a polynomial ideal
// is blown up along a finite sequence of smooth centers until every chart
// is smooth and meets the exceptional divisors in normal crossings.
//
// Every step works on a BasicObject, the state of one affine chart:
//
//	– Ambient   W, the smooth ambient space (zero ideal = whole affine space);
//	– Variety   J ⊇ W, the transform of the input;
//	– Divisors  E, the exceptional divisors created so far, split into the
//	            prefix E⁻ that takes part in the current invariant and the
//	            suffix E⁺ of divisors created after the order last changed;
//	– the invariant bookkeeping (Order, Origin, Witness, SatCache, Meets,
//	  Intersections) and the stored alternate centers (Pending).
//
// One resolution step:
//
//  1. Delta / DeltaList measure the order b of J along W.
//  2. IntersectDivisors finds the maximal number of E⁻ divisors meeting the
//     locus of maximal order.
//  3. FindCenter either recognises a base case (a hypersurface component of
//     maximal order, a single point) or reduces the problem by one dimension
//     with Coeff and recurses. When no hypersurface of maximal contact exists
//     on the whole chart, CoverCenter glues the centers of an open cover.
//  4. BlowUp builds the affine charts of the blow-up, transforms every
//     field of the BasicObject and prunes charts already covered elsewhere.
//
// Resolve drives these steps over a worklist of charts kept in a Tree arena.
// Charts of one generation are independent and may be processed in
// parallel (WithParallelism); children are always registered in parent
// order, so the tree does not depend on the degree of parallelism.
//
// All symbolic computation goes through an ideal.Kernel, so the same engine
// runs on the native groebner provider or on an external Singular process.
//
// Complexity:
//
//	– Dominated by standard-basis computations, which are doubly
//	  exponential in the number of variables in the worst case.
//	– The chart tree may branch exponentially in the number of steps.
//
// Options:
//
//	– WithMode:        ModeGlobal (default) or ModeLocal (resolve at the origin).
//	– WithPruning:     chart pruning of BlowUp, PruneKeepDivisorPairs by default.
//	– WithChecks:      self-checks (CheckResult, CheckCharts, CheckBlowUp) and traces.
//	– WithParallelism: charts processed concurrently per generation.
//	– WithSeed:        seed of the random hypersurface search in Coeff.
//	– WithMaxCharts:   abort with ErrChartLimit beyond this many charts.
//	– WithLogger:      structured logger, zap.NewNop() by default.
//
// Errors (sentinel):
//
//	– ErrEmptyCenter   a center is the zero ideal or the input is empty.
//	– ErrInternal      an internal consistency check failed (*InvariantError).
//	– ErrCoverMismatch order and count vectors of an open cover disagree.
//	– ErrNotContained  the variety does not contain the ambient ideal.
//	– ErrRingMismatch  ideals of different rings were combined.
//	– ErrChartLimit    the chart budget was exceeded.
//	– ErrNotResolved   Verify found a terminal chart that is not resolved.
//	– ErrCanceled      the context was canceled.
//
// Example usage:
//
//	r := poly.MustRing("x", "y")
//	k, _ := ideal.NewKernel(groebner.New())
//	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "x^2-y^3"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, h := range tree.Terminal {
//	    fmt.Println(tree.All[h].BO.Variety)
//	}
package resolve
