// SPDX-License-Identifier: MIT

// Package desing computes embedded resolutions of singularities of affine
// varieties over the rationals, following Bravo, Encinas and Villamayor.
//
// What is in the module?
//
//	poly      polynomial rings, parsing, derivatives, Jacobian matrices
//	ideal     ideals and the Provider/Kernel boundary to ideal arithmetic
//	groebner  pure-Go Provider: Buchberger bases, elimination, saturation,
//	          minimal associated primes
//	singular  Provider that delegates to an external Singular process
//	resolve   the resolution engine: Delta, Coeff, center search, blow-up,
//	          the chart tree and its self-checks
//	cmd/desing  the command line front end
//
// Quick start:
//
//	k, _ := ideal.NewKernel(groebner.New())
//	r := poly.MustRing("x", "y")
//	tree, err := resolve.Resolve(ctx, k, ideal.MustParse(r, "x^2-y^3"))
//	// tree.Terminal lists the resolved charts
//
// Every blocking call takes a context.Context and stops with
// resolve.ErrCanceled when it is done.
package desing
