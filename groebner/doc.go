// SPDX-License-Identifier: MIT

// Package groebner is a pure-Go implementation of ideal.Provider.
//
// What is inside?
//
//	• Buchberger's algorithm with the sugar selection strategy, the product
//	  criterion and the chain criterion, returning reduced standard bases.
//	• Monomial orders: degrevlex and block (elimination) orders.
//	• Ideal operations derived from standard bases: normal forms, elimination,
//	  intersection (t·I + (1-t)·J), quotient, saturation with step count,
//	  Krull dimension from independent sets, vector-space dimension.
//	• Polynomial gcd through principal-ideal intersection, square-free
//	  decomposition, and a factorizer that splits off monomial content,
//	  contents with respect to each variable, linear and quadratic factors in
//	  one variable, and rational roots of univariate or bivariate forms.
//	• Minimal associated primes by recursive splitting on factors of
//	  generators, of projection eliminants and of the minimal polynomial of a
//	  generic linear form (zero-dimensional case).
//
// Limitations:
//
//	Univariate factors of degree ≥ 4 without rational roots are treated as
//	irreducible, and an ideal that no splitting rule can decompose is
//	treated as prime. Primary decomposition reports isolated components
//	only. For inputs outside these limits use package singular.
//
// Usage:
//
//	p := groebner.New(groebner.WithLogger(logger))
//	k, _ := ideal.NewKernel(p)
//	G, err := k.Std(ctx, I)
package groebner
