// SPDX-License-Identifier: MIT

// Package poly implements exact multivariate polynomials over the rational
// numbers, the rings they live in, and the small amount of linear algebra over
// polynomial entries that the desingularization engine needs.
//
// What is provided?
//
//	• Ring      : an ordered list of named variables (x, y, z, x1, y0, ...).
//	• Monomial  : an exponent vector, compared in degree-reverse-lexicographic order.
//	• Poly      : an immutable polynomial with big.Rat coefficients.
//	• Matrix    : a dense matrix of polynomials: Jacobian, determinants,
//	               minors and adjugates (cofactor expansion).
//	• Parse/String: a textual round trip in the usual "x^2-y^3" notation.
//
// Representation:
//
//	A Poly stores its terms strictly decreasing in degrevlex order with no
//	zero coefficients. Two polynomials over rings with the same variable
//	names compare and combine freely; mixing rings with different variables
//	is a programming error and panics with ErrRingMismatch.
//
// Usage:
//
//	r := poly.MustRing("x", "y")
//	f, _ := poly.Parse(r, "x^2-y^3")
//	fx := f.Diff(0) // 2*x
//	fmt.Println(f, fx)
//
// Complexity:
//
//   - Add/Sub: O(n+m) term merges.
//   - Mul:     O(n·m·log(n·m)).
//   - Det:     O(k!) products for a k×k matrix (cofactor expansion). Matrices
//     in this module are Jacobian blocks of a few rows, so this is never the
//     bottleneck compared to standard-basis computations.
package poly
