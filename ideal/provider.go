// SPDX-License-Identifier: MIT

package ideal

import (
	"context"

	"github.com/katalvlaran/desing/poly"
)

// Component is one primary component together with its associated prime.
type Component struct {
	Primary Ideal
	Prime   Ideal
}

// Factor is an irreducible factor with its multiplicity.
type Factor struct {
	Poly poly.Poly
	Mult int
}

// Provider is the commutative-algebra kernel. Implementations must be safe
// for concurrent use and must honour ctx cancellation in long computations.
//
// Conventions shared by all implementations:
//   - Std returns a reduced standard basis for degrevlex; the unit ideal is (1).
//   - Dim returns the Krull dimension of R/I, -1 for the unit ideal.
//   - VDim returns dim_Q R/I, -1 if I is not zero-dimensional.
//   - Sat returns I : J^∞ and the number of quotient steps that changed the ideal.
//   - Eliminate keeps the ring and returns generators free of the given variables.
//   - Factorize omits the constant factor.
type Provider interface {
	Std(ctx context.Context, I Ideal) (Ideal, error)
	Reduce(ctx context.Context, p poly.Poly, I Ideal) (poly.Poly, error)
	Sat(ctx context.Context, I, J Ideal) (Ideal, int, error)
	Quotient(ctx context.Context, I, J Ideal) (Ideal, error)
	Intersect(ctx context.Context, Is ...Ideal) (Ideal, error)
	Eliminate(ctx context.Context, I Ideal, vars []int) (Ideal, error)
	Dim(ctx context.Context, I Ideal) (int, error)
	VDim(ctx context.Context, I Ideal) (int, error)
	Radical(ctx context.Context, I Ideal) (Ideal, error)
	EquiRadical(ctx context.Context, I Ideal) (Ideal, error)
	MinAssPrimes(ctx context.Context, I Ideal) ([]Ideal, error)
	PrimaryDecomposition(ctx context.Context, I Ideal) ([]Component, error)
	Factorize(ctx context.Context, p poly.Poly) ([]Factor, error)
	MinimalGenerators(ctx context.Context, I Ideal) (Ideal, error)
	Interred(ctx context.Context, I Ideal) (Ideal, error)
}
