// SPDX-License-Identifier: MIT

// Package ideal models finitely generated polynomial ideals and the contract
// of the commutative-algebra kernel the desingularization engine relies on.
//
// Two layers live here:
//
//	Ideal    : a value type: a ring plus an ordered generator list. All
//	            operations that only touch generators (sum, product, power,
//	            substitution, ring maps, variable discovery, linear variable
//	            elimination) are pure functions on this type.
//
//	Provider : the interface for everything that needs standard bases:
//	            std, normal forms, saturation, quotient, intersection,
//	            elimination, dimensions, radicals, decompositions and
//	            factorization. Every call takes a context.Context.
//
// Kernel wraps a Provider and derives the predicates used everywhere in the
// engine: IsUnit, Contains, Equal, SingularLocus and IsSmooth.
//
// Two Provider implementations ship with the module: package groebner (pure
// Go) and package singular (an external Singular process).
package ideal
