// SPDX-License-Identifier: MIT
// Package poly: sentinel error set.
// Every message is prefixed with "poly: ..." and callers match with errors.Is.

package poly

import "errors"

var (
	// ErrBadVariable is returned when a variable name is empty or not an identifier.
	ErrBadVariable = errors.New("poly: invalid variable name")

	// ErrDuplicateVariable is returned when a ring would contain the same name twice.
	ErrDuplicateVariable = errors.New("poly: duplicate variable name")

	// ErrUnknownVariable is returned when a name does not belong to the ring.
	ErrUnknownVariable = errors.New("poly: unknown variable")

	// ErrRingMismatch signals that operands live in rings with different variables.
	ErrRingMismatch = errors.New("poly: ring mismatch")

	// ErrParse is returned for malformed polynomial text.
	ErrParse = errors.New("poly: parse error")

	// ErrDivisionByZero is returned when a constant division by zero is requested.
	ErrDivisionByZero = errors.New("poly: division by zero")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("poly: matrix is not square")

	// ErrDimensionMismatch indicates incompatible matrix shapes.
	ErrDimensionMismatch = errors.New("poly: dimension mismatch")

	// ErrOutOfRange indicates that a row or column index is out of bounds.
	ErrOutOfRange = errors.New("poly: index out of range")
)
