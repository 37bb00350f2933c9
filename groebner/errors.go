// SPDX-License-Identifier: MIT
// Package groebner: sentinel error set, prefixed "groebner: ...".

package groebner

import "errors"

var (
	// ErrBudgetExceeded is returned when a computation processes more
	// critical pairs than allowed by WithMaxPairs.
	ErrBudgetExceeded = errors.New("groebner: pair budget exceeded")

	// ErrNotDivisible is returned when an exact division leaves a remainder.
	ErrNotDivisible = errors.New("groebner: polynomial not divisible")
)
