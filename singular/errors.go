// SPDX-License-Identifier: MIT
// Package singular: sentinel error set, prefixed "singular: ...".

package singular

import "errors"

var (
	// ErrProcess is returned when the Singular process fails to start or
	// exits with an error.
	ErrProcess = errors.New("singular: process failed")

	// ErrOutput is returned when the process output lacks the result markers
	// or cannot be parsed.
	ErrOutput = errors.New("singular: malformed output")

	// ErrNoVariables is returned for rings without variables, which Singular
	// cannot declare.
	ErrNoVariables = errors.New("singular: ring has no variables")
)
