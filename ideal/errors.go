// SPDX-License-Identifier: MIT
// Package ideal: sentinel error set, prefixed "ideal: ...".

package ideal

import "errors"

var (
	// ErrRingMismatch signals that two ideals live in different rings.
	ErrRingMismatch = errors.New("ideal: ring mismatch")

	// ErrNilProvider is returned by NewKernel for a nil provider.
	ErrNilProvider = errors.New("ideal: nil provider")

	// ErrUnsupported is returned by providers for operations they cannot perform.
	ErrUnsupported = errors.New("ideal: operation not supported by provider")
)
