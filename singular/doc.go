// SPDX-License-Identifier: MIT

// Package singular implements ideal.Provider on top of an external
// Singular process.
//
// Every call renders a short Singular script (ring declaration, input
// ideals, one command), runs it through a Runner and parses the text
// printed between two marker lines. Polynomials are exchanged in the
// unabbreviated format (short = 0), which package poly parses directly.
//
// The default Runner starts "Singular -q --no-warn" with the script on
// standard input, bounded by a per-call timeout and by a process limit
// shared by all calls of one Provider.
//
// Usage:
//
//	p := singular.New(singular.WithBinary("/usr/local/bin/Singular"),
//	    singular.WithConcurrency(2))
//	k, _ := ideal.NewKernel(p)
package singular
