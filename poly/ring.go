// SPDX-License-Identifier: MIT

package poly

import (
	"fmt"
	"strings"
)

// Ring is an ordered set of variable names. Variable i is the i-th name.
// Rings are immutable after construction and safe for concurrent use.
type Ring struct {
	vars  []string
	index map[string]int
}

// NewRing builds a ring over the given variable names.
// Stage 1 (Validate): every name must be an identifier and appear once.
// Stage 2 (Finalize): build the name → index lookup.
// Complexity: O(n).
func NewRing(vars ...string) (*Ring, error) {
	r := &Ring{vars: make([]string, len(vars)), index: make(map[string]int, len(vars))}
	for i, v := range vars {
		if !isIdent(v) {
			return nil, fmt.Errorf("NewRing(%q): %w", v, ErrBadVariable)
		}
		if _, dup := r.index[v]; dup {
			return nil, fmt.Errorf("NewRing(%q): %w", v, ErrDuplicateVariable)
		}
		r.vars[i] = v
		r.index[v] = i
	}

	return r, nil
}

// MustRing is NewRing that panics on error. Intended for literals in tests
// and examples.
func MustRing(vars ...string) *Ring {
	r, err := NewRing(vars...)
	if err != nil {
		panic(err)
	}

	return r
}

// NVars returns the number of variables.
func (r *Ring) NVars() int {
	if r == nil {
		return 0
	}

	return len(r.vars)
}

// Var returns the name of variable i.
func (r *Ring) Var(i int) string { return r.vars[i] }

// Vars returns a copy of the variable names in ring order.
func (r *Ring) Vars() []string {
	out := make([]string, len(r.vars))
	copy(out, r.vars)

	return out
}

// Index returns the position of the named variable.
func (r *Ring) Index(name string) (int, bool) {
	i, ok := r.index[name]

	return i, ok
}

// Extend returns a new ring with the given names appended.
func (r *Ring) Extend(names ...string) (*Ring, error) {
	all := make([]string, 0, len(r.vars)+len(names))
	all = append(all, r.vars...)
	all = append(all, names...)

	return NewRing(all...)
}

// Restrict returns the ring over the variables selected by keep, in ring order.
func (r *Ring) Restrict(keep []int) *Ring {
	names := make([]string, 0, len(keep))
	for _, i := range keep {
		names = append(names, r.vars[i])
	}

	return MustRing(names...)
}

// Equal reports whether both rings carry the same variables in the same order.
func (r *Ring) Equal(o *Ring) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil || len(r.vars) != len(o.vars) {
		return false
	}
	for i := range r.vars {
		if r.vars[i] != o.vars[i] {
			return false
		}
	}

	return true
}

// FreshName returns base, or base followed by a number, so that the name is
// not yet used in the ring.
func (r *Ring) FreshName(base string) string {
	if _, used := r.index[base]; !used {
		return base
	}
	for k := 1; ; k++ {
		name := fmt.Sprintf("%s%d", base, k)
		if _, used := r.index[name]; !used {
			return name
		}
	}
}

// String renders the ring as "Q[x,y,z]".
func (r *Ring) String() string {
	return "Q[" + strings.Join(r.vars, ",") + "]"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return true
}

func mustSameRing(a, b *Ring) {
	if !a.Equal(b) {
		panic(fmt.Errorf("%v vs %v: %w", a, b, ErrRingMismatch))
	}
}
