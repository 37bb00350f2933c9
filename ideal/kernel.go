// SPDX-License-Identifier: MIT

package ideal

import (
	"context"
	"fmt"

	"github.com/katalvlaran/desing/internal/subsets"
	"github.com/katalvlaran/desing/poly"
)

// Kernel is a Provider plus the predicates derived from it.
type Kernel struct {
	Provider
}

// NewKernel wraps p.
func NewKernel(p Provider) (*Kernel, error) {
	if p == nil {
		return nil, ErrNilProvider
	}

	return &Kernel{Provider: p}, nil
}

// IsUnit reports whether I = (1).
func (k *Kernel) IsUnit(ctx context.Context, I Ideal) (bool, error) {
	if I.HasUnit() {
		return true, nil
	}
	if I.IsZero() {
		return false, nil
	}
	G, err := k.Std(ctx, I)
	if err != nil {
		return false, err
	}

	return G.HasUnit(), nil
}

// Contains reports whether J ⊆ I.
func (k *Kernel) Contains(ctx context.Context, I, J Ideal) (bool, error) {
	if J.IsZero() {
		return true, nil
	}
	G, err := k.Std(ctx, I)
	if err != nil {
		return false, err
	}
	if G.HasUnit() {
		return true, nil
	}
	for _, g := range J.gens {
		r, err := k.Reduce(ctx, g, G)
		if err != nil {
			return false, err
		}
		if !r.IsZero() {
			return false, nil
		}
	}

	return true, nil
}

// Equal reports whether I = J as ideals.
func (k *Kernel) Equal(ctx context.Context, I, J Ideal) (bool, error) {
	in, err := k.Contains(ctx, I, J)
	if err != nil || !in {
		return false, err
	}

	return k.Contains(ctx, J, I)
}

// ReduceIdeal reduces every generator of I modulo J and drops zeros.
func (k *Kernel) ReduceIdeal(ctx context.Context, I, J Ideal) (Ideal, error) {
	G, err := k.Std(ctx, J)
	if err != nil {
		return Ideal{}, err
	}
	out := make([]poly.Poly, 0, I.Len())
	for _, g := range I.gens {
		r, err := k.Reduce(ctx, g, G)
		if err != nil {
			return Ideal{}, err
		}
		out = append(out, r)
	}

	return New(I.ring, out...), nil
}

// Codim returns nvars - dim(I).
func (k *Kernel) Codim(ctx context.Context, I Ideal) (int, error) {
	d, err := k.Dim(ctx, I)
	if err != nil {
		return 0, err
	}

	return I.ring.NVars() - d, nil
}

// SingularLocus returns an ideal whose zero set is the singular locus of V(I).
// With equi set, I is assumed equidimensional and the Jacobian criterion is
// applied directly: I + (c×c minors of the Jacobian), c the codimension.
// Otherwise the minimal primes are computed; the singular locus is the
// union of the singular loci of the components and their pairwise
// intersections.
func (k *Kernel) SingularLocus(ctx context.Context, I Ideal, equi bool) (Ideal, error) {
	if I.IsZero() {
		return Unit(I.ring), nil
	}
	G, err := k.Std(ctx, I)
	if err != nil {
		return Ideal{}, err
	}
	if G.HasUnit() {
		return G, nil
	}
	if equi {
		return k.jacobianLocus(ctx, I)
	}
	primes, err := k.MinAssPrimes(ctx, I)
	if err != nil {
		return Ideal{}, err
	}
	if len(primes) <= 1 {
		return k.jacobianLocus(ctx, I)
	}
	parts := make([]Ideal, 0, len(primes)*(len(primes)+1)/2)
	for _, P := range primes {
		s, err := k.jacobianLocus(ctx, P)
		if err != nil {
			return Ideal{}, err
		}
		parts = append(parts, s)
	}
	for a := 0; a < len(primes); a++ {
		for b := a + 1; b < len(primes); b++ {
			parts = append(parts, primes[a].Sum(primes[b]))
		}
	}

	return k.Intersect(ctx, parts...)
}

// jacobianLocus returns I + minors(jacob(I), codim).
func (k *Kernel) jacobianLocus(ctx context.Context, I Ideal) (Ideal, error) {
	c, err := k.Codim(ctx, I)
	if err != nil {
		return Ideal{}, err
	}
	minors, err := Minors(I.Jacobian(), c)
	if err != nil {
		return Ideal{}, err
	}

	return I.Add(minors...), nil
}

// IsSmooth reports whether V(I) has no singular points. The empty set is smooth.
func (k *Kernel) IsSmooth(ctx context.Context, I Ideal, equi bool) (bool, error) {
	s, err := k.SingularLocus(ctx, I, equi)
	if err != nil {
		return false, err
	}

	return k.IsUnit(ctx, s)
}

// Minors returns all nonzero c×c minors of m. c ≤ 0 yields the constant 1.
func Minors(m *poly.Matrix, c int) ([]poly.Poly, error) {
	if c <= 0 {
		return []poly.Poly{poly.One(m.Ring())}, nil
	}
	var out []poly.Poly
	for _, rows := range subsets.All(m.Rows(), c) {
		for _, cols := range subsets.All(m.Cols(), c) {
			d, err := m.Minor(rows, cols)
			if err != nil {
				return nil, fmt.Errorf("ideal.Minors: %w", err)
			}
			if !d.IsZero() {
				out = append(out, d)
			}
		}
	}

	return out, nil
}
