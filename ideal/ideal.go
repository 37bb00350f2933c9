// SPDX-License-Identifier: MIT

package ideal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/desing/poly"
)

// Ideal is an ordered list of generators in one ring. Zero generators are
// dropped on construction; an Ideal without generators is the zero ideal.
// Ideals are values: every operation returns a new Ideal.
type Ideal struct {
	ring *poly.Ring
	gens []poly.Poly
}

// New builds the ideal generated by gens in r.
func New(r *poly.Ring, gens ...poly.Poly) Ideal {
	out := make([]poly.Poly, 0, len(gens))
	for _, g := range gens {
		if !g.IsZero() {
			out = append(out, g)
		}
	}

	return Ideal{ring: r, gens: out}
}

// Parse reads a comma separated generator list.
func Parse(r *poly.Ring, s string) (Ideal, error) {
	ps, err := poly.ParseList(r, s)
	if err != nil {
		return Ideal{}, fmt.Errorf("ideal.Parse: %w", err)
	}

	return New(r, ps...), nil
}

// MustParse is Parse that panics on error.
func MustParse(r *poly.Ring, s string) Ideal {
	I, err := Parse(r, s)
	if err != nil {
		panic(err)
	}

	return I
}

// Zero returns the zero ideal of r.
func Zero(r *poly.Ring) Ideal { return Ideal{ring: r} }

// Unit returns the ideal (1).
func Unit(r *poly.Ring) Ideal { return New(r, poly.One(r)) }

// Maximal returns the ideal generated by all variables of r.
func Maximal(r *poly.Ring) Ideal { return New(r, poly.Identity(r)...) }

// OfVars returns the ideal generated by the selected variables.
func OfVars(r *poly.Ring, idx []int) Ideal {
	gens := make([]poly.Poly, len(idx))
	for k, i := range idx {
		gens[k] = poly.Var(r, i)
	}

	return New(r, gens...)
}

// Ring returns the ring of I.
func (I Ideal) Ring() *poly.Ring { return I.ring }

// Gens returns a copy of the generator list.
func (I Ideal) Gens() []poly.Poly {
	out := make([]poly.Poly, len(I.gens))
	copy(out, I.gens)

	return out
}

// Gen returns generator i.
func (I Ideal) Gen(i int) poly.Poly { return I.gens[i] }

// Len returns the number of generators.
func (I Ideal) Len() int { return len(I.gens) }

// IsZero reports whether I has no generators.
func (I Ideal) IsZero() bool { return len(I.gens) == 0 }

// HasUnit reports whether some generator is a nonzero constant. For a
// standard basis this decides whether I is the unit ideal.
func (I Ideal) HasUnit() bool {
	for _, g := range I.gens {
		if g.IsUnit() {
			return true
		}
	}

	return false
}

// Add returns I with the extra generators appended.
func (I Ideal) Add(gens ...poly.Poly) Ideal {
	all := make([]poly.Poly, 0, len(I.gens)+len(gens))
	all = append(all, I.gens...)
	all = append(all, gens...)

	return New(I.ring, all...)
}

// Sum returns I + J.
func (I Ideal) Sum(J Ideal) Ideal {
	mustSameRing(I, J)

	return I.Add(J.gens...)
}

// Sum returns the sum of all ideals; they must share a ring.
func Sum(r *poly.Ring, Is ...Ideal) Ideal {
	out := Zero(r)
	for _, I := range Is {
		out = out.Sum(I)
	}

	return out
}

// Product returns I·J, generated by all pairwise products.
func (I Ideal) Product(J Ideal) Ideal {
	mustSameRing(I, J)
	gens := make([]poly.Poly, 0, len(I.gens)*len(J.gens))
	for _, f := range I.gens {
		for _, g := range J.gens {
			gens = append(gens, f.Mul(g))
		}
	}

	return New(I.ring, gens...).Simplify()
}

// Power returns I^k (k ≥ 0); I^0 is the unit ideal.
func (I Ideal) Power(k int) Ideal {
	out := Unit(I.ring)
	for ; k > 0; k-- {
		out = out.Product(I)
	}

	return out
}

// Scale multiplies every generator by p.
func (I Ideal) Scale(p poly.Poly) Ideal {
	gens := make([]poly.Poly, len(I.gens))
	for i, g := range I.gens {
		gens[i] = g.Mul(p)
	}

	return New(I.ring, gens...)
}

// Simplify drops zero generators, makes every generator primitive and
// removes duplicates, keeping the first occurrence.
func (I Ideal) Simplify() Ideal {
	seen := make(map[string]bool, len(I.gens))
	out := make([]poly.Poly, 0, len(I.gens))
	for _, g := range I.gens {
		if g.IsZero() {
			continue
		}
		g = g.Primitive()
		k := g.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, g)
	}

	return Ideal{ring: I.ring, gens: out}
}

// Map applies the ring homomorphism x_i ↦ images[i] generator-wise.
func (I Ideal) Map(target *poly.Ring, images []poly.Poly) Ideal {
	gens := make([]poly.Poly, len(I.gens))
	for i, g := range I.gens {
		gens[i] = g.Map(target, images)
	}

	return New(target, gens...)
}

// Subst replaces variable i by q.
func (I Ideal) Subst(i int, q poly.Poly) Ideal {
	images := poly.Identity(I.ring)
	images[i] = q

	return I.Map(I.ring, images)
}

// Transfer moves I into target by variable names.
func (I Ideal) Transfer(target *poly.Ring) (Ideal, error) {
	gens := make([]poly.Poly, len(I.gens))
	for i, g := range I.gens {
		q, err := g.Transfer(target)
		if err != nil {
			return Ideal{}, fmt.Errorf("ideal.Transfer: %w", err)
		}
		gens[i] = q
	}

	return New(target, gens...), nil
}

// MustTransfer is Transfer that panics on error.
func (I Ideal) MustTransfer(target *poly.Ring) Ideal {
	J, err := I.Transfer(target)
	if err != nil {
		panic(err)
	}

	return J
}

// Vars returns the indices of the variables occurring in some generator.
func (I Ideal) Vars() []int {
	used := make([]bool, I.ring.NVars())
	for _, g := range I.gens {
		for _, i := range g.Support() {
			used[i] = true
		}
	}
	var out []int
	for i, u := range used {
		if u {
			out = append(out, i)
		}
	}

	return out
}

// Diffs returns all partial derivatives of all generators, the entries of
// the Jacobian matrix.
func (I Ideal) Diffs() []poly.Poly {
	var out []poly.Poly
	for _, g := range I.gens {
		for j := 0; j < I.ring.NVars(); j++ {
			out = append(out, g.Diff(j))
		}
	}

	return out
}

// Jacobian returns the Jacobian matrix of the generators.
func (I Ideal) Jacobian() *poly.Matrix { return poly.Jacobian(I.ring, I.gens) }

// MaxDegree returns the largest generator degree, -1 for the zero ideal.
func (I Ideal) MaxDegree() int {
	d := -1
	for _, g := range I.gens {
		d = max(d, g.Degree())
	}

	return d
}

// Sorted returns a copy with generators in increasing degrevlex order of
// their leading terms.
func (I Ideal) Sorted() Ideal {
	gens := I.Gens()
	sort.SliceStable(gens, func(a, b int) bool {
		return poly.DegRevLex(gens[a].Lead().Exp, gens[b].Lead().Exp) < 0
	})

	return Ideal{ring: I.ring, gens: gens}
}

// String renders the generators separated by commas; the zero ideal is "0".
func (I Ideal) String() string {
	if len(I.gens) == 0 {
		return "0"
	}
	parts := make([]string, len(I.gens))
	for i, g := range I.gens {
		parts[i] = g.String()
	}

	return strings.Join(parts, ",")
}

func mustSameRing(I, J Ideal) {
	if !I.ring.Equal(J.ring) {
		panic(fmt.Errorf("%v vs %v: %w", I.ring, J.ring, ErrRingMismatch))
	}
}
