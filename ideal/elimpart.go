// SPDX-License-Identifier: MIT

package ideal

import (
	"math/big"

	"github.com/katalvlaran/desing/poly"
)

// Elimination is the result of ElimPart.
type Elimination struct {
	// Remaining is the ideal after substitution, without zero generators.
	Remaining Ideal
	// Eliminated lists the indices of the variables that were solved for.
	Eliminated []int
	// Images is the substitution map: eliminated variables go to their
	// solution, all others to themselves.
	Images []poly.Poly
}

// ElimPart repeatedly solves generators of the form c·x + g, with c a
// nonzero constant and x not occurring in g, for x and substitutes the
// solution into the other generators. The chosen variable is the one of
// highest index among the candidates of the first suitable generator, so
// the result is deterministic.
// Complexity: O(k · n · |I|) substitutions for k eliminated variables.
func ElimPart(I Ideal) Elimination {
	r := I.ring
	images := poly.Identity(r)
	gens := I.Gens()
	var eliminated []int
	for {
		gi, vi := -1, -1
		for a, g := range gens {
			if v := linearVar(g); v >= 0 {
				gi, vi = a, v
				break
			}
		}
		if gi < 0 {
			break
		}
		g := gens[gi]
		c := coefficientOfVar(g, vi)
		// x = -(g - c·x)/c
		rest := g.Sub(poly.Var(r, vi).Scale(c))
		sol := rest.Scale(new(big.Rat).Neg(new(big.Rat).Inv(c)))
		next := make([]poly.Poly, 0, len(gens)-1)
		for a, h := range gens {
			if a == gi {
				continue
			}
			if h = h.Subst(vi, sol); !h.IsZero() {
				next = append(next, h)
			}
		}
		gens = next
		for k := range images {
			images[k] = images[k].Subst(vi, sol)
		}
		eliminated = append(eliminated, vi)
	}

	return Elimination{Remaining: New(r, gens...), Eliminated: eliminated, Images: images}
}

// linearVar returns a variable that occurs in g only in a term c·x, or -1.
func linearVar(g poly.Poly) int {
	best := -1
	for i := 0; i < g.Ring().NVars(); i++ {
		linear, other := false, false
		for _, t := range g.Terms() {
			if t.Exp[i] == 0 {
				continue
			}
			if t.Exp[i] == 1 && t.Exp.Degree() == 1 {
				linear = true
			} else {
				other = true
			}
		}
		if linear && !other {
			best = i
		}
	}

	return best
}

func coefficientOfVar(g poly.Poly, i int) *big.Rat {
	for _, t := range g.Terms() {
		if t.Exp[i] == 1 && t.Exp.Degree() == 1 {
			return t.Coef
		}
	}

	return new(big.Rat)
}
