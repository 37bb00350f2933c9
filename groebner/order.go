// SPDX-License-Identifier: MIT

package groebner

import (
	"fmt"

	"github.com/katalvlaran/desing/internal/subsets"
	"github.com/katalvlaran/desing/poly"
)

// order is a global monomial order; cmp returns +1 if a > b.
type order struct {
	name string
	cmp  func(a, b poly.Monomial) int
}

var degrevlex = order{name: "dp", cmp: poly.DegRevLex}

// restrictedDRL is degrevlex on the variables in idx only.
func restrictedDRL(idx []int) func(a, b poly.Monomial) int {
	return func(a, b poly.Monomial) int {
		da, db := 0, 0
		for _, i := range idx {
			da += a[i]
			db += b[i]
		}
		if da != db {
			if da > db {
				return 1
			}
			return -1
		}
		for k := len(idx) - 1; k >= 0; k-- {
			i := idx[k]
			if a[i] != b[i] {
				if a[i] < b[i] {
					return 1
				}
				return -1
			}
		}

		return 0
	}
}

// blockOrder compares first on the variables in first (degrevlex), then on
// the rest. It eliminates the variables of first.
func blockOrder(n int, first []int) order {
	c1 := restrictedDRL(first)
	c2 := restrictedDRL(subsets.Complement(n, first))

	return order{
		name: fmt.Sprintf("block%v", first),
		cmp: func(a, b poly.Monomial) int {
			if c := c1(a, b); c != 0 {
				return c
			}
			return c2(a, b)
		},
	}
}
