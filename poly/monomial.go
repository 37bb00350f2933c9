// SPDX-License-Identifier: MIT

package poly

import "strconv"

// Monomial is an exponent vector; entry i is the exponent of variable i.
// Monomials handed out by this package must be treated as read-only.
type Monomial []int

// NewMonomial returns the constant monomial 1 over n variables.
func NewMonomial(n int) Monomial { return make(Monomial, n) }

// Degree returns the total degree.
func (m Monomial) Degree() int {
	d := 0
	for _, e := range m {
		d += e
	}

	return d
}

// Mul returns m·o.
func (m Monomial) Mul(o Monomial) Monomial {
	out := make(Monomial, len(m))
	for i := range m {
		out[i] = m[i] + o[i]
	}

	return out
}

// Divides reports whether m divides o.
func (m Monomial) Divides(o Monomial) bool {
	for i := range m {
		if m[i] > o[i] {
			return false
		}
	}

	return true
}

// Div returns o/m; the caller guarantees m divides o.
func (m Monomial) Div(o Monomial) Monomial {
	out := make(Monomial, len(m))
	for i := range m {
		out[i] = o[i] - m[i]
	}

	return out
}

// Lcm returns the least common multiple.
func (m Monomial) Lcm(o Monomial) Monomial {
	out := make(Monomial, len(m))
	for i := range m {
		out[i] = max(m[i], o[i])
	}

	return out
}

// Coprime reports whether m and o share no variable.
func (m Monomial) Coprime(o Monomial) bool {
	for i := range m {
		if m[i] > 0 && o[i] > 0 {
			return false
		}
	}

	return true
}

// IsOne reports whether all exponents are zero.
func (m Monomial) IsOne() bool {
	for _, e := range m {
		if e != 0 {
			return false
		}
	}

	return true
}

// Equal reports exponent-wise equality.
func (m Monomial) Equal(o Monomial) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i] != o[i] {
			return false
		}
	}

	return true
}

// Key returns a map key for the exponent vector.
func (m Monomial) Key() string {
	b := make([]byte, 0, 3*len(m))
	for i, e := range m {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(e), 10)
	}

	return string(b)
}

// Clone returns an independent copy.
func (m Monomial) Clone() Monomial {
	out := make(Monomial, len(m))
	copy(out, m)

	return out
}

// DegRevLex compares two monomials in degree-reverse-lexicographic order
// (x1 > x2 > ... > xn). It returns +1 if a > b, -1 if a < b and 0 if equal.
func DegRevLex(a, b Monomial) int {
	da, db := a.Degree(), b.Degree()
	if da != db {
		if da > db {
			return 1
		}
		return -1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return 1
			}
			return -1
		}
	}

	return 0
}

// Lex compares two monomials lexicographically (x1 > x2 > ... > xn).
func Lex(a, b Monomial) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}

	return 0
}
