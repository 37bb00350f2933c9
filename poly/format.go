// SPDX-License-Identifier: MIT

package poly

import (
	"strconv"
	"strings"
)

// String renders p as "x^2-2*x*y+1/2" with terms in decreasing degrevlex
// order. The output is accepted by Parse.
func (p Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var b strings.Builder
	for i, t := range p.terms {
		c := t.Coef
		neg := c.Sign() < 0
		switch {
		case neg:
			b.WriteByte('-')
		case i > 0:
			b.WriteByte('+')
		}
		abs := c.RatString()
		if neg {
			abs = abs[1:]
		}
		mono := p.formatMonomial(t.Exp)
		switch {
		case mono == "":
			b.WriteString(abs)
		case abs == "1":
			b.WriteString(mono)
		default:
			b.WriteString(abs)
			b.WriteByte('*')
			b.WriteString(mono)
		}
	}

	return b.String()
}

func (p Poly) formatMonomial(m Monomial) string {
	var parts []string
	for i, e := range m {
		switch {
		case e == 1:
			parts = append(parts, p.ring.Var(i))
		case e > 1:
			parts = append(parts, p.ring.Var(i)+"^"+strconv.Itoa(e))
		}
	}

	return strings.Join(parts, "*")
}

// FormatList joins the string forms with ",".
func FormatList(ps []Poly) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}

	return strings.Join(parts, ",")
}
