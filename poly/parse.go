// SPDX-License-Identifier: MIT

package poly

import (
	"fmt"
	"math/big"
	"strings"
)

// Parse reads a polynomial written with + - * / ^, integer or rational
// constants, parentheses and the variable names of r. Division is allowed
// only by nonzero constants.
//
//	expr   := term { ('+'|'-') term }
//	term   := factor { ('*'|'/') factor }
//	factor := '-' factor | '+' factor | atom [ '^' integer ]
//	atom   := integer | name | '(' expr ')'
func Parse(r *Ring, s string) (Poly, error) {
	ps := &parser{ring: r, src: s}
	p, err := ps.expr()
	if err != nil {
		return Poly{}, err
	}
	ps.skip()
	if ps.pos != len(ps.src) {
		return Poly{}, ps.errorf("unexpected %q", ps.src[ps.pos:])
	}

	return p, nil
}

// MustParse is Parse that panics on error.
func MustParse(r *Ring, s string) Poly {
	p, err := Parse(r, s)
	if err != nil {
		panic(err)
	}

	return p
}

// ParseList reads a comma separated list of polynomials. Empty input
// yields an empty list.
func ParseList(r *Ring, s string) ([]Poly, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []Poly
	depth, start := 0, 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if s[i] != ',' || depth != 0 {
				continue
			}
		}
		p, err := Parse(r, s[start:i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		start = i + 1
	}

	return out, nil
}

type parser struct {
	ring *Ring
	src  string
	pos  int
}

func (ps *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrParse, ps.pos, fmt.Sprintf(format, args...))
}

func (ps *parser) skip() {
	for ps.pos < len(ps.src) && strings.ContainsRune(" \t\r\n", rune(ps.src[ps.pos])) {
		ps.pos++
	}
}

func (ps *parser) peek() byte {
	ps.skip()
	if ps.pos < len(ps.src) {
		return ps.src[ps.pos]
	}

	return 0
}

func (ps *parser) expr() (Poly, error) {
	acc, err := ps.term()
	if err != nil {
		return Poly{}, err
	}
	for {
		switch ps.peek() {
		case '+':
			ps.pos++
			t, err := ps.term()
			if err != nil {
				return Poly{}, err
			}
			acc = acc.Add(t)
		case '-':
			ps.pos++
			t, err := ps.term()
			if err != nil {
				return Poly{}, err
			}
			acc = acc.Sub(t)
		default:
			return acc, nil
		}
	}
}

func (ps *parser) term() (Poly, error) {
	acc, err := ps.factor()
	if err != nil {
		return Poly{}, err
	}
	for {
		switch ps.peek() {
		case '*':
			ps.pos++
			f, err := ps.factor()
			if err != nil {
				return Poly{}, err
			}
			acc = acc.Mul(f)
		case '/':
			ps.pos++
			f, err := ps.factor()
			if err != nil {
				return Poly{}, err
			}
			if !f.IsConstant() {
				return Poly{}, ps.errorf("division by non-constant")
			}
			if f.IsZero() {
				return Poly{}, fmt.Errorf("%w at offset %d", ErrDivisionByZero, ps.pos)
			}
			acc = acc.Scale(new(big.Rat).Inv(f.ConstantValue()))
		default:
			return acc, nil
		}
	}
}

func (ps *parser) factor() (Poly, error) {
	switch ps.peek() {
	case '-':
		ps.pos++
		f, err := ps.factor()
		if err != nil {
			return Poly{}, err
		}
		return f.Neg(), nil
	case '+':
		ps.pos++
		return ps.factor()
	}
	base, err := ps.atom()
	if err != nil {
		return Poly{}, err
	}
	if ps.peek() != '^' {
		return base, nil
	}
	ps.pos++
	ps.skip()
	start := ps.pos
	for ps.pos < len(ps.src) && isDigit(ps.src[ps.pos]) {
		ps.pos++
	}
	if start == ps.pos {
		return Poly{}, ps.errorf("exponent expected")
	}
	var e int
	if _, err := fmt.Sscan(ps.src[start:ps.pos], &e); err != nil {
		return Poly{}, ps.errorf("bad exponent %q", ps.src[start:ps.pos])
	}

	return base.Pow(e), nil
}

func (ps *parser) atom() (Poly, error) {
	c := ps.peek()
	switch {
	case c == '(':
		ps.pos++
		p, err := ps.expr()
		if err != nil {
			return Poly{}, err
		}
		if ps.peek() != ')' {
			return Poly{}, ps.errorf("missing ')'")
		}
		ps.pos++
		return p, nil
	case isDigit(c):
		start := ps.pos
		for ps.pos < len(ps.src) && isDigit(ps.src[ps.pos]) {
			ps.pos++
		}
		v, _ := new(big.Rat).SetString(ps.src[start:ps.pos])
		return Const(ps.ring, v), nil
	case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		start := ps.pos
		for ps.pos < len(ps.src) && isIdentByte(ps.src[ps.pos]) {
			ps.pos++
		}
		name := ps.src[start:ps.pos]
		i, ok := ps.ring.Index(name)
		if !ok {
			return Poly{}, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
		}
		return Var(ps.ring, i), nil
	case c == 0:
		return Poly{}, ps.errorf("unexpected end of input")
	default:
		return Poly{}, ps.errorf("unexpected %q", c)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
