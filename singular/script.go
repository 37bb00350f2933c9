// SPDX-License-Identifier: MIT

package singular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

const (
	beginMarker = "@@BEGIN"
	endMarker   = "@@END"
)

// script accumulates one Singular program. Identifiers introduced by the
// script start with '@' so they cannot collide with ring variables.
type script struct {
	libs []string
	decl strings.Builder
	body strings.Builder
	ring *poly.Ring
}

func newScript(r *poly.Ring) (*script, error) {
	if r.NVars() == 0 {
		return nil, ErrNoVariables
	}

	return &script{ring: r}, nil
}

// lib loads a Singular library once.
func (s *script) lib(name string) *script {
	for _, l := range s.libs {
		if l == name {
			return s
		}
	}
	s.libs = append(s.libs, name)

	return s
}

// declareIdeal declares name as I.
func (s *script) declareIdeal(name string, I ideal.Ideal) *script {
	gens := "0"
	if !I.IsZero() {
		gens = poly.FormatList(I.Gens())
	}
	fmt.Fprintf(&s.decl, "ideal %s = %s;\n", name, gens)

	return s
}

// declarePoly declares name as p.
func (s *script) declarePoly(name string, p poly.Poly) *script {
	fmt.Fprintf(&s.decl, "poly %s = %s;\n", name, p.String())

	return s
}

// line appends one statement to the body.
func (s *script) line(format string, args ...any) *script {
	fmt.Fprintf(&s.body, format, args...)
	s.body.WriteByte('\n')

	return s
}

// printString appends print(string(expr)).
func (s *script) printString(expr string) *script {
	return s.line("print(string(%s));", expr)
}

// varProduct returns the product of the given ring variables.
func varProduct(r *poly.Ring, vars []int) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = r.Var(v)
	}

	return strings.Join(names, "*")
}

// String renders the complete program.
func (s *script) String() string {
	var b strings.Builder
	for _, l := range s.libs {
		fmt.Fprintf(&b, "LIB %q;\n", l)
	}
	b.WriteString("option(redSB);\noption(redTail);\n")
	fmt.Fprintf(&b, "ring @R = 0, (%s), dp;\n", strings.Join(s.ring.Vars(), ","))
	b.WriteString("short = 0;\nint @i;\n")
	b.WriteString(s.decl.String())
	fmt.Fprintf(&b, "print(%q);\n", beginMarker)
	b.WriteString(s.body.String())
	fmt.Fprintf(&b, "print(%q);\n", endMarker)

	return b.String()
}

// output is the list of lines printed between the markers.
type output struct {
	lines []string
	pos   int
}

func parseOutput(raw string) (*output, error) {
	var lines []string
	inside, closed := false, false
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		switch {
		case l == beginMarker:
			inside = true
		case l == endMarker:
			if inside {
				closed = true
			}
			inside = false
		case inside:
			lines = append(lines, l)
		}
	}
	if !closed {
		return nil, fmt.Errorf("%w: result markers missing", ErrOutput)
	}

	return &output{lines: lines}, nil
}

func (o *output) next() (string, error) {
	if o.pos >= len(o.lines) {
		return "", fmt.Errorf("%w: %d lines, wanted more", ErrOutput, len(o.lines))
	}
	l := o.lines[o.pos]
	o.pos++

	return l, nil
}

func (o *output) readIdeal(r *poly.Ring) (ideal.Ideal, error) {
	l, err := o.next()
	if err != nil {
		return ideal.Ideal{}, err
	}
	I, err := ideal.Parse(r, l)
	if err != nil {
		return ideal.Ideal{}, fmt.Errorf("%w: %v", ErrOutput, err)
	}

	return I, nil
}

func (o *output) readPoly(r *poly.Ring) (poly.Poly, error) {
	l, err := o.next()
	if err != nil {
		return poly.Poly{}, err
	}
	p, err := poly.Parse(r, l)
	if err != nil {
		return poly.Poly{}, fmt.Errorf("%w: %v", ErrOutput, err)
	}

	return p, nil
}

func (o *output) readInt() (int, error) {
	l, err := o.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(l)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOutput, err)
	}

	return n, nil
}
