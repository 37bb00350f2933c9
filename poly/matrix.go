// SPDX-License-Identifier: MIT

package poly

import "fmt"

// Matrix is a dense row-major matrix of polynomials over one ring.
type Matrix struct {
	ring *Ring
	r, c int
	data []Poly
}

// matrixErrorf wraps an error with Matrix method context.
func matrixErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Matrix.%s(%d,%d): %w", method, row, col, err)
}

// NewMatrix returns an r×c zero matrix.
// Stage 1 (Validate): r, c ≥ 0.
// Stage 2 (Prepare): fill with zero polynomials of ring.
// Complexity: O(r·c).
func NewMatrix(ring *Ring, r, c int) (*Matrix, error) {
	if r < 0 || c < 0 {
		return nil, matrixErrorf("New", r, c, ErrDimensionMismatch)
	}
	m := &Matrix{ring: ring, r: r, c: c, data: make([]Poly, r*c)}
	for i := range m.data {
		m.data[i] = Zero(ring)
	}

	return m, nil
}

// Jacobian returns the matrix (∂f_i/∂x_j): one row per polynomial, one
// column per variable of ring.
func Jacobian(ring *Ring, fs []Poly) *Matrix {
	n := ring.NVars()
	m, _ := NewMatrix(ring, len(fs), n)
	for i, f := range fs {
		for j := 0; j < n; j++ {
			m.data[i*n+j] = f.Diff(j)
		}
	}

	return m
}

// Ring returns the ring of the entries.
func (m *Matrix) Ring() *Ring { return m.ring }

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.r }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.c }

// At returns entry (i, j).
func (m *Matrix) At(i, j int) (Poly, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return Poly{}, matrixErrorf("At", i, j, ErrOutOfRange)
	}

	return m.data[i*m.c+j], nil
}

// Set stores entry (i, j).
func (m *Matrix) Set(i, j int, p Poly) error {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return matrixErrorf("Set", i, j, ErrOutOfRange)
	}
	m.data[i*m.c+j] = p

	return nil
}

func (m *Matrix) at(i, j int) Poly { return m.data[i*m.c+j] }

// Entries returns all entries in row-major order.
func (m *Matrix) Entries() []Poly {
	out := make([]Poly, len(m.data))
	copy(out, m.data)

	return out
}

// Submatrix returns the matrix formed by the selected rows and columns.
func (m *Matrix) Submatrix(rows, cols []int) (*Matrix, error) {
	out, _ := NewMatrix(m.ring, len(rows), len(cols))
	for a, i := range rows {
		for b, j := range cols {
			if i < 0 || i >= m.r || j < 0 || j >= m.c {
				return nil, matrixErrorf("Submatrix", i, j, ErrOutOfRange)
			}
			out.data[a*out.c+b] = m.at(i, j)
		}
	}

	return out, nil
}

// Mul returns m·o.
func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.c != o.r {
		return nil, matrixErrorf("Mul", m.c, o.r, ErrDimensionMismatch)
	}
	out, _ := NewMatrix(m.ring, m.r, o.c)
	for i := 0; i < m.r; i++ {
		for j := 0; j < o.c; j++ {
			s := Zero(m.ring)
			for k := 0; k < m.c; k++ {
				s = s.Add(m.at(i, k).Mul(o.at(k, j)))
			}
			out.data[i*out.c+j] = s
		}
	}

	return out, nil
}

// Det returns the determinant by cofactor expansion along the first row.
// Stage 1 (Validate): square matrix.
// Stage 2 (Execute): recursive expansion, skipping zero entries.
// Complexity: O(k!) for k×k.
func (m *Matrix) Det() (Poly, error) {
	if m.r != m.c {
		return Poly{}, matrixErrorf("Det", m.r, m.c, ErrNonSquare)
	}
	idx := make([]int, m.r)
	for i := range idx {
		idx[i] = i
	}

	return m.det(idx, idx), nil
}

func (m *Matrix) det(rows, cols []int) Poly {
	k := len(rows)
	switch k {
	case 0:
		return One(m.ring)
	case 1:
		return m.at(rows[0], cols[0])
	case 2:
		return m.at(rows[0], cols[0]).Mul(m.at(rows[1], cols[1])).
			Sub(m.at(rows[0], cols[1]).Mul(m.at(rows[1], cols[0])))
	}
	sum := Zero(m.ring)
	for b := range cols {
		e := m.at(rows[0], cols[b])
		if e.IsZero() {
			continue
		}
		minor := m.det(rows[1:], without(cols, b))
		if b%2 == 1 {
			minor = minor.Neg()
		}
		sum = sum.Add(e.Mul(minor))
	}

	return sum
}

// Minor returns the determinant of the selected square submatrix.
func (m *Matrix) Minor(rows, cols []int) (Poly, error) {
	if len(rows) != len(cols) {
		return Poly{}, matrixErrorf("Minor", len(rows), len(cols), ErrNonSquare)
	}
	for _, i := range rows {
		if i < 0 || i >= m.r {
			return Poly{}, matrixErrorf("Minor", i, 0, ErrOutOfRange)
		}
	}
	for _, j := range cols {
		if j < 0 || j >= m.c {
			return Poly{}, matrixErrorf("Minor", 0, j, ErrOutOfRange)
		}
	}

	return m.det(rows, cols), nil
}

// Adjugate returns adj(m), so that adj(m)·m = det(m)·I.
// Complexity: O(k²·(k-1)!) for k×k.
func (m *Matrix) Adjugate() (*Matrix, error) {
	if m.r != m.c {
		return nil, matrixErrorf("Adjugate", m.r, m.c, ErrNonSquare)
	}
	k := m.r
	out, _ := NewMatrix(m.ring, k, k)
	if k == 1 {
		out.data[0] = One(m.ring)
		return out, nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			c := m.det(without(idx, i), without(idx, j))
			if (i+j)%2 == 1 {
				c = c.Neg()
			}
			// cofactor (i,j) lands at (j,i)
			out.data[j*k+i] = c
		}
	}

	return out, nil
}

func without(s []int, pos int) []int {
	out := make([]int, 0, len(s)-1)
	out = append(out, s[:pos]...)

	return append(out, s[pos+1:]...)
}
