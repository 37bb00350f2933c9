package poly_test

import (
	"testing"

	"github.com/katalvlaran/desing/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJacobian_Det checks a 2×2 Jacobian determinant.
func TestJacobian_Det(t *testing.T) {
	r := poly.MustRing("x", "y")
	fs, err := poly.ParseList(r, "x*y, x+y")
	require.NoError(t, err)

	j := poly.Jacobian(r, fs)
	assert.Equal(t, 2, j.Rows())
	assert.Equal(t, 2, j.Cols())

	d, err := j.Det()
	require.NoError(t, err)
	assert.Equal(t, "-x+y", d.String())
}

// TestAdjugate_Identity verifies adj(M)·M = det(M)·I on a 3×3 matrix.
func TestAdjugate_Identity(t *testing.T) {
	r := poly.MustRing("x", "y", "z")
	fs, err := poly.ParseList(r, "x^2+y*z, x*y*z-1, x+y^2+z^3")
	require.NoError(t, err)
	m := poly.Jacobian(r, fs)

	adj, err := m.Adjugate()
	require.NoError(t, err)
	prod, err := adj.Mul(m)
	require.NoError(t, err)
	det, err := m.Det()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			e, err := prod.At(i, j)
			require.NoError(t, err)
			if i == j {
				assert.True(t, e.Equal(det), "diagonal %d", i)
			} else {
				assert.True(t, e.IsZero(), "off-diagonal %d,%d", i, j)
			}
		}
	}
}

// TestMatrix_Errors checks shape validation.
func TestMatrix_Errors(t *testing.T) {
	r := poly.MustRing("x")
	m, err := poly.NewMatrix(r, 2, 3)
	require.NoError(t, err)

	_, err = m.Det()
	assert.ErrorIs(t, err, poly.ErrNonSquare)
	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, poly.ErrOutOfRange)
	_, err = m.Mul(m)
	assert.ErrorIs(t, err, poly.ErrDimensionMismatch)

	minor, err := poly.Jacobian(r, []poly.Poly{poly.MustParse(r, "x^3")}).Minor([]int{0}, []int{0})
	require.NoError(t, err)
	assert.Equal(t, "3*x^2", minor.String())
}
