package subsets_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/desing/internal/subsets"
	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	got := subsets.All(4, 2)
	want := [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("All(4,2) mismatch (-want +got):\n%s", d)
	}
	assert.Len(t, subsets.All(3, 0), 1)
	assert.Nil(t, subsets.All(2, 3))
}

func TestComplement(t *testing.T) {
	assert.Equal(t, []int{1, 3}, subsets.Complement(4, []int{0, 2}))
	assert.Empty(t, subsets.Complement(2, []int{0, 1}))
}
