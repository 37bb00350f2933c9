// SPDX-License-Identifier: MIT

// Package subsets enumerates k-element index subsets in lexicographic order.
package subsets

// All returns every k-subset of {0..n-1}, each ascending, in lexicographic
// order. k > n or k < 0 yields nil; k == 0 yields one empty subset.
// Complexity: O(C(n,k)·k).
func All(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	var out [][]int
	cur := make([]int, k)
	var rec func(pos, from int)
	rec = func(pos, from int) {
		if pos == k {
			s := make([]int, k)
			copy(s, cur)
			out = append(out, s)
			return
		}
		for i := from; i <= n-(k-pos); i++ {
			cur[pos] = i
			rec(pos+1, i+1)
		}
	}
	rec(0, 0)

	return out
}

// Complement returns the indices of {0..n-1} not in s (s ascending).
func Complement(n int, s []int) []int {
	out := make([]int, 0, n-len(s))
	j := 0
	for i := 0; i < n; i++ {
		if j < len(s) && s[j] == i {
			j++
			continue
		}
		out = append(out, i)
	}

	return out
}
