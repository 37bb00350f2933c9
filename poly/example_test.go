package poly_test

import (
	"fmt"

	"github.com/katalvlaran/desing/poly"
)

// ExampleParse reads the cusp and prints its partial derivatives.
func ExampleParse() {
	r := poly.MustRing("x", "y")
	f, err := poly.Parse(r, "x^2-y^3")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(f)
	fmt.Println(f.Diff(0), f.Diff(1))
	// Output:
	// -y^3+x^2
	// 2*x -3*y^2
}
