package groebner_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/desing/groebner"
	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// ExampleProvider_Std computes the first Delta step of the cusp by hand:
// the cusp equation together with its partial derivatives.
func ExampleProvider_Std() {
	r := poly.MustRing("x", "y")
	I := ideal.MustParse(r, "x^2-y^3, 2*x, -3*y^2")

	G, err := groebner.New().Std(context.Background(), I)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(G)
	// Output:
	// x,y^2
}
