package resolve_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/desing/groebner"
	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
	"github.com/katalvlaran/desing/resolve"
)

// ExampleResolve resolves a smooth line: the input is already resolved.
func ExampleResolve() {
	k, err := ideal.NewKernel(groebner.New())
	if err != nil {
		fmt.Println(err)
		return
	}
	r := poly.MustRing("x", "y")

	tree, err := resolve.Resolve(context.Background(), k, ideal.MustParse(r, "x-y"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(tree.All), tree.Terminal)
	// Output:
	// 1 [0]
}

// ExampleDeltaList measures the order of the cusp.
func ExampleDeltaList() {
	k, _ := ideal.NewKernel(groebner.New())
	r := poly.MustRing("x", "y")
	bo, _ := resolve.NewBasicObject(ideal.MustParse(r, "x^2-y^3"), resolve.Config{})

	L, err := resolve.DeltaList(context.Background(), k, bo)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("order:", len(L))
	// Output:
	// order: 2
}
