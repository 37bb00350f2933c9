// SPDX-License-Identifier: MIT

// Command desing resolves the singularities of affine varieties.
//
//	desing resolve --vars x,y --ideal "x^2-y^3"
//	desing center  --vars x,y,z --ideal "x^2-y^2*z"
//	desing blowup  --vars x,y --ideal "x^2-y^3" --center "x,y"
//	desing delta   --vars x,y --ideal "x^2-y^3"
//
// Settings may come from a YAML file (--config, any viant/afs URL); flags
// given on the command line override the file. Results are YAML reports
// written to stdout or to --out.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
