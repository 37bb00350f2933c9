// SPDX-License-Identifier: MIT

package resolve

import (
	"fmt"

	"github.com/katalvlaran/desing/poly"
)

// ComposeMap returns the images of the input variables in the ring of
// chart h, composing the LastMap of every chart on the path from the root.
// The result agrees with the chart's Pullback.
func (t *Tree) ComposeMap(h int) ([]poly.Poly, error) {
	if h < 0 || h >= len(t.All) {
		return nil, fmt.Errorf("ComposeMap(%d): no such chart", h)
	}
	root := t.All[0]
	images := poly.Identity(root.BO.Ring)
	ch := t.All[h]
	for i := range ch.Path {
		next := h
		if i+1 < len(ch.Path) {
			next = ch.Path[i+1].Parent
		}
		c := t.All[next]
		images = poly.ComposeMaps(c.BO.Ring, images, c.LastMap)
	}

	return images, nil
}

// Charts returns the terminal charts in handle order.
func (t *Tree) Charts() []*Chart {
	out := make([]*Chart, len(t.Terminal))
	for i, h := range t.Terminal {
		out[i] = t.All[h]
	}

	return out
}

// Parent returns the handle of the parent of chart h, -1 for the root.
func (t *Tree) Parent(h int) int {
	p := t.All[h].Path
	if len(p) == 0 {
		return -1
	}

	return p[len(p)-1].Parent
}
