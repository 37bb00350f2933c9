// SPDX-License-Identifier: MIT

package resolve

import (
	"github.com/google/uuid"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// Meet records what is known about a divisor meeting the variety.
type Meet int

const (
	// MeetUnknown means the divisor may meet the variety.
	MeetUnknown Meet = iota
	// MeetNever means the divisor provably does not meet the variety.
	MeetNever
)

// BasicObject is the state of one chart.
//
// Origin[0] is the number of divisors present when the current order first
// appeared (-1 while not fixed); Divisors[:Origin[0]] is E⁻. Further
// entries of Order, Origin and Witness belong to the levels of the Coeff
// recursion.
type BasicObject struct {
	Ring          *poly.Ring
	Ambient       ideal.Ideal
	Variety       ideal.Ideal
	Order         []int
	Divisors      []ideal.Ideal
	Pullback      []poly.Poly
	Meets         []Meet
	Origin        []int
	Intersections [][]bool
	Witness       []int
	Pending       []StoredCenter
	SatCache      []int

	// Hints for singular locus computations.
	Equidimensional bool
	Hypersurface    bool
}

// StoredCenter is a component of a decomposed center waiting to be used in
// a later chart.
type StoredCenter struct {
	Ideal   ideal.Ideal
	Origin  []int
	Order   []int
	Witness []int
}

// Center is a chosen center with its invariant vectors.
type Center struct {
	Ideal  ideal.Ideal
	Origin []int
	Order  []int
	Counts []int
}

// Config carries the optional parts of a BasicObject built from scratch.
type Config struct {
	// Ambient is the ambient space ideal; the zero value means the whole space.
	Ambient ideal.Ideal
	// Divisors are smooth hypersurfaces treated as exceptional divisors.
	Divisors []ideal.Ideal
	// OrderHint seeds Order[0].
	OrderHint int
}

// Step is one edge of an ancestry path: the parent chart and the position
// of the child among its siblings.
type Step struct {
	Parent   int
	Position int
}

// Chart is one node of the resolution tree.
type Chart struct {
	Handle int
	BO     BasicObject
	Path   []Step
	// LastMap holds the images of the parent ring's variables in this chart.
	LastMap []poly.Poly
	// Center is the center chosen in this chart; zero for terminal charts
	// whose center equals the variety.
	Center ideal.Ideal
	// Invariant is the invariant triple of the center.
	Invariant Center
	Terminal  bool
	// LocalMarker is a polynomial not vanishing at the point being resolved,
	// set in local mode only.
	LocalMarker *poly.Poly
}

// Locality tells how a run treated the origin.
type Locality int

const (
	// LocalityGlobal: the whole variety was resolved.
	LocalityGlobal Locality = iota
	// LocalityIsolated: the origin is an isolated singular point and other
	// singular points exist; centers were chosen inside the exceptional locus.
	LocalityIsolated
	// LocalityMarked: the origin lies on a positive dimensional component
	// of the singular locus and some component misses it; every chart is
	// localized at a marker not vanishing over the origin.
	LocalityMarked
)

// Tree is the arena of all charts of one run; All is indexed by handle.
type Tree struct {
	RunID    uuid.UUID
	Input    ideal.Ideal
	Locality Locality
	All      []*Chart
	Terminal []int
}

// ChartData is one chart produced by BlowUp.
type ChartData struct {
	BO          BasicObject
	LastMap     []poly.Poly
	LocalMarker *poly.Poly
}

// Clone returns a copy that shares no slices with bo.
func (bo BasicObject) Clone() BasicObject {
	out := bo
	out.Order = cloneInts(bo.Order)
	out.Origin = cloneInts(bo.Origin)
	out.Witness = cloneInts(bo.Witness)
	out.SatCache = cloneInts(bo.SatCache)
	out.Divisors = append([]ideal.Ideal(nil), bo.Divisors...)
	out.Pullback = append([]poly.Poly(nil), bo.Pullback...)
	out.Meets = append([]Meet(nil), bo.Meets...)
	for len(out.Meets) < len(out.Divisors) {
		out.Meets = append(out.Meets, MeetUnknown)
	}
	out.Intersections = make([][]bool, len(bo.Intersections))
	for i, row := range bo.Intersections {
		out.Intersections[i] = append([]bool(nil), row...)
	}
	out.Pending = make([]StoredCenter, len(bo.Pending))
	for i, sc := range bo.Pending {
		out.Pending[i] = sc.clone()
	}

	return out
}

// mapTo applies x_i ↦ images[i] to every ideal and to the pullback.
func (bo BasicObject) mapTo(target *poly.Ring, images []poly.Poly) BasicObject {
	out := bo.Clone()
	out.Ring = target
	out.Ambient = bo.Ambient.Map(target, images)
	out.Variety = bo.Variety.Map(target, images)
	for i, E := range bo.Divisors {
		out.Divisors[i] = E.Map(target, images)
	}
	for i, p := range bo.Pullback {
		out.Pullback[i] = p.Map(target, images)
	}
	for i, sc := range bo.Pending {
		out.Pending[i].Ideal = sc.Ideal.Map(target, images)
	}

	return out
}

// transfer moves every ideal into target by variable name.
func (bo BasicObject) transfer(target *poly.Ring) (BasicObject, error) {
	images := make([]poly.Poly, bo.Ring.NVars())
	for i := range images {
		j, ok := target.Index(bo.Ring.Var(i))
		if !ok {
			return BasicObject{}, poly.ErrUnknownVariable
		}
		images[i] = poly.Var(target, j)
	}

	return bo.mapTo(target, images), nil
}

// intersects reports the stored value of Intersections[i][j] for i < j.
func (bo BasicObject) intersects(i, j int) bool {
	if i > j {
		i, j = j, i
	}
	if i >= len(bo.Intersections) || j >= len(bo.Intersections[i]) {
		return false
	}

	return bo.Intersections[i][j]
}

func (sc StoredCenter) clone() StoredCenter {
	return StoredCenter{
		Ideal:   sc.Ideal,
		Origin:  cloneInts(sc.Origin),
		Order:   cloneInts(sc.Order),
		Witness: cloneInts(sc.Witness),
	}
}

func (c Center) clone() Center {
	return Center{Ideal: c.Ideal, Origin: cloneInts(c.Origin), Order: cloneInts(c.Order), Counts: cloneInts(c.Counts)}
}

func cloneInts(v []int) []int {
	if v == nil {
		return nil
	}

	return append([]int(nil), v...)
}

// head returns v[0], or def for an empty vector.
func head(v []int, def int) int {
	if len(v) == 0 {
		return def
	}

	return v[0]
}

// tail returns v without its first entry, or [def] when nothing remains.
func tail(v []int, def int) []int {
	if len(v) <= 1 {
		return []int{def}
	}

	return cloneInts(v[1:])
}

// prepend returns [x] followed by v.
func prepend(x int, v []int) []int {
	return append([]int{x}, v...)
}
