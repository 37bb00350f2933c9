// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// BlowUp blows up bo along the smooth center C and returns the surviving
// affine charts. A zero or unit center returns bo unchanged as the only
// chart.
func BlowUp(ctx context.Context, k *ideal.Kernel, bo BasicObject, C ideal.Ideal, opts ...Option) ([]ChartData, error) {
	out, err := newEngine(k, opts).blowUp(ctx, bo, C, nil)

	return out, canceled(err)
}

// affineChart is the working state of chart y_i = 1 before pruning.
type affineChart struct {
	bo  BasicObject
	laM []poly.Poly // images of the renamed coordinates
	// singular locus of the variety, used by the aggressive pass
	sing    ideal.Ideal
	empty   bool
	extra   bool
	deleted bool
}

// blowUp
// Stage 1 (Minimize): solve linear generators of W (and of J when W is
// zero) and drop unused variables, unless charts are kept for divisor
// bookkeeping.
// Stage 2 (Rees algebra): rename to x1..xn; W' = (W + (y_i − t·C_i)) ∩
// K[x, y]; old divisors by strict transform; the intersection matrix.
// Stage 3 (Charts): y_i = 1, weak transform of J by saturation with the
// exceptional divisor, redundancy against the other charts.
// Stage 4 (Prune): aggressive pass, keep rules for divisor bookkeeping.
// Stage 5 (Clean up): minimize again, interreduce, meets flags, stored
// centers, maps.
// Complexity: one elimination for the Rees algebra plus O(s·|E|)
// saturations and standard bases, s the number of generators of C.
func (e *engine) blowUp(ctx context.Context, bo BasicObject, C ideal.Ideal, marker *poly.Poly) ([]ChartData, error) {
	r0 := bo.Ring
	if C.IsZero() || C.Gen(0).IsConstant() {
		return []ChartData{{BO: bo.Clone(), LastMap: poly.Identity(r0), LocalMarker: marker}}, nil
	}
	noDel := e.opts.Pruning == PruneKeepAll
	keepDiv := e.opts.Pruning == PruneKeepDivisorPairs
	aggressive := e.opts.Pruning == PruneAggressive
	eq, hy := bo.Equidimensional, bo.Hypersurface

	cur := bo.Clone()
	toR := poly.Identity(r0)
	if !noDel && !keepDiv {
		var err error
		if cur, C, toR, err = e.minimize(ctx, cur, C, toR); err != nil {
			return nil, err
		}
		extraK := append([]ideal.Ideal{C}, cur.Divisors...)
		cur, C, toR = dropUnused(cur, C, toR, extraK)
	}

	n := cur.Ring.NVars()
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i+1)
	}
	R, err := poly.NewRing(names...)
	if err != nil {
		return nil, err
	}
	ren := make([]poly.Poly, n)
	for i := range ren {
		ren[i] = poly.Var(R, i)
	}
	cur = cur.mapTo(R, ren)
	C = C.Map(R, ren)
	toR = poly.ComposeMaps(R, toR, ren)
	if C, err = e.centerGens(ctx, C); err != nil {
		return nil, err
	}
	s := C.Len()

	ys := make([]string, s)
	for i := range ys {
		ys[i] = fmt.Sprintf("y%d", i)
	}
	S, err := R.Extend(ys...)
	if err != nil {
		return nil, err
	}
	T, err := S.Extend("t")
	if err != nil {
		return nil, err
	}
	tv := poly.Var(T, T.NVars()-1)
	rees := cur.Ambient.MustTransfer(T)
	for i, c := range C.Gens() {
		rees = rees.Add(poly.Var(T, n+i).Sub(tv.Mul(c.MustTransfer(T))))
	}
	WT, err := e.k.Eliminate(ctx, rees, []int{T.NVars() - 1})
	if err != nil {
		return nil, err
	}
	W := WT.MustTransfer(S)
	base, err := cur.transfer(S)
	if err != nil {
		return nil, err
	}
	Ex := C.MustTransfer(S)
	J := base.Variety.Sum(W)

	m := len(base.Divisors)
	E1 := make([]ideal.Ideal, m+1)
	for j, Ej := range base.Divisors {
		if E1[j], err = e.sat(ctx, Ej.Sum(W), Ex); err != nil {
			return nil, err
		}
	}
	E1[m] = Ex
	inter, err := e.intersectionMatrix(ctx, cur, E1)
	if err != nil {
		return nil, err
	}
	if e.traces(TraceBlowUp) {
		e.log.Debug("blow-up",
			zap.Stringer("center", C),
			zap.Stringer("ambient", W),
			zap.Stringer("variety", J))
	}

	charts := make([]*affineChart, s)
	active := make([]bool, s)
	for i := range active {
		active[i] = true
	}
	ma := func() ideal.Ideal {
		var gens []poly.Poly
		for j, a := range active {
			if a {
				gens = append(gens, poly.Var(S, n+j))
			}
		}
		return ideal.New(S, gens...)
	}
	for i := 0; i < s; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := e.affineChart(ctx, base, W, J, Ex, E1, inter, n, i)
		if err != nil {
			return nil, err
		}
		charts[i] = c
		if c.empty {
			c.deleted = true
			continue
		}
		active[i] = false
		if err := e.redundant(ctx, c, ma(), eq, hy); err != nil {
			return nil, err
		}
		if !c.deleted {
			active[i] = true
		}
	}

	if aggressive {
		for i, c := range charts {
			if c.deleted || !c.extra {
				continue
			}
			active[i] = false
			if c.deleted, err = e.uninteresting(ctx, c, ma()); err != nil {
				return nil, err
			}
			if !c.deleted {
				active[i] = true
			}
		}
		all := true
		for _, c := range charts {
			all = all && c.deleted
		}
		if all {
			for i := s - 1; i >= 0; i-- {
				if !charts[i].empty {
					charts[i].deleted = false
					break
				}
			}
		}
	}

	var out []ChartData
	for i, c := range charts {
		if c.empty {
			continue
		}
		if noDel {
			c.deleted = false
		}
		if c.deleted && keepDiv {
			if c.deleted, err = e.onlyWitness(ctx, charts, i); err != nil {
				return nil, err
			}
		}
		if c.deleted {
			continue
		}
		cd, err := e.finishChart(ctx, c, toR, marker, !keepDiv && !noDel)
		if err != nil {
			return nil, err
		}
		if e.traces(TraceBlowUp) {
			e.log.Debug("chart added",
				zap.Int("position", i),
				zap.Stringer("ring", cd.BO.Ring),
				zap.Stringer("variety", cd.BO.Variety))
		}
		out = append(out, cd)
	}

	return out, nil
}

// minimize solves the linear generators of W and substitutes. With W
// then zero, linear generators of J are solved too, provided the solved
// variables do not occur in the divisors.
func (e *engine) minimize(ctx context.Context, bo BasicObject, C ideal.Ideal, toR []poly.Poly) (BasicObject, ideal.Ideal, []poly.Poly, error) {
	r := bo.Ring
	if el := ideal.ElimPart(bo.Ambient); len(el.Eliminated) > 0 {
		bo = bo.mapTo(r, el.Images)
		C = C.Map(r, el.Images)
		toR = poly.ComposeMaps(r, toR, el.Images)
	}
	if !bo.Ambient.IsZero() {
		return bo, C, toR, nil
	}
	dv, err := e.divisorVars(ctx, bo.Divisors, false)
	if err != nil {
		return bo, C, toR, err
	}
	if el := ideal.ElimPart(bo.Variety); len(el.Eliminated) > 0 && disjoint(el.Eliminated, dv) {
		bo = bo.mapTo(r, el.Images)
		C = C.Map(r, el.Images)
		toR = poly.ComposeMaps(r, toR, el.Images)
	}

	return bo, C, toR, nil
}

// divisorVars returns the variables occurring in the divisors; with std
// set, unit divisors are skipped and standard bases are inspected.
func (e *engine) divisorVars(ctx context.Context, E []ideal.Ideal, std bool) ([]int, error) {
	if len(E) == 0 {
		return nil, nil
	}
	all := ideal.Zero(E[0].Ring())
	for _, Ej := range E {
		if std {
			G, err := e.std(ctx, Ej)
			if err != nil {
				return nil, err
			}
			if isOne(G) {
				continue
			}
			Ej = G
		}
		all = all.Sum(Ej)
	}

	return all.Vars(), nil
}

// dropUnused restricts the ring to the variables occurring in W, J and
// the extra ideals; the others are set to zero.
func dropUnused(bo BasicObject, C ideal.Ideal, toR []poly.Poly, extra []ideal.Ideal) (BasicObject, ideal.Ideal, []poly.Poly) {
	r := bo.Ring
	K := bo.Ambient.Sum(bo.Variety)
	for _, I := range extra {
		K = K.Sum(I)
	}
	keep := K.Vars()
	if len(keep) == r.NVars() {
		return bo, C, toR
	}
	target, images := restriction(r, keep)

	return bo.mapTo(target, images), C.Map(target, images), poly.ComposeMaps(target, toR, images)
}

// restriction returns the ring on keep and the map sending the other
// variables to zero.
func restriction(r *poly.Ring, keep []int) (*poly.Ring, []poly.Poly) {
	target := r.Restrict(keep)
	images := make([]poly.Poly, r.NVars())
	for i := range images {
		images[i] = poly.Zero(target)
	}
	for a, i := range keep {
		images[i] = poly.Var(target, a)
	}

	return target, images
}

// centerGens returns the standard basis of C when it is not longer than
// the minimal generators, the interreduced minimal generators otherwise.
func (e *engine) centerGens(ctx context.Context, C ideal.Ideal) (ideal.Ideal, error) {
	G, err := e.std(ctx, C)
	if err != nil {
		return ideal.Ideal{}, err
	}
	M, err := e.k.MinimalGenerators(ctx, C)
	if err != nil {
		return ideal.Ideal{}, err
	}
	if G.Len() <= M.Len() {
		return G, nil
	}

	return e.k.Interred(ctx, M)
}

// intersectionMatrix records which pairs of transformed divisors meet.
// Pairs involving a divisor that became empty keep their old entry.
func (e *engine) intersectionMatrix(ctx context.Context, old BasicObject, E1 []ideal.Ideal) ([][]bool, error) {
	m1 := len(E1)
	unit := make([]bool, m1)
	for j, Ej := range E1 {
		u, err := e.isUnit(ctx, Ej)
		if err != nil {
			return nil, err
		}
		unit[j] = u
	}
	inter := make([][]bool, m1)
	for j := range inter {
		inter[j] = make([]bool, m1)
	}
	for j := 0; j < m1-1; j++ {
		for l := j + 1; l < m1; l++ {
			if unit[j] || unit[l] {
				if l < m1-1 {
					inter[j][l] = old.intersects(j, l)
				}
				continue
			}
			U, err := e.std(ctx, E1[l].Sum(E1[j]))
			if err != nil {
				return nil, err
			}
			d, err := e.dim(ctx, U)
			if err != nil {
				return nil, err
			}
			inter[j][l] = d > 0
		}
	}

	return inter, nil
}

// affineChart builds chart y_i = 1: ambient, total transform, divisors,
// then substitution of solvable variables and the weak transform.
func (e *engine) affineChart(ctx context.Context, base BasicObject, W, J, Ex ideal.Ideal, E1 []ideal.Ideal,
	inter [][]bool, n, i int) (*affineChart, error) {
	S := base.Ring
	yi := n + i
	one := poly.One(S)
	Wi, err := e.std(ctx, W.Subst(yi, one))
	if err != nil {
		return nil, err
	}
	if isOne(Wi) {
		return &affineChart{empty: true}, nil
	}

	b := base.Clone()
	b.Ambient = Wi
	b.Variety = J.Subst(yi, one)
	b.Divisors = make([]ideal.Ideal, len(E1))
	for j := 0; j < len(E1)-1; j++ {
		b.Divisors[j] = E1[j].Subst(yi, one)
	}
	b.Divisors[len(E1)-1] = Ex.Sum(Wi)
	b.Meets = make([]Meet, len(E1))
	b.Intersections = inter

	laM := make([]poly.Poly, n)
	for k := range laM {
		laM[k] = poly.Var(S, k)
	}
	psi := poly.Identity(S)
	if el := ideal.ElimPart(b.Ambient); len(el.Eliminated) > 0 {
		psi = el.Images
		b = b.mapTo(S, psi)
		laM = poly.ComposeMaps(S, laM, psi)
	}
	Ep, err := e.std(ctx, Ex.Map(S, psi))
	if err != nil {
		return nil, err
	}
	if b.Variety, err = e.sat(ctx, b.Variety, Ep); err != nil {
		return nil, err
	}

	return &affineChart{bo: b, laM: laM}, nil
}

// redundant marks c deleted when its variety lies in the union of the
// other charts (V(MA) is the complement of that union). For
// equidimensional input a chart whose singular locus lies there and whose
// divisors meet the variety only there is deleted as well.
func (e *engine) redundant(ctx context.Context, c *affineChart, MA ideal.Ideal, eq, hy bool) error {
	b := &c.bo
	JJ, err := e.std(ctx, b.Variety.Sum(MA))
	if err != nil {
		return err
	}
	if isOne(JJ) {
		c.deleted = true
		return nil
	}
	if !eq {
		return nil
	}
	dJJ, err := e.dim(ctx, JJ)
	if err != nil {
		return err
	}
	dJ, err := e.dim(ctx, b.Variety)
	if err != nil {
		return err
	}
	if dJJ >= dJ {
		return nil
	}
	c.extra = true
	if head(b.Order, 0) <= 1 && hy {
		c.sing = ideal.Unit(b.Ring)
	} else {
		if b.Variety, err = e.k.MinimalGenerators(ctx, b.Variety); err != nil {
			return err
		}
		if c.sing, err = e.k.SingularLocus(ctx, b.Variety, true); err != nil {
			return err
		}
	}
	inside, err := e.isUnit(ctx, c.sing.Sum(MA))
	if err != nil || !inside {
		return err
	}
	for _, Ej := range b.Divisors {
		u, err := e.isUnit(ctx, b.Variety.Sum(Ej).Sum(MA))
		if err != nil {
			return err
		}
		if !u {
			return nil
		}
	}
	c.deleted = true

	return nil
}

// uninteresting is the aggressive test: the singular locus lies in the
// other charts and the divisors meeting the variety outside them do so
// transversally and in normal crossings.
func (e *engine) uninteresting(ctx context.Context, c *affineChart, MA ideal.Ideal) (bool, error) {
	b := c.bo
	inside, err := e.isUnit(ctx, c.sing.Sum(MA))
	if err != nil || !inside {
		return false, err
	}
	crossing := false
	for _, Ej := range b.Divisors {
		u, err := e.isUnit(ctx, b.Variety.Sum(Ej).Sum(MA))
		if err != nil {
			return false, err
		}
		if u {
			continue
		}
		crossing = true
		tr, err := e.transversalOff(ctx, b.Variety, []ideal.Ideal{Ej}, MA)
		if err != nil || !tr {
			return false, err
		}
	}
	if !crossing {
		return true, nil
	}

	return e.normalCrossOff(ctx, b.Variety, b.Divisors, MA)
}

// onlyWitness reports whether deleted chart i must stay deleted: every
// divisor, pair and triple of divisors visible in it is also visible in a
// surviving chart.
func (e *engine) onlyWitness(ctx context.Context, charts []*affineChart, i int) (bool, error) {
	c := charts[i]
	visible := func(b BasicObject, idx []int) (bool, error) {
		S := ideal.Zero(b.Ring)
		for _, j := range idx {
			S = S.Sum(b.Divisors[j])
		}
		u, err := e.isUnit(ctx, S)
		return !u, err
	}
	elsewhere := func(idx []int) (bool, error) {
		for l, o := range charts {
			if l == i || o.deleted || o.empty {
				continue
			}
			v, err := visible(o.bo, idx)
			if err != nil || v {
				return v, err
			}
		}
		return false, nil
	}
	nd := len(c.bo.Divisors)
	for k := 1; k <= 3; k++ {
		for _, idx := range pick(seq(nd), k) {
			v, err := visible(c.bo, idx)
			if err != nil {
				return false, err
			}
			if !v {
				continue
			}
			w, err := elsewhere(idx)
			if err != nil {
				return false, err
			}
			if !w {
				return false, nil
			}
		}
	}

	return true, nil
}

// finishChart runs the clean-up of a surviving chart and assembles its
// maps back to the parent ring.
func (e *engine) finishChart(ctx context.Context, c *affineChart, toR []poly.Poly, marker *poly.Poly, minimize bool) (ChartData, error) {
	b := c.bo
	S := b.Ring
	laM := c.laM
	if minimize {
		if el := ideal.ElimPart(b.Ambient); len(el.Eliminated) > 0 {
			b = b.mapTo(S, el.Images)
			laM = poly.ComposeMaps(S, laM, el.Images)
		}
		if b.Ambient.IsZero() {
			dv, err := e.divisorVars(ctx, b.Divisors, true)
			if err != nil {
				return ChartData{}, err
			}
			if el := ideal.ElimPart(b.Variety); len(el.Eliminated) > 0 && disjoint(el.Eliminated, dv) {
				b = b.mapTo(S, el.Images)
				laM = poly.ComposeMaps(S, laM, el.Images)
			}
		}
	}

	var err error
	if b.Ambient, err = e.k.Interred(ctx, b.Ambient); err != nil {
		return ChartData{}, err
	}
	if b.Variety, err = e.k.Interred(ctx, b.Variety); err != nil {
		return ChartData{}, err
	}
	for j, Ej := range b.Divisors {
		if b.Divisors[j], err = e.k.Interred(ctx, Ej); err != nil {
			return ChartData{}, err
		}
	}
	for j, Ej := range b.Divisors {
		u, err := e.isUnit(ctx, Ej.Sum(b.Variety))
		if err != nil {
			return ChartData{}, err
		}
		if u {
			b.Meets[j] = MeetNever
		} else {
			b.Meets[j] = MeetUnknown
		}
	}

	K := b.Ambient.Sum(b.Variety).Add(b.Pullback...)
	for _, Ej := range b.Divisors {
		K = K.Sum(Ej)
	}
	if keep := K.Vars(); len(keep) < S.NVars() {
		target, images := restriction(S, keep)
		b = b.mapTo(target, images)
		laM = poly.ComposeMaps(target, laM, images)
	}

	last := b.Divisors[len(b.Divisors)-1]
	var pending []StoredCenter
	for _, sc := range b.Pending {
		tt, err := e.std(ctx, sc.Ideal)
		if err != nil {
			return ChartData{}, err
		}
		if !isOne(tt) {
			if tt, err = e.sat(ctx, tt, last); err != nil {
				return ChartData{}, err
			}
		}
		u, err := e.isUnit(ctx, tt)
		if err != nil {
			return ChartData{}, err
		}
		if u {
			continue
		}
		if u, err = e.isUnit(ctx, tt.Sum(b.Variety).Sum(b.Ambient)); err != nil {
			return ChartData{}, err
		}
		if !u {
			sc.Ideal = tt
			pending = append(pending, sc)
		}
	}
	b.Pending = pending

	lastMap := poly.ComposeMaps(b.Ring, toR, laM)
	out := ChartData{BO: b, LastMap: lastMap}
	if marker != nil {
		p := marker.Map(b.Ring, lastMap)
		out.LocalMarker = &p
	}

	return out, nil
}

func disjoint(a, b []int) bool {
	for _, x := range a {
		if containsInt(b, x) {
			return false
		}
	}

	return true
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}
