// SPDX-License-Identifier: MIT

package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// CoeffStatus classifies a Coeff result.
type CoeffStatus int

const (
	// CoeffOK means BO holds the coefficient object on a hypersurface of
	// maximal contact.
	CoeffOK CoeffStatus = iota
	// CoeffResolved means there is nothing left to reduce.
	CoeffResolved
	// CoeffNoHypersurface means no generator or random combination of the
	// last Delta entry is a usable hypersurface; Offending holds that entry.
	CoeffNoHypersurface
)

// Hypersurface choice codes.
const (
	choiceGood = iota
	choiceSingular
	choiceNotTransversal
)

// CoeffResult is the outcome of Coeff.
type CoeffResult struct {
	Status CoeffStatus
	// BO is the coefficient object: ambient W + Z, variety the weak
	// transform of the coefficient ideal, divisors cut by Z.
	BO BasicObject
	// Hypersurface is the chosen Z.
	Hypersurface poly.Poly
	// Controlled is the controlled transform: b quotient steps per divisor.
	Controlled ideal.Ideal
	// Offending is the last Delta entry when no hypersurface was found.
	Offending ideal.Ideal
	// ErrType is the worst choice code seen (1 singular, 2 not transversal).
	ErrType int
}

// Coeff reduces bo, of order b, to a problem on a hypersurface of maximal
// contact.
func Coeff(ctx context.Context, k *ideal.Kernel, bo BasicObject, b int, opts ...Option) (CoeffResult, error) {
	return newEngine(k, opts).coeff(ctx, bo, b)
}

// SpecialCoeff is Coeff with the hypersurface f given; divisors are
// handled by saturation.
func SpecialCoeff(ctx context.Context, k *ideal.Kernel, bo BasicObject, b int, f poly.Poly) (BasicObject, error) {
	return newEngine(k, nil).specialCoeff(ctx, bo, b, f)
}

// coeff
// Stage 1 (Choose): a generator Z of the last Delta entry passing
// goodChoice, else up to coeffAttempts random combinations of the
// generators that failed only on transversality, else one random
// combination of all generators.
// Stage 2 (Build): C = Z + Σ_{i<b} NF(L[i], Z)^(b!/(b−i)), interreduced.
// Stage 3 (Transform): cut ambient space and divisors by Z; replace C by
// its weak transform along every divisor.
func (e *engine) coeff(ctx context.Context, bo BasicObject, b int) (CoeffResult, error) {
	if b <= 0 {
		return CoeffResult{}, newInvariantError("Coeff called with order 0", bo.Variety)
	}
	L, err := e.deltaList(ctx, bo)
	if err != nil {
		return CoeffResult{}, err
	}
	if len(L) == 0 {
		return CoeffResult{Status: CoeffResolved, BO: bo}, nil
	}
	r := bo.Variety.Ring()
	last := L[len(L)-1]

	var Z poly.Poly
	found := false
	errType := 0
	var retry []poly.Poly
	for _, g := range last.Gens() {
		code, err := e.goodChoice(ctx, bo, g)
		if err != nil {
			return CoeffResult{}, err
		}
		if code == choiceGood {
			Z, found = g, true
			break
		}
		if code > choiceSingular {
			retry = append(retry, g)
		}
		errType = max(errType, code)
	}
	if !found {
		code := choiceSingular
		if len(retry) > 0 {
			for a := 0; a < coeffAttempts; a++ {
				p := e.combine(r, retry)
				if code, err = e.goodChoice(ctx, bo, p); err != nil {
					return CoeffResult{}, err
				}
				if code == choiceGood {
					Z, found = p, true
					break
				}
			}
		}
		if !found {
			p := e.combine(r, last.Gens())
			if code, err = e.goodChoice(ctx, bo, p); err != nil {
				return CoeffResult{}, err
			}
			if code == choiceGood {
				Z, found = p, true
			}
		}
		if !found {
			errType = max(errType, code)
			if e.traces(TraceCoeff) {
				e.log.Debug("no hypersurface of maximal contact",
					zap.Int("errtype", errType), zap.Stringer("delta", last))
			}
			return CoeffResult{Status: CoeffNoHypersurface, Offending: last, ErrType: errType}, nil
		}
	}
	if e.traces(TraceCoeff) {
		e.log.Debug("hypersurface chosen", zap.Stringer("z", Z), zap.Int("b", b))
	}

	Zi := ideal.New(r, Z)
	C := Zi
	for i := 0; i < b && i < len(L); i++ {
		red, err := e.k.ReduceIdeal(ctx, L[i], Zi)
		if err != nil {
			return CoeffResult{}, err
		}
		C = C.Sum(powerI(red, b, b-i))
	}
	if C, err = e.k.Interred(ctx, C); err != nil {
		return CoeffResult{}, err
	}

	out := bo.Clone()
	out.Ambient = bo.Ambient.Add(Z)
	weak, controlled := C, C
	for i, Ei := range out.Divisors {
		out.Meets[i] = MeetUnknown
		if isOne(Ei) {
			continue
		}
		Ei = Ei.Add(Z)
		out.Divisors[i] = Ei
		if weak, err = e.weakTransform(ctx, weak, Ei, out.Ambient); err != nil {
			return CoeffResult{}, err
		}
		for s := 0; s < b; s++ {
			if controlled, err = e.k.Quotient(ctx, controlled, Ei); err != nil {
				return CoeffResult{}, err
			}
		}
	}
	out.Variety = weak

	return CoeffResult{Status: CoeffOK, BO: out, Hypersurface: Z, Controlled: controlled}, nil
}

// weakTransform divides I by E as long as the quotient times E, plus W,
// gives back the previous ideal; the last such quotient is returned.
func (e *engine) weakTransform(ctx context.Context, I, E, W ideal.Ideal) (ideal.Ideal, error) {
	prev := I
	cur := I
	for step := 0; ; step++ {
		if step > 0 {
			back, err := e.k.Equal(ctx, cur.Product(E).Sum(W), prev)
			if err != nil {
				return ideal.Ideal{}, err
			}
			if !back {
				break
			}
		}
		prev = cur
		next, err := e.k.Quotient(ctx, cur, E)
		if err != nil {
			return ideal.Ideal{}, err
		}
		same, err := e.k.Equal(ctx, next, cur)
		if err != nil {
			return ideal.Ideal{}, err
		}
		if same {
			break
		}
		cur = next
	}

	return prev, nil
}

// combine returns Σ c_i·g_i with c_i uniform in [−coeffRange, coeffRange].
func (e *engine) combine(r *poly.Ring, gens []poly.Poly) poly.Poly {
	p := poly.Zero(r)
	for _, g := range gens {
		c := int64(e.rnd.Intn(2*coeffRange+1) - coeffRange)
		p = p.Add(g.ScaleInt(c))
	}

	return p
}

// goodChoice rates p as a hypersurface of maximal contact:
// choiceSingular when p ∈ W or W + p is singular, choiceNotTransversal
// when W + p is not transversal to a divisor or the cut divisors lose
// normal crossings, choiceGood otherwise.
func (e *engine) goodChoice(ctx context.Context, bo BasicObject, p poly.Poly) (int, error) {
	in, err := e.member(ctx, p, bo.Ambient)
	if err != nil {
		return 0, err
	}
	if in {
		return choiceSingular, nil
	}
	W := bo.Ambient.Add(p)
	sm, err := e.smooth(ctx, W, false)
	if err != nil {
		return 0, err
	}
	if !sm {
		return choiceSingular, nil
	}
	if len(bo.Divisors) == 0 {
		return choiceGood, nil
	}

	dW, err := e.dim(ctx, W)
	if err != nil {
		return 0, err
	}
	d := W.Ring().NVars() - dW + 1
	for _, Ei := range bo.Divisors {
		T := W.Sum(Ei)
		minors, err := ideal.Minors(T.Jacobian(), d)
		if err != nil {
			return 0, err
		}
		unit, err := e.isUnit(ctx, T.Add(minors...))
		if err != nil {
			return 0, err
		}
		if !unit {
			return choiceNotTransversal, nil
		}
	}

	cut := make([]ideal.Ideal, len(bo.Divisors))
	for i, Ei := range bo.Divisors {
		in, err := e.member(ctx, p, Ei)
		if err != nil {
			return 0, err
		}
		if in {
			cut[i] = Ei
		} else {
			cut[i] = Ei.Add(p)
		}
	}
	nc, err := e.normalCross(ctx, cut, nil)
	if err != nil {
		return 0, err
	}
	if nc {
		return choiceGood, nil
	}

	return choiceNotTransversal, nil
}

// specialCoeff
// Stage 1 (Build): C = f + Σ_{i<b} L[i]^(b!/(b−i)).
// Stage 2 (Transform): W += f, every divisor += f, C saturated by each
// divisor plus W.
func (e *engine) specialCoeff(ctx context.Context, bo BasicObject, b int, f poly.Poly) (BasicObject, error) {
	L, err := e.deltaList(ctx, bo)
	if err != nil {
		return BasicObject{}, err
	}
	r := bo.Variety.Ring()
	fact := factorial(b)
	C := ideal.Zero(r)
	for i := 0; i < b && i < len(L); i++ {
		C = C.Sum(L[i].Power(fact / (b - i)))
	}
	C = C.Add(f)
	out := bo.Clone()
	out.Ambient = bo.Ambient.Add(f)
	out.Variety = C
	for i, Ei := range out.Divisors {
		out.Meets[i] = MeetUnknown
		out.Divisors[i] = Ei.Add(f)
		if out.Variety, err = e.sat(ctx, out.Variety, out.Divisors[i].Sum(out.Ambient)); err != nil {
			return BasicObject{}, err
		}
	}

	return out, nil
}

// powerI returns I^(n!/m).
func powerI(I ideal.Ideal, n, m int) ideal.Ideal {
	return I.Power(factorial(n) / m)
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}

	return f
}
