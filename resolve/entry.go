// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"fmt"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
)

// NewBasicObject builds the object of the variety V(J) inside V(cfg.Ambient)
// with the given divisors: identity pullback, Origin [-1], Order
// [cfg.OrderHint], empty witness and saturation cache.
func NewBasicObject(J ideal.Ideal, cfg Config) (BasicObject, error) {
	r := J.Ring()
	if r == nil {
		return BasicObject{}, fmt.Errorf("NewBasicObject: %w", ErrEmptyCenter)
	}
	W := cfg.Ambient
	if W.Ring() == nil {
		W = ideal.Zero(r)
	}
	if !W.Ring().Equal(r) {
		return BasicObject{}, fmt.Errorf("NewBasicObject: ambient over %v, variety over %v: %w", W.Ring(), r, ErrRingMismatch)
	}
	for i, E := range cfg.Divisors {
		if !E.Ring().Equal(r) {
			return BasicObject{}, fmt.Errorf("NewBasicObject: divisor %d over %v: %w", i, E.Ring(), ErrRingMismatch)
		}
	}

	return BasicObject{
		Ring:            r,
		Ambient:         W,
		Variety:         J,
		Order:           []int{cfg.OrderHint},
		Divisors:        append([]ideal.Ideal(nil), cfg.Divisors...),
		Pullback:        poly.Identity(r),
		Meets:           make([]Meet, len(cfg.Divisors)),
		Origin:          []int{-1},
		Witness:         []int{0},
		SatCache:        []int{0},
		Equidimensional: J.Len() == 1,
		Hypersurface:    J.Len() == 1,
	}, nil
}

// validate checks W ⊆ J.
func (bo BasicObject) validate(ctx context.Context, k *ideal.Kernel) error {
	if bo.Variety.IsZero() {
		return fmt.Errorf("variety: %w", ErrEmptyCenter)
	}
	ok, err := k.Contains(ctx, bo.Variety, bo.Ambient)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("ambient %v: %w", bo.Ambient, ErrNotContained)
	}

	return nil
}

// CenterOf returns the first center of the resolution of V(J) inside the
// ambient space and divisors of cfg.
func CenterOf(ctx context.Context, k *ideal.Kernel, J ideal.Ideal, cfg Config, opts ...Option) (ideal.Ideal, error) {
	bo, err := NewBasicObject(J, cfg)
	if err != nil {
		return ideal.Ideal{}, err
	}
	if err := bo.validate(ctx, k); err != nil {
		return ideal.Ideal{}, err
	}
	c, err := FindCenter(ctx, k, bo, opts...)
	if err != nil {
		return ideal.Ideal{}, err
	}

	return c.Ideal, nil
}

// BlowUpIdeal blows up the ambient space of cfg along C and transforms
// V(J). The center must not be the zero ideal.
func BlowUpIdeal(ctx context.Context, k *ideal.Kernel, J, C ideal.Ideal, cfg Config, opts ...Option) ([]ChartData, error) {
	if C.IsZero() {
		return nil, fmt.Errorf("BlowUpIdeal: %w", ErrEmptyCenter)
	}
	bo, err := NewBasicObject(J, cfg)
	if err != nil {
		return nil, err
	}
	if !C.Ring().Equal(bo.Ring) {
		return nil, fmt.Errorf("BlowUpIdeal: center over %v: %w", C.Ring(), ErrRingMismatch)
	}
	if err := bo.validate(ctx, k); err != nil {
		return nil, err
	}

	return BlowUp(ctx, k, bo, C, opts...)
}
