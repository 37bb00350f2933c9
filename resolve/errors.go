// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/katalvlaran/desing/ideal"
)

// Sentinel errors returned by the resolution engine.
var (
	// ErrEmptyCenter indicates a center (or an input) given by the zero ideal;
	// the whole space is never a valid center.
	ErrEmptyCenter = errors.New("resolve: center is the zero ideal")

	// ErrInternal indicates a failed internal consistency check. It is always
	// delivered inside an *InvariantError.
	ErrInternal = errors.New("resolve: internal consistency violation")

	// ErrCoverMismatch indicates that the order and count vectors of a chart
	// of an open cover have different lengths.
	ErrCoverMismatch = errors.New("resolve: invariant vectors of open cover disagree")

	// ErrNotContained indicates an ambient ideal not contained in the variety.
	ErrNotContained = errors.New("resolve: variety does not contain the ambient space ideal")

	// ErrRingMismatch indicates ideals of different rings in one object.
	ErrRingMismatch = errors.New("resolve: ideals belong to different rings")

	// ErrChartLimit indicates that more charts were created than allowed by
	// WithMaxCharts.
	ErrChartLimit = errors.New("resolve: chart limit exceeded")

	// ErrNotResolved indicates a terminal chart failing verification.
	ErrNotResolved = errors.New("resolve: chart is not resolved")

	// ErrCanceled indicates that the context was canceled or timed out.
	ErrCanceled = errors.New("resolve: canceled")
)

// InvariantError describes an internal consistency violation: the chart it
// occurred in (-1 outside the driver), the offending ideal and a stack
// trace of the detection site.
type InvariantError struct {
	Chart  int
	Ideal  string
	Reason string
	cause  error
}

// newInvariantError captures the stack at the call site.
func newInvariantError(reason string, I ideal.Ideal) *InvariantError {
	return &InvariantError{
		Chart:  -1,
		Ideal:  I.String(),
		Reason: reason,
		cause:  pkgerrors.WithStack(ErrInternal),
	}
}

// Error implements error.
func (e *InvariantError) Error() string {
	if e.Chart >= 0 {
		return fmt.Sprintf("%v: %s (chart %d, ideal %s)", ErrInternal, e.Reason, e.Chart, e.Ideal)
	}

	return fmt.Sprintf("%v: %s (ideal %s)", ErrInternal, e.Reason, e.Ideal)
}

// Unwrap returns the stack-carrying ErrInternal, so errors.Is matches it.
func (e *InvariantError) Unwrap() error { return e.cause }

// StackTrace returns the stack recorded where the violation was detected.
func (e *InvariantError) StackTrace() pkgerrors.StackTrace {
	var st interface{ StackTrace() pkgerrors.StackTrace }
	if errors.As(e.cause, &st) {
		return st.StackTrace()
	}

	return nil
}

// atChart stamps the chart handle on an InvariantError inside err.
func atChart(err error, h int) error {
	var ie *InvariantError
	if errors.As(err, &ie) && ie.Chart < 0 {
		ie.Chart = h
	}

	return err
}

// canceled maps context errors to ErrCanceled, keeping the cause.
func canceled(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if errors.Is(err, ErrCanceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	return err
}
