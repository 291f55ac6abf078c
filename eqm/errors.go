// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// kinds of failure
var (
	// ErrMalformedConstraint indicates a structural problem in a constraint specification
	ErrMalformedConstraint = errors.New("eqm: malformed constraint")

	// ErrIllPosed indicates that the number of equations differs from the number of unknowns
	ErrIllPosed = errors.New("eqm: ill-posed constraint system")

	// ErrInfeasible indicates a bulk composition that is not a non-negative combination of phase formulas
	ErrInfeasible = errors.New("eqm: infeasible composition")

	// ErrSingular indicates a singular Jacobian
	ErrSingular = errors.New("eqm: singular jacobian")

	// ErrNotConverged indicates that the iteration budget was exhausted
	ErrNotConverged = errors.New("eqm: solver did not converge")

	// ErrNoSignChange indicates that the bulk observable does not change sign over the bracket
	ErrNoSignChange = errors.New("eqm: no sign change")
)

// SolveError wraps one of the kinds above with diagnostic data
type SolveError struct {
	Kind       error     // one of the Err... values
	Msg        string    // details
	Iterations int       // number of iterations performed
	Residual   float64   // infinity norm of last residual
	Iterate    []float64 // last iterate [P, T, λ..., n_1, x_1..., n_2, x_2..., ...]
}

// newError returns a SolveError without iteration data
func newError(kind error, msg string, prm ...interface{}) *SolveError {
	return &SolveError{Kind: kind, Msg: io.Sf(msg, prm...)}
}

// Error returns the error message
func (o *SolveError) Error() string {
	if o.Iterate != nil {
		return io.Sf("%v: %s (it=%d, |R|=%g)", o.Kind, o.Msg, o.Iterations, o.Residual)
	}
	return io.Sf("%v: %s", o.Kind, o.Msg)
}

// Unwrap returns the kind of error
func (o *SolveError) Unwrap() error { return o.Kind }
